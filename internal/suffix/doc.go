// Package suffix allocates two-digit environment suffixes.
//
// Every environment owns one slot of a fixed pool of 100 suffixes, "00"
// through "99". The suffix is embedded in the environment's Docker subnet
// (10.0.<N>.0/24) and database host port, so two running environments must
// never share one.
//
// The pool lives in a single JSON document next to the binary:
//
//	{"portSuffixes": {"00": false, "01": true, ...}, "config": {...}}
//
// # Allocation
//
//	alloc := suffix.NewAllocator(suffix.NewFileStore(fs, paths.StateFile))
//	s, err := alloc.Reserve()
//
// Reserve picks the lowest free slot and takes it. Two processes racing on
// the same slot are not prevented from picking it; the second Take fails
// with ErrAlreadyTaken.
//
// Every mutation loads the whole document, changes it in memory and writes
// it back through a temp file and rename. There is no locking.
package suffix
