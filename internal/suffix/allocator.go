package suffix

import (
	"fmt"
	"sort"
)

// Allocator hands out and reclaims suffixes from a Store.
type Allocator struct {
	store Store
}

// NewAllocator creates an allocator over store.
func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// Slot is a single pool entry.
type Slot struct {
	Suffix string `json:"suffix"`
	Taken  bool   `json:"taken"`
}

// Initialize creates the state document with every slot free. It does
// nothing when the document already exists.
func (a *Allocator) Initialize() error {
	if a.store.Exists() {
		return nil
	}
	return a.store.Save(NewDocument())
}

func (a *Allocator) load() (*Document, error) {
	if err := a.Initialize(); err != nil {
		return nil, err
	}
	return a.store.Load()
}

// NextAvailable returns the lowest free suffix without taking it.
func (a *Allocator) NextAvailable() (string, error) {
	doc, err := a.load()
	if err != nil {
		return "", err
	}
	return nextFree(doc)
}

func nextFree(doc *Document) (string, error) {
	keys := sortedKeys(doc.PortSuffixes)
	for _, k := range keys {
		if !doc.PortSuffixes[k] && Validate(k) == nil {
			return k, nil
		}
	}
	return "", ErrPoolExhausted
}

// Take marks s as in use. Taking a slot that is already in use fails with
// ErrAlreadyTaken and leaves the document untouched.
func (a *Allocator) Take(s string) error {
	if err := Validate(s); err != nil {
		return err
	}
	doc, err := a.load()
	if err != nil {
		return err
	}
	if doc.PortSuffixes[s] {
		return fmt.Errorf("%w: %s", ErrAlreadyTaken, s)
	}
	doc.PortSuffixes[s] = true
	return a.store.Save(doc)
}

// Release marks s as free. Releasing a free slot is not an error.
func (a *Allocator) Release(s string) error {
	if err := Validate(s); err != nil {
		return err
	}
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.PortSuffixes[s] = false
	return a.store.Save(doc)
}

// Reserve takes the lowest free suffix and returns it.
func (a *Allocator) Reserve() (string, error) {
	s, err := a.NextAvailable()
	if err != nil {
		return "", err
	}
	if err := a.Take(s); err != nil {
		return "", err
	}
	return s, nil
}

// IsTaken reports whether s is in use.
func (a *Allocator) IsTaken(s string) (bool, error) {
	if err := Validate(s); err != nil {
		return false, err
	}
	doc, err := a.load()
	if err != nil {
		return false, err
	}
	return doc.PortSuffixes[s], nil
}

// Slots returns every pool entry in ascending order.
func (a *Allocator) Slots() ([]Slot, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	keys := sortedKeys(doc.PortSuffixes)
	slots := make([]Slot, 0, len(keys))
	for _, k := range keys {
		slots = append(slots, Slot{Suffix: k, Taken: doc.PortSuffixes[k]})
	}
	return slots, nil
}

// GetConfig returns a free-form setting stored alongside the pool.
func (a *Allocator) GetConfig(key string) (any, bool, error) {
	doc, err := a.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc.Config[key]
	return v, ok, nil
}

// SetConfig stores a free-form setting alongside the pool.
func (a *Allocator) SetConfig(key string, value any) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc.Config[key] = value
	return a.store.Save(doc)
}

// Config returns a copy of every free-form setting.
func (a *Allocator) Config() (map[string]any, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(doc.Config))
	for k, v := range doc.Config {
		out[k] = v
	}
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
