package suffix

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/dev-tools/internal/system"
)

func newTestAllocator(t *testing.T) (*Allocator, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projectsConfig.json")
	return NewAllocator(NewFileStore(system.DefaultFS(), path)), path
}

func TestInitialize_CreatesFullPool(t *testing.T) {
	alloc, path := newTestAllocator(t)

	require.NoError(t, alloc.Initialize())
	assert.FileExists(t, path)

	slots, err := alloc.Slots()
	require.NoError(t, err)
	require.Len(t, slots, PoolSize)
	for _, s := range slots {
		assert.False(t, s.Taken, "slot %s should be free", s.Suffix)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	require.NoError(t, alloc.Initialize())
	require.NoError(t, alloc.Take("03"))
	require.NoError(t, alloc.SetConfig("editor", "vim"))

	require.NoError(t, alloc.Initialize())

	taken, err := alloc.IsTaken("03")
	require.NoError(t, err)
	assert.True(t, taken, "second Initialize must not reset the pool")

	v, ok, err := alloc.GetConfig("editor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "vim", v)
}

func TestTakeRelease_RoundTrip(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	for _, s := range All() {
		require.NoError(t, alloc.Take(s))
		taken, err := alloc.IsTaken(s)
		require.NoError(t, err)
		assert.True(t, taken)

		require.NoError(t, alloc.Release(s))
		taken, err = alloc.IsTaken(s)
		require.NoError(t, err)
		assert.False(t, taken, "slot %s should be free after release", s)
	}
}

func TestTake_AlreadyTakenLeavesStateUnchanged(t *testing.T) {
	alloc, path := newTestAllocator(t)

	require.NoError(t, alloc.Take("12"))
	before := readFile(t, path)

	err := alloc.Take("12")
	assert.ErrorIs(t, err, ErrAlreadyTaken)
	assert.Equal(t, before, readFile(t, path))
}

func TestTake_InvalidSuffix(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	for _, s := range []string{"7", "7a", "007", "100"} {
		assert.ErrorIs(t, alloc.Take(s), ErrInvalidSuffix, "Take(%q)", s)
		assert.ErrorIs(t, alloc.Release(s), ErrInvalidSuffix, "Release(%q)", s)
	}
}

func TestRelease_FreeSlotIsNoop(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	require.NoError(t, alloc.Release("55"))
	taken, err := alloc.IsTaken("55")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestNextAvailable_LowestFree(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	s, err := alloc.NextAvailable()
	require.NoError(t, err)
	assert.Equal(t, "00", s)

	require.NoError(t, alloc.Take("00"))
	require.NoError(t, alloc.Take("01"))
	require.NoError(t, alloc.Take("03"))

	s, err = alloc.NextAvailable()
	require.NoError(t, err)
	assert.Equal(t, "02", s)
}

func TestNextAvailable_OnlyLastFree(t *testing.T) {
	mfs := system.NewMockFS()
	store := NewFileStore(mfs, "/opt/dev-tools/projectsConfig.json")
	doc := NewDocument()
	for _, s := range All()[:99] {
		doc.PortSuffixes[s] = true
	}
	require.NoError(t, store.Save(doc))

	s, err := NewAllocator(store).NextAvailable()
	require.NoError(t, err)
	assert.Equal(t, "99", s)
}

func TestNextAvailable_Exhausted(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	for i := 0; i < PoolSize; i++ {
		_, err := alloc.Reserve()
		require.NoError(t, err)
	}

	_, err := alloc.NextAvailable()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	_, err = alloc.Reserve()
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestReserve_Sequential(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	first, err := alloc.Reserve()
	require.NoError(t, err)
	second, err := alloc.Reserve()
	require.NoError(t, err)

	assert.Equal(t, "00", first)
	assert.Equal(t, "01", second)
}

func TestReserve_RaceDetectedAtTake(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projectsConfig.json")
	a := NewAllocator(NewFileStore(system.DefaultFS(), path))
	b := NewAllocator(NewFileStore(system.DefaultFS(), path))

	sa, err := a.NextAvailable()
	require.NoError(t, err)
	sb, err := b.NextAvailable()
	require.NoError(t, err)
	require.Equal(t, sa, sb)

	require.NoError(t, a.Take(sa))
	assert.ErrorIs(t, b.Take(sb), ErrAlreadyTaken)
}

func TestConfig(t *testing.T) {
	alloc, _ := newTestAllocator(t)

	_, ok, err := alloc.GetConfig("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, alloc.SetConfig("phpVersion", "8.3"))
	require.NoError(t, alloc.SetConfig("preferSource", true))

	cfg, err := alloc.Config()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"phpVersion": "8.3", "preferSource": true}, cfg)
}

func TestLoad_CorruptState(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"missing suffix map", `{"config": {}}`},
		{"null suffix map", `{"portSuffixes": null, "config": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := system.NewMockFS()
			mfs.AddFile("/opt/dev-tools/projectsConfig.json", []byte(tt.content), 0644)
			alloc := NewAllocator(NewFileStore(mfs, "/opt/dev-tools/projectsConfig.json"))

			_, err := alloc.NextAvailable()
			assert.ErrorIs(t, err, ErrCorruptState)
			assert.ErrorIs(t, alloc.Take("01"), ErrCorruptState)
		})
	}
}

func TestLoad_UnreadableStateIsCorrupt(t *testing.T) {
	mfs := system.NewMockFS()
	mfs.AddFile("/opt/dev-tools/projectsConfig.json", []byte(`{"portSuffixes": {}}`), 0644)
	mfs.ReadFileErr = fs.ErrPermission
	alloc := NewAllocator(NewFileStore(mfs, "/opt/dev-tools/projectsConfig.json"))

	_, err := alloc.NextAvailable()
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestLoad_MissingConfigMapIsTolerated(t *testing.T) {
	mfs := system.NewMockFS()
	mfs.AddFile("/opt/dev-tools/projectsConfig.json", []byte(`{"portSuffixes": {"00": true, "01": false}}`), 0644)
	alloc := NewAllocator(NewFileStore(mfs, "/opt/dev-tools/projectsConfig.json"))

	require.NoError(t, alloc.SetConfig("k", "v"))
	s, err := alloc.NextAvailable()
	require.NoError(t, err)
	assert.Equal(t, "01", s)
}

func TestSave_FailureKeepsPreviousDocument(t *testing.T) {
	mfs := system.NewMockFS()
	store := NewFileStore(mfs, "/opt/dev-tools/projectsConfig.json")
	alloc := NewAllocator(store)
	require.NoError(t, alloc.Initialize())

	mfs.RenameErr = fs.ErrPermission
	err := alloc.Take("04")
	assert.ErrorIs(t, err, fs.ErrPermission)

	mfs.RenameErr = nil
	taken, err := alloc.IsTaken("04")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestFileStore_WritesExpectedShape(t *testing.T) {
	mfs := system.NewMockFS()
	store := NewFileStore(mfs, "/state.json")
	require.NoError(t, NewAllocator(store).Take("10"))

	data, ok := mfs.GetFile("/state.json")
	require.True(t, ok)
	assert.Contains(t, string(data), `"portSuffixes"`)
	assert.Contains(t, string(data), `"config"`)
	assert.Contains(t, string(data), `"10": true`)
	assert.Contains(t, string(data), `"11": false`)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := system.DefaultFS().ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestFileStore_CreatesInstallDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ".dev-tools", "projectsConfig.json")
	alloc := NewAllocator(NewFileStore(system.DefaultFS(), path))

	require.NoError(t, alloc.Initialize())
	assert.FileExists(t, path)
}
