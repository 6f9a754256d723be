package suffix

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/firefly-engineering/dev-tools/internal/system"
)

// Document is the persisted state: the suffix pool plus free-form settings.
type Document struct {
	PortSuffixes map[string]bool `json:"portSuffixes"`
	Config       map[string]any  `json:"config"`
}

// NewDocument returns a document with every slot free and an empty config.
func NewDocument() *Document {
	doc := &Document{
		PortSuffixes: make(map[string]bool, PoolSize),
		Config:       make(map[string]any),
	}
	for _, s := range All() {
		doc.PortSuffixes[s] = false
	}
	return doc
}

// Store persists the Document.
type Store interface {
	Exists() bool
	Load() (*Document, error)
	Save(doc *Document) error
}

// FileStore keeps the Document in a JSON file.
type FileStore struct {
	fs   system.FileSystem
	path string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(fs system.FileSystem, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Exists() bool {
	return s.fs.Exists(s.path)
}

func (s *FileStore) Load() (*Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCorruptState, s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}
	if doc.PortSuffixes == nil {
		return nil, fmt.Errorf("%w: %s: missing portSuffixes", ErrCorruptState, s.path)
	}
	if doc.Config == nil {
		doc.Config = make(map[string]any)
	}
	return &doc, nil
}

func (s *FileStore) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := system.WriteFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
