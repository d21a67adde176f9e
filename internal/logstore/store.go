package logstore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atikulmunna/clientlog/internal/model"
)

// Store is an append-only text log.
type Store interface {
	// Append adds line plus a trailing newline.
	Append(line string) error
	// ReadAll returns the whole log.
	ReadAll() (string, error)
}

// FileStore keeps the log in a single file on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path. Call Init before serving.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the log file location.
func (s *FileStore) Path() string {
	return s.path
}

// Init truncates (or creates) the log file and writes the start marker.
func (s *FileStore) Init(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(model.StartMarker(now)+"\n"), 0644); err != nil {
		return fmt.Errorf("init log file: %w", err)
	}
	return nil
}

// Append writes line in a single write call while holding the store lock, so
// concurrent appends never interleave. The file is reopened each time and
// recreated if it was removed behind our back.
func (s *FileStore) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAll returns the full contents of the log file.
func (s *FileStore) ReadAll() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MemStore is an in-memory Store for tests and embedding.
type MemStore struct {
	mu      sync.RWMutex
	buf     strings.Builder
	present bool
}

// NewMemStore returns an initialized MemStore whose first line is the start marker.
func NewMemStore(now time.Time) *MemStore {
	m := &MemStore{present: true}
	m.buf.WriteString(model.StartMarker(now) + "\n")
	return m
}

func (m *MemStore) Append(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.present = true
	m.buf.WriteString(line)
	m.buf.WriteByte('\n')
	return nil
}

func (m *MemStore) ReadAll() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return "", fs.ErrNotExist
	}
	return m.buf.String(), nil
}

// Remove drops the contents, like deleting the file.
func (m *MemStore) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf.Reset()
	m.present = false
}
