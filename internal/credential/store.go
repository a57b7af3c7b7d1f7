package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists the single API key used to authorize text recognition.
// An empty string means no key has been saved yet.
type Store interface {
	// Save persists the key, trimming surrounding whitespace first
	Save(key string) error

	// Load returns the saved key, or an empty string if never set
	Load() (string, error)
}

// FileStore keeps the key in a single file under the application state
// directory so it survives restarts.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed credential store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the trimmed key to disk, creating parent directories
func (s *FileStore) Save(key string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(strings.TrimSpace(key)), 0o600)
}

// Load reads the key from disk. A missing file is not an error, it just
// means no key was saved yet.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// MemoryStore is an in-memory Store used in tests and one-shot runs
// where persistence is not wanted.
type MemoryStore struct {
	mu  sync.RWMutex
	key string
}

// NewMemoryStore creates a memory-backed store with an optional initial key
func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{key: strings.TrimSpace(key)}
}

// Save stores the trimmed key in memory
func (s *MemoryStore) Save(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = strings.TrimSpace(key)
	return nil
}

// Load returns the stored key
func (s *MemoryStore) Load() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key, nil
}
