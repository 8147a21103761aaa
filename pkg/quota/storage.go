package quota

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Storage persists the usage blob in durable client-local storage.
// Load returns ok=false when no record has been written yet.
type Storage interface {
	Load() (record UsageRecord, ok bool, err error)
	Save(record UsageRecord) error
}

// FileStorage keeps the usage blob as a JSON file under a fixed key in the
// given directory. It is the durable storage slot for desktop/CLI clients.
type FileStorage struct {
	path string
	log  *slog.Logger
}

// FileStorageOption configures FileStorage.
type FileStorageOption func(*FileStorage)

// WithStorageLogger routes storage warnings to the given logger.
func WithStorageLogger(log *slog.Logger) FileStorageOption {
	return func(s *FileStorage) {
		if log != nil {
			s.log = log
		}
	}
}

// NewFileStorage creates file-backed storage rooted at dir.
func NewFileStorage(dir string, opts ...FileStorageOption) *FileStorage {
	s := &FileStorage{
		path: filepath.Join(dir, StorageKey+".json"),
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStorage) Load() (UsageRecord, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UsageRecord{}, false, nil
		}
		return UsageRecord{}, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var record UsageRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A corrupt blob is treated as absent so the tracker can reset it,
		// but the reset must leave a trace.
		s.log.Warn("usage record is corrupt, resetting", "path", s.path, "error", err)
		return UsageRecord{}, false, nil
	}
	return record, true, nil
}

// Save writes through a temp file and renames it into place so a torn write
// can never corrupt the current record.
func (s *FileStorage) Save(record UsageRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// MemoryStorage implements Storage in memory. Intended for tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	record UsageRecord
	set    bool
}

// NewMemoryStorage creates an empty in-memory storage slot.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load() (UsageRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record, s.set, nil
}

func (s *MemoryStorage) Save(record UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	s.set = true
	return nil
}
