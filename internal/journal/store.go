// Package journal keeps an append-only record of workflow runs. Runs never read it
// back; it only feeds the history commands.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entry is one recorded run.
type Entry struct {
	RecordedAt  time.Time `json:"recordedAt"`
	Source      string    `json:"source"`
	Operation   string    `json:"operation"`
	Status      string    `json:"status"`
	FailedState string    `json:"failedState,omitempty"`
	Error       string    `json:"error,omitempty"`
	Contract    string    `json:"contract,omitempty"`
	TxHash      string    `json:"txHash,omitempty"`
	BlockNumber uint64    `json:"blockNumber,omitempty"`
	GasUsed     uint64    `json:"gasUsed,omitempty"`
	ValueWei    string    `json:"valueWei,omitempty"`
	FeeWei      string    `json:"feeWei,omitempty"`
	Event       string    `json:"event,omitempty"`
	DurationMs  int64     `json:"durationMs"`
}

// Store abstracts journal persistence.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries recorded by source, newest first. An empty
	// source matches every entry.
	Recent(ctx context.Context, source string, limit int) ([]Entry, error)
	Close()
}

// MemoryStore lives for one process; mostly for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryStore) Recent(_ context.Context, source string, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.entries, source, limit), nil
}

func (m *MemoryStore) Close() {}

// FileStore persists entries as a JSON array on disk.
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries []Entry
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(blob) == 0 {
		return nil
	}
	return json.Unmarshal(blob, &f.entries)
}

func (f *FileStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, blob, 0o600)
}

func (f *FileStore) Append(_ context.Context, entry Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.persist()
}

func (f *FileStore) Recent(_ context.Context, source string, limit int) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return newestFirst(f.entries, source, limit), nil
}

func (f *FileStore) Close() {}

func newestFirst(entries []Entry, source string, limit int) []Entry {
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		if source != "" && entries[i].Source != source {
			continue
		}
		out = append(out, entries[i])
	}
	return out
}

// Open picks Postgres when dsn is set, a file when path is set, and memory otherwise.
func Open(ctx context.Context, dsn, path string) (Store, error) {
	switch {
	case dsn != "":
		return NewPostgresStore(ctx, dsn)
	case path != "":
		return NewFileStore(path)
	default:
		return NewMemoryStore(), nil
	}
}
