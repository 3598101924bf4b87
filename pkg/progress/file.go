package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nasimstg/skilltree/pkg/tree"
)

// FileStore is a file-based progress store for CLI usage.
// Each (user, tree) pair is one JSON file under baseDir.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// fileRecord is the on-disk shape of one completion set.
type fileRecord struct {
	User      string    `json:"user"`
	TreeID    string    `json:"treeId"`
	Completed []string  `json:"completed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewFileStore creates a file-based progress store.
// If baseDir is empty, defaults to ~/.config/skilltree/progress/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "skilltree", "progress")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create progress dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(user, treeID string) string {
	return filepath.Join(s.baseDir, user+"--"+treeID+".json")
}

// Get returns the stored completion set, or an empty set if none exists.
func (s *FileStore) Get(ctx context.Context, user, treeID string) (tree.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(user, treeID))
	if err != nil {
		if os.IsNotExist(err) {
			return tree.NewSet(), nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse progress: %w", err)
	}
	return tree.NewSet(rec.Completed...), nil
}

// Upsert replaces the stored completion set.
func (s *FileStore) Upsert(ctx context.Context, user, treeID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := fileRecord{
		User:      user,
		TreeID:    treeID,
		Completed: ids,
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := os.WriteFile(s.path(user, treeID), data, 0600); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory for progress files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
