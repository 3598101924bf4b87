// Package draftstore persists builder drafts as JSON files in a local
// config directory. Each draft is one file keyed by its id; autosave from
// the builder overwrites the same file in place, so crashing mid-edit
// loses at most one debounce window of work.
package draftstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nasimstg/skilltree/pkg/builder"
)

// FileStore is a file-based draft store.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based draft store.
// If baseDir is empty, defaults to ~/.config/skilltree/drafts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "skilltree", "drafts")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) draftPath(draftID string) string {
	return filepath.Join(s.baseDir, draftID+".json")
}

// Save writes the draft to disk, overwriting any previous version.
func (s *FileStore) Save(d *builder.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := os.WriteFile(s.draftPath(d.ID), data, 0600); err != nil {
		return fmt.Errorf("write draft file: %w", err)
	}
	return nil
}

// Load reads a draft by id. Returns nil, false when the draft does not
// exist or its file is unreadable.
func (s *FileStore) Load(draftID string) (*builder.Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.draftPath(draftID))
	if err != nil {
		return nil, false
	}
	var d builder.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false
	}
	return &d, true
}

// Delete removes a draft. Deleting an absent draft is not an error.
func (s *FileStore) Delete(draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.draftPath(draftID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove draft file: %w", err)
	}
	return nil
}

// Entry describes a stored draft for listings.
type Entry struct {
	ID       string
	Title    string
	Nodes    int
	Modified time.Time
}

// List returns all stored drafts, most recently modified first. Corrupt
// files are skipped rather than failing the whole listing.
func (s *FileStore) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read draft dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, de.Name()))
		if err != nil {
			continue
		}
		var d builder.Draft
		if err := json.Unmarshal(data, &d); err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		id := d.ID
		if id == "" {
			id = strings.TrimSuffix(de.Name(), ".json")
		}
		entries = append(entries, Entry{
			ID:       id,
			Title:    d.Meta.Title,
			Nodes:    len(d.Nodes),
			Modified: info.ModTime(),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.Modified.Compare(a.Modified)
	})
	return entries, nil
}

// Path returns the base directory for draft files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ builder.Store = (*FileStore)(nil)
