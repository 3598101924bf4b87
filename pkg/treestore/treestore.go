// Package treestore provides read access to the published skill-tree
// catalog. Two backends exist: a directory of JSON files (one per tree,
// named <treeId>.json) for local use, and a MongoDB collection for the
// hosted catalog. Both serve the same canonical schema from pkg/tree.
package treestore

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/nasimstg/skilltree/pkg/errors"
	"github.com/nasimstg/skilltree/pkg/tree"
)

// Summary is a catalog listing entry: tree metadata without the graph.
type Summary struct {
	TreeID          string `json:"treeId" bson:"treeId"`
	Title           string `json:"title" bson:"title"`
	Category        string `json:"category" bson:"category"`
	Difficulty      string `json:"difficulty" bson:"difficulty"`
	Description     string `json:"description" bson:"description"`
	EstimatedMonths int    `json:"estimatedMonths" bson:"estimatedMonths"`
	TotalNodes      int    `json:"totalNodes" bson:"totalNodes"`
	Icon            string `json:"icon" bson:"icon"`
}

func summarize(t *tree.Tree) Summary {
	return Summary{
		TreeID:          t.TreeID,
		Title:           t.Title,
		Category:        t.Category,
		Difficulty:      t.Difficulty,
		Description:     t.Description,
		EstimatedMonths: t.EstimatedMonths,
		TotalNodes:      t.TotalNodes,
		Icon:            t.Icon,
	}
}

// Store is the read interface over the published catalog.
type Store interface {
	// Get returns the tree with the given id, or an ErrCodeTreeNotFound
	// error when it does not exist.
	Get(ctx context.Context, treeID string) (*tree.Tree, error)

	// List returns summaries of every published tree, sorted by tree id.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// =============================================================================
// File-Backed Catalog
// =============================================================================

// FileStore serves trees from a directory of <treeId>.json files.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed catalog rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "tree directory %q not accessible", baseDir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeStore, "tree path %q is not a directory", baseDir)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) Get(ctx context.Context, treeID string) (*tree.Tree, error) {
	if err := errors.ValidateTreeID(treeID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := tree.ReadFile(filepath.Join(s.baseDir, treeID+".json"))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", treeID)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read tree %q", treeID)
	}
	return &t, nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read tree directory")
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		t, err := tree.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			// A malformed file must not take down the whole catalog.
			continue
		}
		if t.TreeID == "" {
			t.TreeID = strings.TrimSuffix(entry.Name(), ".json")
		}
		summaries = append(summaries, summarize(&t))
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return strings.Compare(a.TreeID, b.TreeID)
	})
	return summaries, nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the catalog directory.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
