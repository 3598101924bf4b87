package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nasimstg/skilltree/pkg/errors"
	"github.com/nasimstg/skilltree/pkg/layout"
	"github.com/nasimstg/skilltree/pkg/progress"
	"github.com/nasimstg/skilltree/pkg/render"
	"github.com/nasimstg/skilltree/pkg/tree"
	"github.com/nasimstg/skilltree/pkg/validate"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// Catalog
// =============================================================================

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.trees.List(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"trees": summaries})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	t, err := s.trees.Get(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// =============================================================================
// Layout / Render
// =============================================================================

// layoutParams parses direction and theme query parameters, rejecting
// unknown values rather than silently defaulting over the API.
func layoutParams(r *http.Request) (layout.Options, error) {
	opts := layout.Options{
		Direction: layout.DirectionTB,
		Theme:     layout.ThemeConstellation,
	}
	if d := r.URL.Query().Get("direction"); d != "" {
		opts.Direction = layout.Direction(d)
		if !opts.Direction.Valid() {
			return opts, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q, want LR or TB", d)
		}
	}
	if th := r.URL.Query().Get("theme"); th != "" {
		opts.Theme = layout.Theme(th)
		if !opts.Theme.Valid() {
			return opts, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", th)
		}
	}
	return opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := layoutParams(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	t, err := s.trees.Get(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	positions := layout.Compute(t.Nodes, t.Edges, opts)
	width, height := layout.Bounds(positions, opts.Theme)
	respondJSON(w, http.StatusOK, map[string]any{
		"positions": positions,
		"width":     width,
		"height":    height,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := layoutParams(r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	t, err := s.trees.Get(r.Context(), chi.URLParam(r, "treeID"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	// An optional user renders their progress into the image.
	completed := tree.NewSet()
	if user := r.URL.Query().Get("user"); user != "" {
		completed, err = s.progress.Get(r.Context(), user, t.TreeID)
		if err != nil {
			respondAppError(w, err)
			return
		}
	}

	dot := render.ToDOT(t, render.Options{
		Direction: opts.Direction,
		Completed: completed,
	})
	svg, err := render.RenderSVG(r.Context(), dot)
	if err != nil {
		respondAppError(w, errors.Wrap(errors.ErrCodeInternal, err, "render tree %s", t.TreeID))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// =============================================================================
// Validation
// =============================================================================

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var t tree.Tree
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}

	result := validate.Tree(t)
	respondJSON(w, http.StatusOK, map[string]any{
		"valid":  result.OK(),
		"errors": result,
	})
}

// =============================================================================
// Progress
// =============================================================================

type progressResponse struct {
	User       string              `json:"user"`
	TreeID     string              `json:"treeId"`
	Completed  []string            `json:"completed"`
	Projection progress.Projection `json:"projection"`
}

type progressRequest struct {
	Completed []string `json:"completed"`
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	treeID := chi.URLParam(r, "treeID")
	if err := errors.ValidateTreeID(treeID); err != nil {
		respondAppError(w, err)
		return
	}

	completed, err := s.progress.Get(r.Context(), user, treeID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, progressResponse{
		User:       user,
		TreeID:     treeID,
		Completed:  completed.IDs(),
		Projection: progress.Project(completed.Len(), 0),
	})
}

func (s *Server) handlePutProgress(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	treeID := chi.URLParam(r, "treeID")
	if err := errors.ValidateTreeID(treeID); err != nil {
		respondAppError(w, err)
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errors.ErrCodeInvalidFormat, "invalid JSON body")
		return
	}

	// Completed ids must exist in the tree; silently storing unknown ids
	// would corrupt projections forever.
	t, err := s.trees.Get(r.Context(), treeID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	for _, id := range req.Completed {
		if _, ok := t.Node(id); !ok {
			respondError(w, http.StatusBadRequest, errors.ErrCodeNodeNotFound,
				"node "+id+" does not exist in tree "+treeID)
			return
		}
	}

	if err := s.progress.Upsert(r.Context(), user, treeID, req.Completed); err != nil {
		respondAppError(w, err)
		return
	}

	completed := tree.NewSet(req.Completed...)
	respondJSON(w, http.StatusOK, progressResponse{
		User:       user,
		TreeID:     treeID,
		Completed:  completed.IDs(),
		Projection: progress.Project(completed.Len(), 0),
	})
}
