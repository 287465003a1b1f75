package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/pipeline"
	"github.com/matzehuels/mindgrove/pkg/store"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// maxRequestBytes bounds request bodies. Content is text, so this is
// generous.
const maxRequestBytes = 10 << 20

// optionsPayload mirrors pipeline.Options for partial JSON overrides.
// Pointer fields distinguish unset from zero so requests only override
// what they name.
type optionsPayload struct {
	MaxNodes        *int     `json:"max_nodes"`
	MaxDepth        *int     `json:"max_depth"`
	ExcludeExamples *bool    `json:"exclude_examples"`
	Dedup           *bool    `json:"dedup"`
	MultiPass       *bool    `json:"multi_pass"`
	ChunkSize       *int     `json:"chunk_size"`
	ChunkOverlap    *int     `json:"chunk_overlap"`
	Palette         []string `json:"palette"`
	Model           string   `json:"model"`
	Refresh         bool     `json:"refresh"`
}

func (p *optionsPayload) apply(opts *pipeline.Options) {
	if p == nil {
		return
	}
	if p.MaxNodes != nil {
		opts.MaxNodes = *p.MaxNodes
	}
	if p.MaxDepth != nil {
		opts.MaxDepth = *p.MaxDepth
	}
	if p.ExcludeExamples != nil {
		opts.ExcludeExamples = *p.ExcludeExamples
	}
	if p.Dedup != nil {
		opts.Dedup = *p.Dedup
	}
	if p.MultiPass != nil {
		opts.MultiPass = *p.MultiPass
	}
	if p.ChunkSize != nil {
		opts.ChunkSize = *p.ChunkSize
	}
	if p.ChunkOverlap != nil {
		opts.ChunkOverlap = *p.ChunkOverlap
	}
	if len(p.Palette) > 0 {
		opts.Palette = p.Palette
	}
	if p.Model != "" {
		opts.Model = p.Model
	}
	opts.Refresh = p.Refresh
}

type generateRequest struct {
	Content string          `json:"content"`
	Title   string          `json:"title"`
	Save    bool            `json:"save"`
	Options *optionsPayload `json:"options"`
}

type processRequest struct {
	Model   treemodel.TreeModel `json:"model"`
	Options *optionsPayload     `json:"options"`
}

type mindmapResponse struct {
	ID        string              `json:"id,omitempty"`
	Title     string              `json:"title,omitempty"`
	Language  string              `json:"language"`
	NodeCount int                 `json:"node_count"`
	Removed   int                 `json:"removed"`
	Repaired  int                 `json:"repaired"`
	Cached    bool                `json:"cached"`
	Model     treemodel.TreeModel `json:"model"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	opts := s.cfg.Defaults
	req.Options.apply(&opts)

	result, err := s.runner.Execute(r.Context(), req.Content, opts)
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}

	resp := resultResponse(result)
	resp.Title = req.Title

	if req.Save {
		title := req.Title
		if title == "" {
			if root, ok := result.Tree.Root(); ok {
				title = root.Text
			}
		}
		doc := store.NewMindMap(title, result.Model, resp.Language)
		if err := s.store.Save(r.Context(), doc); err != nil {
			jsonError(w, "save mind map: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp.ID = doc.ID
		resp.Title = title
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Model.NodeDataArray) == 0 {
		jsonError(w, "model with nodes is required", http.StatusBadRequest)
		return
	}

	opts := s.cfg.Defaults
	req.Options.apply(&opts)

	result, err := s.runner.Process(r.Context(), req.Model, opts)
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, resultResponse(result))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	maps, err := s.store.List(r.Context(), 0)
	if err != nil {
		jsonError(w, "list mind maps: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Summaries only, the full model is fetched per ID.
	type summary struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Language  string `json:"language"`
		NodeCount int    `json:"node_count"`
		UpdatedAt string `json:"updated_at"`
	}
	out := make([]summary, 0, len(maps))
	for _, m := range maps {
		out = append(out, summary{
			ID:        m.ID,
			Title:     m.Title,
			Language:  m.Language,
			NodeCount: m.NodeCount,
			UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"mindmaps": out})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "mind map not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "get mind map: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		jsonError(w, "delete mind map: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resultResponse converts a pipeline result into the response shape.
func resultResponse(result *pipeline.Result) mindmapResponse {
	return mindmapResponse{
		Language:  string(transform.DetectTreeLanguage(result.Tree)),
		NodeCount: result.Stats.NodeCount,
		Removed:   result.Stats.RemovedCount,
		Repaired:  result.Report.Total(),
		Cached:    result.CacheInfo.ArtifactHit,
		Model:     result.Model,
	}
}

// errorStatus maps pipeline error codes to HTTP status codes.
func errorStatus(err error) int {
	switch mgerrors.GetCode(err) {
	case mgerrors.ErrCodeConfig, mgerrors.ErrCodeParse:
		return http.StatusBadRequest
	case mgerrors.ErrCodeIntegrity:
		return http.StatusUnprocessableEntity
	case mgerrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
