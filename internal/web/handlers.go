package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/coltype/internal/core"
	"github.com/JonMunkholm/coltype/internal/history"
	"github.com/JonMunkholm/coltype/internal/ingest"
	"github.com/JonMunkholm/coltype/internal/logging"
	"github.com/JonMunkholm/coltype/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

const (
	// multipartOverhead is allowed on top of the file limit for form
	// boundaries and headers.
	multipartOverhead = 1 << 20

	// maxMemory is how much of a multipart body is buffered before
	// spilling to temp files.
	maxMemory = 32 << 20

	recentOnIndex   = 10
	defaultRunLimit = 50
	maxRunLimit     = 500
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), recentOnIndex)
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to load recent runs", "error", err)
		runs = nil
	}

	page := templates.IndexPage{
		Extensions:  ingest.Extensions(),
		MaxFileSize: formatBytes(s.service.MaxFileSize()),
		Recent:      runViews(runs),
	}
	s.render(w, r, http.StatusOK, templates.Index(page))
}

func (s *Server) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), parseLimit(r))
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	s.render(w, r, http.StatusOK, templates.HistoryPage(runViews(runs)))
}

// handleUpload classifies the multipart "file" field. It serves both
// POST /upload and POST /api/classify.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if limit := s.service.MaxFileSize(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
			respondError(w, r, err, errorStatus(err, http.StatusBadRequest))
			return
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", ingest.ErrNoFile, err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	resp, err := s.service.ClassifyUpload(r.Context(), header.Filename, file, uploadSize(header))
	if err != nil {
		respondError(w, r, err, errorStatus(err, http.StatusBadRequest))
		return
	}

	if isHTMX(r) {
		s.render(w, r, http.StatusOK, templates.Results(resultView(resp)))
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func uploadSize(h *multipart.FileHeader) int64 {
	if h.Size > 0 {
		return h.Size
	}
	return -1
}

// RunsResponse is the body of GET /api/history.
type RunsResponse struct {
	Runs []history.Run `json:"runs"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), parseLimit(r))
	if err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, RunsResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Run(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err, errorStatus(err, http.StatusBadRequest))
		return
	}
	writeJSON(w, r, http.StatusOK, run)
}

// FormatInfo describes one accepted upload type.
type FormatInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats := ingest.Formats()
	out := make([]FormatInfo, len(formats))
	for i, f := range formats {
		out[i] = FormatInfo{Name: f.Name, Extensions: f.Extensions}
	}
	writeJSON(w, r, http.StatusOK, out)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string                   `json:"status"`
	Uploads core.UploadLimiterStatus `json:"uploads"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uploads: s.service.UploadLimiterStatus(),
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// parseLimit reads ?limit=, clamped to maxRunLimit.
func parseLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		return defaultRunLimit
	}
	return min(n, maxRunLimit)
}
