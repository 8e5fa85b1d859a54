package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pdfsplit/internal/pipeline"
)

var validModes = map[string]bool{
	"":          true, // defaults to auto
	"auto":      true,
	"toc":       true,
	"heuristic": true,
	"ranges":    true,
	"equal":     true,
	"ai":        true,
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	mode := r.FormValue("mode")
	if !validModes[mode] {
		jsonError(w, fmt.Sprintf("unknown mode: %q", mode), http.StatusBadRequest)
		return
	}
	if mode == "" {
		mode = "auto"
	}
	if mode == "ranges" && strings.TrimSpace(r.FormValue("ranges")) == "" {
		jsonError(w, "ranges is required for mode=ranges", http.StatusBadRequest)
		return
	}
	if mode == "ai" && s.gemini == nil {
		jsonError(w, "ai detection is not configured", http.StatusServiceUnavailable)
		return
	}

	parts := 2
	if v := r.FormValue("parts"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			parts = n
		}
	}
	tocDepth := s.cfg.DefaultTOCDepth
	if v := r.FormValue("toc_depth"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tocDepth = n
		}
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:       pipeline.NewJobID(),
		DocID:    pipeline.ContentHashHex(data)[:16],
		Status:   pipeline.StatusQueued,
		Phase:    "queued",
		Filename: filename,
		Options: pipeline.SplitOptions{
			Mode:      mode,
			RangeSpec: r.FormValue("ranges"),
			Parts:     parts,
			TOCDepth:  tocDepth,
			FillGaps:  r.FormValue("fill_gaps") == "true",
			Numbering: r.FormValue("numbering") != "false",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":       job.ID,
		"doc_id":       job.DocID,
		"status":       job.Status,
		"poll_url":     fmt.Sprintf("/api/split/%s/status", job.ID),
		"download_url": fmt.Sprintf("/api/split/%s/download", job.ID),
	})
}

func (s *Server) handleSplitStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found or expired", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted, pipeline.StatusPartial:
	case pipeline.StatusFailed:
		jsonError(w, "job failed; nothing to download", http.StatusGone)
		return
	default:
		jsonError(w, fmt.Sprintf("job not finished (status %s)", snap.Status), http.StatusConflict)
		return
	}

	name, data, ok := job.Result()
	if !ok {
		jsonError(w, "result no longer available", http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// readUpload pulls the PDF out of a multipart form, enforcing the size limit
// and extension check shared by the split and inspect handlers.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename = sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", false
	}

	data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	return data, filename, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
