package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/pdfsplit/internal/pdfdoc"
)

// handleInspect opens an uploaded PDF and returns its snapshot: page count,
// size, metadata, and the chapters detected from its outline or text.
// Inspection is synchronous; only splitting goes through the job queue.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	tocDepth := s.cfg.DefaultTOCDepth
	if v := r.FormValue("toc_depth"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tocDepth = n
		}
	}

	doc, err := pdfdoc.Open(data, filename)
	if err != nil {
		jsonError(w, "failed to open pdf: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc.Inspect(tocDepth))
}
