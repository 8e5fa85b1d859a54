package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/pdfsplit/internal/ranges"
)

// The range endpoints are the JSON front door to the reconciler, for callers
// that edit ranges interactively before submitting a split.

type rangesRequest struct {
	Ranges     []ranges.PageRange `json:"ranges"`
	TotalPages int                `json:"total_pages"`
	Parts      int                `json:"parts"`
}

func decodeRangesRequest(w http.ResponseWriter, r *http.Request) (rangesRequest, bool) {
	var req rangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.TotalPages < 1 {
		jsonError(w, "total_pages must be at least 1", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) handleValidateRanges(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRangesRequest(w, r)
	if !ok {
		return
	}
	valid, message := ranges.Validate(req.Ranges, req.TotalPages)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"valid":   valid,
		"message": message,
	})
}

func (s *Server) handleFillRanges(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRangesRequest(w, r)
	if !ok {
		return
	}
	// Overlapping input is a caller error here, not something fill repairs.
	if len(req.Ranges) > 0 {
		if valid, message := ranges.Validate(req.Ranges, req.TotalPages); !valid {
			jsonError(w, message, http.StatusUnprocessableEntity)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"ranges": ranges.FillMissingPages(req.Ranges, req.TotalPages),
	})
}

func (s *Server) handleEqualSplits(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRangesRequest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"ranges": ranges.SuggestEqualSplits(req.TotalPages, req.Parts),
	})
}
