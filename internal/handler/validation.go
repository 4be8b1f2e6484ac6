package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/backend/internal/domain"
	"github.com/tripfolio/backend/internal/middleware"
)

// ValidateTrip handles GET /api/trips/{tripID}/validation.
func (s *Server) ValidateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	report, err := s.validation.Validate(r.Context(), tripID, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// QuickStatus handles GET /api/trips/{tripID}/validation/status.
func (s *Server) QuickStatus(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	status, err := s.validation.GetQuickStatus(r.Context(), tripID, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// dismissRequest is the body of both dismiss and restore calls; restore
// ignores the category.
type dismissRequest struct {
	IssueType string               `json:"issue_type"`
	IssueKey  string               `json:"issue_key"`
	Category  domain.IssueCategory `json:"category,omitempty"`
}

// DismissIssue handles POST /api/trips/{tripID}/validation/dismiss.
func (s *Server) DismissIssue(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	var req dismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	err := s.validation.DismissIssue(r.Context(), tripID, middleware.UserID(r.Context()), req.IssueType, req.IssueKey, req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreIssue handles POST /api/trips/{tripID}/validation/restore.
func (s *Server) RestoreIssue(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	var req dismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	err := s.validation.RestoreIssue(r.Context(), tripID, middleware.UserID(r.Context()), req.IssueType, req.IssueKey)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tripIDParam parses the {tripID} path parameter, replying 400 itself when
// the value is not a positive integer.
func tripIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "trip id must be a positive integer")
		return 0, false
	}
	return id, true
}
