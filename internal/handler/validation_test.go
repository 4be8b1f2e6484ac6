package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/backend/internal/domain"
	"github.com/tripfolio/backend/internal/handler"
)

// ---- mock service ----------------------------------------------------------

// mockValidationService is a hand-written test double for handler.ValidationServicer.
type mockValidationService struct {
	validate       func(ctx context.Context, tripID, userID int64) (domain.ValidationReport, error)
	getQuickStatus func(ctx context.Context, tripID, userID int64) (domain.QuickStatus, error)
	dismissIssue   func(ctx context.Context, tripID, userID int64, issueType, issueKey string, category domain.IssueCategory) error
	restoreIssue   func(ctx context.Context, tripID, userID int64, issueType, issueKey string) error
}

func (m *mockValidationService) Validate(ctx context.Context, tripID, userID int64) (domain.ValidationReport, error) {
	return m.validate(ctx, tripID, userID)
}

func (m *mockValidationService) GetQuickStatus(ctx context.Context, tripID, userID int64) (domain.QuickStatus, error) {
	return m.getQuickStatus(ctx, tripID, userID)
}

func (m *mockValidationService) DismissIssue(ctx context.Context, tripID, userID int64, issueType, issueKey string, category domain.IssueCategory) error {
	return m.dismissIssue(ctx, tripID, userID, issueType, issueKey, category)
}

func (m *mockValidationService) RestoreIssue(ctx context.Context, tripID, userID int64, issueType, issueKey string) error {
	return m.restoreIssue(ctx, tripID, userID, issueType, issueKey)
}

var _ handler.ValidationServicer = (*mockValidationService)(nil)

// newRouter mounts the full route tree, including the auth middleware, so
// tests exercise the same stack as production.
func newRouter(svc handler.ValidationServicer) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(svc).Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- ValidateTrip ----------------------------------------------------------

func TestValidateTrip_OK(t *testing.T) {
	var gotTripID, gotUserID int64
	h := newRouter(&mockValidationService{
		validate: func(_ context.Context, tripID, userID int64) (domain.ValidationReport, error) {
			gotTripID, gotUserID = tripID, userID
			return domain.ValidationReport{
				TripID:     tripID,
				Status:     domain.ReportOkay,
				Categories: map[domain.IssueCategory][]domain.ValidationIssue{},
			}, nil
		},
	})

	rec := doRequest(t, h, http.MethodGet, "/api/trips/7/validation", "42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotTripID)
	assert.Equal(t, int64(42), gotUserID)
	assert.Contains(t, rec.Body.String(), `"status":"okay"`)
}

func TestValidateTrip_MissingUserHeader(t *testing.T) {
	h := newRouter(&mockValidationService{})

	rec := doRequest(t, h, http.MethodGet, "/api/trips/7/validation", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateTrip_NotFound(t *testing.T) {
	h := newRouter(&mockValidationService{
		validate: func(_ context.Context, _, _ int64) (domain.ValidationReport, error) {
			return domain.ValidationReport{}, domain.ErrNotFound
		},
	})

	rec := doRequest(t, h, http.MethodGet, "/api/trips/7/validation", "42", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestValidateTrip_BadTripID(t *testing.T) {
	h := newRouter(&mockValidationService{})

	rec := doRequest(t, h, http.MethodGet, "/api/trips/abc/validation", "42", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- QuickStatus -----------------------------------------------------------

func TestQuickStatus_OK(t *testing.T) {
	h := newRouter(&mockValidationService{
		getQuickStatus: func(_ context.Context, _, _ int64) (domain.QuickStatus, error) {
			return domain.QuickStatus{Status: domain.ReportPotentialIssues, ActiveIssues: 3}, nil
		},
	})

	rec := doRequest(t, h, http.MethodGet, "/api/trips/7/validation/status", "42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active_issues":3`)
}

// ---- DismissIssue ----------------------------------------------------------

func TestDismissIssue_NoContent(t *testing.T) {
	var gotType, gotKey string
	var gotCategory domain.IssueCategory
	h := newRouter(&mockValidationService{
		dismissIssue: func(_ context.Context, _, _ int64, issueType, issueKey string, category domain.IssueCategory) error {
			gotType, gotKey, gotCategory = issueType, issueKey, category
			return nil
		},
	})

	body := `{"issue_type":"lodging_gap","issue_key":"2025-06-11","category":"accommodations"}`
	rec := doRequest(t, h, http.MethodPost, "/api/trips/7/validation/dismiss", "42", body)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.IssueLodgingGap, gotType)
	assert.Equal(t, "2025-06-11", gotKey)
	assert.Equal(t, domain.CategoryAccommodations, gotCategory)
}

func TestDismissIssue_InvalidJSON(t *testing.T) {
	h := newRouter(&mockValidationService{})

	rec := doRequest(t, h, http.MethodPost, "/api/trips/7/validation/dismiss", "42", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDismissIssue_ValidationError(t *testing.T) {
	h := newRouter(&mockValidationService{
		dismissIssue: func(_ context.Context, _, _ int64, _, _ string, _ domain.IssueCategory) error {
			return domain.ErrValidation
		},
	})

	rec := doRequest(t, h, http.MethodPost, "/api/trips/7/validation/dismiss", "42", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDismissIssue_Forbidden(t *testing.T) {
	h := newRouter(&mockValidationService{
		dismissIssue: func(_ context.Context, _, _ int64, _, _ string, _ domain.IssueCategory) error {
			return domain.ErrForbidden
		},
	})

	body := `{"issue_type":"empty_days","issue_key":"empty_days"}`
	rec := doRequest(t, h, http.MethodPost, "/api/trips/7/validation/dismiss", "42", body)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---- RestoreIssue ----------------------------------------------------------

func TestRestoreIssue_NoContent(t *testing.T) {
	var gotType, gotKey string
	h := newRouter(&mockValidationService{
		restoreIssue: func(_ context.Context, _, _ int64, issueType, issueKey string) error {
			gotType, gotKey = issueType, issueKey
			return nil
		},
	})

	body := `{"issue_type":"timeline_conflict","issue_key":"1:2"}`
	rec := doRequest(t, h, http.MethodPost, "/api/trips/7/validation/restore", "42", body)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.IssueTimelineConflict, gotType)
	assert.Equal(t, "1:2", gotKey)
}

func TestRestoreIssue_NotFoundTrip(t *testing.T) {
	h := newRouter(&mockValidationService{
		restoreIssue: func(_ context.Context, _, _ int64, _, _ string) error {
			return domain.ErrNotFound
		},
	})

	body := `{"issue_type":"timeline_conflict","issue_key":"1:2"}`
	rec := doRequest(t, h, http.MethodPost, "/api/trips/7/validation/restore", "42", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
