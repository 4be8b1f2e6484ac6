// Package handler implements the HTTP surface of the validation engine.
// All handlers are methods on Server; routes are registered in Routes.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/backend/internal/domain"
	"github.com/tripfolio/backend/internal/middleware"
)

// ValidationServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ValidationServicer interface {
	Validate(ctx context.Context, tripID, userID int64) (domain.ValidationReport, error)
	GetQuickStatus(ctx context.Context, tripID, userID int64) (domain.QuickStatus, error)
	DismissIssue(ctx context.Context, tripID, userID int64, issueType, issueKey string, category domain.IssueCategory) error
	RestoreIssue(ctx context.Context, tripID, userID int64, issueType, issueKey string) error
}

// Server holds the handler dependencies.
type Server struct {
	validation ValidationServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(validation ValidationServicer) *Server {
	return &Server{validation: validation}
}

// Routes mounts the validation endpoints on r. Everything under /api requires
// an authenticated user; /healthz does not.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Route("/trips/{tripID}/validation", func(r chi.Router) {
			r.Get("/", s.ValidateTrip)
			r.Get("/status", s.QuickStatus)
			r.Post("/dismiss", s.DismissIssue)
			r.Post("/restore", s.RestoreIssue)
		})
	})
}
