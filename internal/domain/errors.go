package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist or is not visible to the requesting user.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing issue type on a dismiss request).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when a write targets a trip the requesting user
// does not own. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")
