package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound = errors.New("not found")
	// The stored document revision no longer matches the one read.
	// The operation may be retried by the caller after a fresh read;
	// nothing retries automatically.
	ErrRevisionMismatch = errors.New("revision mismatch")
	// The remote store could not be reached or answered with an error.
	ErrStoreUnavailable = errors.New("order store unavailable")

	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrRequiredBodyParam  = errors.New("required body parameter")
	ErrInvalidContentType = errors.New("invalid content type")
	// Phone numbers are exactly 10 digits after stripping non-digits.
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")

	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimit    = errors.New("rate limit")
)

// Type just for marshalling purpose.
// Should only be used immediately before marshalling.
type JSON struct {
	Error string `json:"error"`
}

// SaveFailedError carries the server-provided reason of a failed
// remote write so it can be surfaced to the user verbatim.
type SaveFailedError struct {
	Reason string
}

func (e *SaveFailedError) Error() string {
	if e.Reason == "" {
		return "failed to save order"
	}
	return fmt.Sprintf("failed to save order: %s", e.Reason)
}
