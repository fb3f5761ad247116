package service

import (
	"errors"
	"fmt"

	"reportvault/internal/repository"
)

// The services return typed errors only. The HTTP layer maps each sentinel
// to a status code; anything outside this taxonomy renders as an internal
// error.
var (
	// ErrValidation indicates malformed input: an empty or oversized name,
	// or an update call carrying no delta.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates no active row matches the id.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the row exists but the caller does not own
	// it. Kept distinct from ErrNotFound so the boundary can answer 403
	// rather than 404.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a duplicate content hash among the active
	// documents of a report.
	ErrConflict = errors.New("document already exists")

	// ErrStorageIO indicates the content store failed to read, write or
	// delete bytes.
	ErrStorageIO = errors.New("storage failure")

	// ErrPersistenceIO indicates a repository failure not otherwise
	// classified.
	ErrPersistenceIO = errors.New("persistence failure")
)

// classifyRepoError translates repository sentinels into service sentinels,
// keeping op as context on the unclassified remainder.
func classifyRepoError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %s: %v", ErrPersistenceIO, op, err)
	}
}
