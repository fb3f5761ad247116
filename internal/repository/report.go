package repository

import (
	"context"

	"reportvault/internal/model"
)

// ReportRepository defines data access for reports using SQL queries only.
// No business logic here — strictly persistence operations.
type ReportRepository interface {
	// FindByID returns the active report with the given ID. Soft-deleted
	// rows are invisible: ErrNotFound, same as a row that never existed.
	FindByID(ctx context.Context, id string) (*model.Report, error)

	// FindByOwner returns the owner's reports ordered newest first.
	// Soft-deleted rows are included only when includeDeleted is set.
	FindByOwner(ctx context.Context, ownerID string, includeDeleted bool) ([]model.Report, error)

	// Save inserts the report or, when the ID already exists, updates its
	// mutable columns (name, content, updated_at, deleted_at). OwnerID and
	// CreatedAt are never rewritten.
	Save(ctx context.Context, report *model.Report) error

	// Delete removes the row permanently. Soft deletion is a Save with
	// DeletedAt set; this is the hard variant for purging.
	Delete(ctx context.Context, id string) error

	// Search returns the owner's active reports whose name or content
	// contains the query as a literal, case-insensitive substring, ordered
	// newest first.
	Search(ctx context.Context, ownerID, query string) ([]model.Report, error)
}
