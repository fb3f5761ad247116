package repository

import (
	"context"

	"reportvault/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries
// only. No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// FindByID returns the active document with the given ID. Soft-deleted
	// rows are invisible: ErrNotFound, same as a row that never existed.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByReport returns the report's documents ordered newest first.
	// Soft-deleted rows are included only when includeDeleted is set.
	FindByReport(ctx context.Context, reportID string, includeDeleted bool) ([]model.Document, error)

	// FindByReportAndHash returns the active document in the report with the
	// given content hash, or ErrNotFound. Soft-deleted rows never match, so
	// re-uploading previously deleted content is not a conflict.
	FindByReportAndHash(ctx context.Context, reportID, hash string) (*model.Document, error)

	// Save inserts the document or, when the ID already exists, updates its
	// mutable columns (notes, extracted_text, updated_at, deleted_at).
	// Inserting a duplicate (report_id, content_hash) among active rows
	// fails with ErrConflict.
	Save(ctx context.Context, doc *model.Document) error

	// Delete removes the row permanently. Soft deletion is a Save with
	// DeletedAt set; this is the hard variant for purging.
	Delete(ctx context.Context, id string) error

	// Search returns the report's active documents whose filename or notes
	// contain the query as a literal, case-insensitive substring, ordered
	// newest first.
	Search(ctx context.Context, reportID, query string) ([]model.Document, error)
}
