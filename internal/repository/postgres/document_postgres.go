package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"reportvault/internal/model"
	"reportvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// uniqueViolation is the PostgreSQL error code raised when the partial
// unique index on (report_id, content_hash) rejects a duplicate active row.
const uniqueViolation = "23505"

func scanDocument(row rowScanner) (*model.Document, error) {
	var doc model.Document
	var extracted sql.NullString
	var deletedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.ReportID,
		&doc.Filename,
		&doc.ContentHash,
		&doc.StorageLocation,
		&extracted,
		&doc.Notes,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}
	if extracted.Valid {
		s := extracted.String
		doc.ExtractedText = &s
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		doc.DeletedAt = &t
	}
	return &doc, nil
}

// FindByID fetches a single active document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, report_id, filename, content_hash, storage_location, extracted_text, notes, created_at, updated_at, deleted_at
		FROM documents
		WHERE id = $1 AND deleted_at IS NULL
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// FindByReport returns the report's documents, newest first.
func (r *DocumentPostgres) FindByReport(ctx context.Context, reportID string, includeDeleted bool) ([]model.Document, error) {
	q := `
		SELECT id, report_id, filename, content_hash, storage_location, extracted_text, notes, created_at, updated_at, deleted_at
		FROM documents
		WHERE report_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`
	if includeDeleted {
		q = `
			SELECT id, report_id, filename, content_hash, storage_location, extracted_text, notes, created_at, updated_at, deleted_at
			FROM documents
			WHERE report_id = $1
			ORDER BY created_at DESC, id DESC
		`
	}

	rows, err := r.db.QueryContext(ctx, q, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// FindByReportAndHash fetches the active document carrying the given content
// hash within a report. Soft-deleted rows never match.
func (r *DocumentPostgres) FindByReportAndHash(ctx context.Context, reportID, hash string) (*model.Document, error) {
	const q = `
		SELECT id, report_id, filename, content_hash, storage_location, extracted_text, notes, created_at, updated_at, deleted_at
		FROM documents
		WHERE report_id = $1 AND content_hash = $2 AND deleted_at IS NULL
	`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, reportID, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Save inserts the document or updates its mutable columns when the ID
// exists. report_id, filename, content_hash, storage_location and created_at
// are write-once. A duplicate active (report_id, content_hash) pair maps the
// unique-index violation to repository.ErrConflict.
func (r *DocumentPostgres) Save(ctx context.Context, doc *model.Document) error {
	const q = `
		INSERT INTO documents (id, report_id, filename, content_hash, storage_location, extracted_text, notes, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			extracted_text = EXCLUDED.extracted_text,
			notes          = EXCLUDED.notes,
			updated_at     = EXCLUDED.updated_at,
			deleted_at     = EXCLUDED.deleted_at
	`
	var extracted sql.NullString
	if doc.ExtractedText != nil {
		extracted = sql.NullString{String: *doc.ExtractedText, Valid: true}
	}
	var deletedAt sql.NullTime
	if doc.DeletedAt != nil {
		deletedAt = sql.NullTime{Time: *doc.DeletedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		doc.ID,
		doc.ReportID,
		doc.Filename,
		doc.ContentHash,
		doc.StorageLocation,
		extracted,
		doc.Notes,
		doc.CreatedAt,
		doc.UpdatedAt,
		deletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// Delete removes a document row permanently. Deleting an absent row is not
// an error.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Search returns the report's active documents matching the query in
// filename or notes, newest first.
func (r *DocumentPostgres) Search(ctx context.Context, reportID, query string) ([]model.Document, error) {
	const q = `
		SELECT id, report_id, filename, content_hash, storage_location, extracted_text, notes, created_at, updated_at, deleted_at
		FROM documents
		WHERE report_id = $1
		  AND deleted_at IS NULL
		  AND (filename ILIKE '%' || $2 || '%' OR notes ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, reportID, likeEscaper.Replace(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
