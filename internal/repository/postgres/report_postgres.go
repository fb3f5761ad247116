package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"reportvault/internal/model"
	"reportvault/internal/repository"
)

// likeEscaper neutralizes LIKE/ILIKE metacharacters so search queries match
// literally, same as the in-memory implementation.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ReportPostgres is a PostgreSQL implementation of repository.ReportRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*model.Report, error) {
	var rep model.Report
	var deletedAt sql.NullTime
	if err := row.Scan(
		&rep.ID,
		&rep.OwnerID,
		&rep.Name,
		&rep.Content,
		&rep.CreatedAt,
		&rep.UpdatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		rep.DeletedAt = &t
	}
	return &rep, nil
}

// FindByID fetches a single active report by its ID.
func (r *ReportPostgres) FindByID(ctx context.Context, id string) (*model.Report, error) {
	const q = `
		SELECT id, owner_id, name, content, created_at, updated_at, deleted_at
		FROM reports
		WHERE id = $1 AND deleted_at IS NULL
	`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rep, nil
}

// FindByOwner returns the owner's reports, newest first.
func (r *ReportPostgres) FindByOwner(ctx context.Context, ownerID string, includeDeleted bool) ([]model.Report, error) {
	q := `
		SELECT id, owner_id, name, content, created_at, updated_at, deleted_at
		FROM reports
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`
	if includeDeleted {
		q = `
			SELECT id, owner_id, name, content, created_at, updated_at, deleted_at
			FROM reports
			WHERE owner_id = $1
			ORDER BY created_at DESC, id DESC
		`
	}

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReports(rows)
}

// Save inserts the report or updates its mutable columns when the ID exists.
// owner_id and created_at are write-once.
func (r *ReportPostgres) Save(ctx context.Context, report *model.Report) error {
	const q = `
		INSERT INTO reports (id, owner_id, name, content, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			content    = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`
	var deletedAt sql.NullTime
	if report.DeletedAt != nil {
		deletedAt = sql.NullTime{Time: *report.DeletedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		report.ID,
		report.OwnerID,
		report.Name,
		report.Content,
		report.CreatedAt,
		report.UpdatedAt,
		deletedAt,
	)
	return err
}

// Delete removes a report row permanently. Deleting an absent row is not an
// error.
func (r *ReportPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM reports WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Search returns the owner's active reports matching the query in name or
// content, newest first.
func (r *ReportPostgres) Search(ctx context.Context, ownerID, query string) ([]model.Report, error) {
	const q = `
		SELECT id, owner_id, name, content, created_at, updated_at, deleted_at
		FROM reports
		WHERE owner_id = $1
		  AND deleted_at IS NULL
		  AND (name ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID, likeEscaper.Replace(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReports(rows)
}

func collectReports(rows *sql.Rows) ([]model.Report, error) {
	items := make([]model.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
