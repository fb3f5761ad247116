package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"reportvault/internal/model"
	"reportvault/internal/repository"
)

// maxReportNameLen is the rune limit for a report name after trimming.
const maxReportNameLen = 200

// maxReportContentLen is the byte limit for report content.
const maxReportContentLen = 1 << 20

// ReportService defines the use cases for handling reports. Every method
// takes the verified owner id of the caller; reports belonging to anyone
// else fail with ErrUnauthorized.
type ReportService interface {
	// Create makes a new active report for ownerID. The name is trimmed and
	// must be 1 to 200 characters afterwards.
	Create(ctx context.Context, ownerID, name string) (*model.Report, error)

	// Get returns the active report with the given id. A missing or
	// soft-deleted row fails with ErrNotFound; a foreign row with
	// ErrUnauthorized.
	Get(ctx context.Context, id, ownerID string) (*model.Report, error)

	// List returns the caller's active reports, newest first.
	List(ctx context.Context, ownerID string) ([]model.Report, error)

	// Update applies the non-nil deltas. At least one delta is required; a
	// name delta is validated like Create, and content is capped at 1 MiB.
	Update(ctx context.Context, id, ownerID string, name, content *string) (*model.Report, error)

	// Delete soft-deletes the report. A second delete of the same id fails
	// with ErrNotFound: deleted rows are invisible to mutation.
	Delete(ctx context.Context, id, ownerID string) error

	// Search returns the caller's active reports whose name or content
	// contains query, case-insensitively, newest first.
	Search(ctx context.Context, ownerID, query string) ([]model.Report, error)
}

// reportService is a concrete implementation of ReportService.
type reportService struct {
	repo repository.ReportRepository
}

// NewReportService constructs a new ReportService.
func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) Create(ctx context.Context, ownerID, name string) (*model.Report, error) {
	trimmed, err := validateReportName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rep := &model.Report{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      trimmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, rep); err != nil {
		return nil, classifyRepoError("save report", err)
	}
	return rep, nil
}

func (s *reportService) Get(ctx context.Context, id, ownerID string) (*model.Report, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classifyRepoError("find report", err)
	}
	if rep.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return rep, nil
}

func (s *reportService) List(ctx context.Context, ownerID string) ([]model.Report, error) {
	reports, err := s.repo.FindByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, classifyRepoError("list reports", err)
	}
	return reports, nil
}

func (s *reportService) Update(ctx context.Context, id, ownerID string, name, content *string) (*model.Report, error) {
	if name == nil && content == nil {
		return nil, ErrValidation
	}

	rep, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed, err := validateReportName(*name)
		if err != nil {
			return nil, err
		}
		rep.Name = trimmed
	}
	if content != nil {
		if len(*content) > maxReportContentLen {
			return nil, ErrValidation
		}
		rep.Content = *content
	}
	rep.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, rep); err != nil {
		return nil, classifyRepoError("save report", err)
	}
	return rep, nil
}

func (s *reportService) Delete(ctx context.Context, id, ownerID string) error {
	rep, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rep.DeletedAt = &now
	rep.UpdatedAt = now

	if err := s.repo.Save(ctx, rep); err != nil {
		return classifyRepoError("save report", err)
	}
	return nil
}

func (s *reportService) Search(ctx context.Context, ownerID, query string) ([]model.Report, error) {
	reports, err := s.repo.Search(ctx, ownerID, query)
	if err != nil {
		return nil, classifyRepoError("search reports", err)
	}
	return reports, nil
}

// validateReportName trims the name and enforces the length bounds.
func validateReportName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxReportNameLen {
		return "", ErrValidation
	}
	return trimmed, nil
}
