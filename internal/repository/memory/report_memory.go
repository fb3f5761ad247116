package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"reportvault/internal/model"
	"reportvault/internal/repository"
)

// Package memory contains in-memory implementations of the repository
// contracts. They back tests and local development and mirror the postgres
// semantics exactly: active-only lookups, newest-first ordering, and the
// unique (report_id, content_hash) constraint among active documents.

// ReportMemory is an in-memory repository.ReportRepository.
// Safe for concurrent use.
type ReportMemory struct {
	mu      sync.RWMutex
	reports map[string]model.Report
}

// NewReportMemory creates an empty in-memory report repository.
func NewReportMemory() *ReportMemory {
	return &ReportMemory{reports: make(map[string]model.Report)}
}

var _ repository.ReportRepository = (*ReportMemory)(nil)

func (r *ReportMemory) FindByID(ctx context.Context, id string) (*model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[id]
	if !ok || rep.Deleted() {
		return nil, repository.ErrNotFound
	}
	out := rep
	return &out, nil
}

func (r *ReportMemory) FindByOwner(ctx context.Context, ownerID string, includeDeleted bool) ([]model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Report, 0)
	for _, rep := range r.reports {
		if rep.OwnerID != ownerID {
			continue
		}
		if rep.Deleted() && !includeDeleted {
			continue
		}
		items = append(items, rep)
	}
	sortReportsNewestFirst(items)
	return items, nil
}

func (r *ReportMemory) Save(ctx context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *report
	if existing, ok := r.reports[report.ID]; ok {
		// Mutable columns only; owner and creation time are write-once.
		stored.OwnerID = existing.OwnerID
		stored.CreatedAt = existing.CreatedAt
	}
	r.reports[report.ID] = stored
	return nil
}

func (r *ReportMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.reports, id)
	return nil
}

func (r *ReportMemory) Search(ctx context.Context, ownerID, query string) ([]model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	items := make([]model.Report, 0)
	for _, rep := range r.reports {
		if rep.OwnerID != ownerID || rep.Deleted() {
			continue
		}
		if strings.Contains(strings.ToLower(rep.Name), q) ||
			strings.Contains(strings.ToLower(rep.Content), q) {
			items = append(items, rep)
		}
	}
	sortReportsNewestFirst(items)
	return items, nil
}

func sortReportsNewestFirst(items []model.Report) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
