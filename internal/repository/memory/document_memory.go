package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"reportvault/internal/model"
	"reportvault/internal/repository"
)

// DocumentMemory is an in-memory repository.DocumentRepository.
// Safe for concurrent use.
type DocumentMemory struct {
	mu        sync.Mutex
	documents map[string]model.Document
}

// NewDocumentMemory creates an empty in-memory document repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{documents: make(map[string]model.Document)}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func (r *DocumentMemory) FindByID(ctx context.Context, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[id]
	if !ok || doc.Deleted() {
		return nil, repository.ErrNotFound
	}
	out := doc
	return &out, nil
}

func (r *DocumentMemory) FindByReport(ctx context.Context, reportID string, includeDeleted bool) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]model.Document, 0)
	for _, doc := range r.documents {
		if doc.ReportID != reportID {
			continue
		}
		if doc.Deleted() && !includeDeleted {
			continue
		}
		items = append(items, doc)
	}
	sortDocumentsNewestFirst(items)
	return items, nil
}

func (r *DocumentMemory) FindByReportAndHash(ctx context.Context, reportID, hash string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.activeByReportAndHash(reportID, hash); ok {
		return &doc, nil
	}
	return nil, repository.ErrNotFound
}

func (r *DocumentMemory) Save(ctx context.Context, doc *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *doc
	existing, exists := r.documents[doc.ID]
	if exists {
		// Mutable columns only, matching the postgres upsert.
		stored.ReportID = existing.ReportID
		stored.Filename = existing.Filename
		stored.ContentHash = existing.ContentHash
		stored.StorageLocation = existing.StorageLocation
		stored.CreatedAt = existing.CreatedAt
	}

	// The equivalent of the partial unique index: an insert (or a revival
	// through Save) may not produce a second active row with the same
	// content hash inside one report.
	if !stored.Deleted() {
		if dup, ok := r.activeByReportAndHash(stored.ReportID, stored.ContentHash); ok && dup.ID != stored.ID {
			return repository.ErrConflict
		}
	}

	r.documents[doc.ID] = stored
	return nil
}

func (r *DocumentMemory) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.documents, id)
	return nil
}

func (r *DocumentMemory) Search(ctx context.Context, reportID, query string) ([]model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(query)
	items := make([]model.Document, 0)
	for _, doc := range r.documents {
		if doc.ReportID != reportID || doc.Deleted() {
			continue
		}
		if strings.Contains(strings.ToLower(doc.Filename), q) ||
			strings.Contains(strings.ToLower(doc.Notes), q) {
			items = append(items, doc)
		}
	}
	sortDocumentsNewestFirst(items)
	return items, nil
}

// activeByReportAndHash must be called with the lock held.
func (r *DocumentMemory) activeByReportAndHash(reportID, hash string) (model.Document, bool) {
	for _, doc := range r.documents {
		if doc.ReportID == reportID && doc.ContentHash == hash && !doc.Deleted() {
			return doc, true
		}
	}
	return model.Document{}, false
}

func sortDocumentsNewestFirst(items []model.Document) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
