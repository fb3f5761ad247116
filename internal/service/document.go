package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"reportvault/internal/model"
	"reportvault/internal/repository"
	"reportvault/internal/storage"
)

// DocumentService defines the use cases for handling uploaded documents.
//
// A document carries no owner of its own: every method resolves the parent
// report and checks its owner before touching the document. That transitive
// check runs through authorizeReport on all paths, reads included.
type DocumentService interface {
	// Upload stores the bytes content-addressed under the report's
	// namespace and creates the metadata row. Uploading bytes whose hash
	// already exists among the report's active documents fails with
	// ErrConflict. Text extraction is best-effort and never fails the
	// upload.
	Upload(ctx context.Context, reportID, ownerID, filename string, data []byte) (*model.Document, error)

	// Get returns the active document's metadata.
	Get(ctx context.Context, id, ownerID string) (*model.Document, error)

	// Download returns the document's metadata together with its bytes.
	Download(ctx context.Context, id, ownerID string) (*model.Document, []byte, error)

	// List returns the report's active documents, newest first.
	List(ctx context.Context, reportID, ownerID string) ([]model.Document, error)

	// Update replaces the notes annotation. The delta is required.
	Update(ctx context.Context, id, ownerID string, notes *string) (*model.Document, error)

	// Delete removes the stored bytes, then soft-deletes the row. When the
	// byte deletion fails the row is left untouched and the error surfaces.
	Delete(ctx context.Context, id, ownerID string) error

	// Search returns the report's active documents whose filename or notes
	// contain query, case-insensitively, newest first.
	Search(ctx context.Context, reportID, ownerID, query string) ([]model.Document, error)
}

// Extractor parses raw document bytes into plain text. Any error means "no
// text available"; the caller proceeds without it.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store     storage.ContentStore
	docs      repository.DocumentRepository
	reports   repository.ReportRepository
	extractor Extractor
	logger    *slog.Logger
}

// NewDocumentService constructs a new DocumentService. logger may be nil.
func NewDocumentService(store storage.ContentStore, docs repository.DocumentRepository, reports repository.ReportRepository, extractor Extractor, logger *slog.Logger) DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		store:     store,
		docs:      docs,
		reports:   reports,
		extractor: extractor,
		logger:    logger,
	}
}

func (s *documentService) Upload(ctx context.Context, reportID, ownerID, filename string, data []byte) (*model.Document, error) {
	if _, err := s.authorizeReport(ctx, reportID, ownerID); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	// Best-effort dedup check. Two concurrent identical uploads can both
	// pass it; the partial unique index behind the repository is the
	// authoritative guard and surfaces the loser below as ErrConflict.
	if _, err := s.docs.FindByReportAndHash(ctx, reportID, hash); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, classifyRepoError("check duplicate", err)
	}

	location, err := s.store.Put(ctx, reportID, hash, filepath.Ext(filename), data)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidNamespace) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: put object: %v", ErrStorageIO, err)
	}

	var extracted *string
	if s.extractor != nil {
		if text, err := s.extractor.Extract(data, filename); err != nil {
			s.logger.WarnContext(ctx, "text extraction failed",
				"report_id", reportID,
				"filename", filename,
				"error", err)
		} else {
			extracted = &text
		}
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:              uuid.New().String(),
		ReportID:        reportID,
		Filename:        filename,
		ContentHash:     hash,
		StorageLocation: location,
		ExtractedText:   extracted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.docs.Save(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race against an identical upload. The blob now
			// belongs to the winning row, so it stays.
			return nil, ErrConflict
		}
		// Roll back the orphaned blob; nothing references it yet.
		if delErr := s.store.Delete(ctx, location); delErr != nil {
			s.logger.WarnContext(ctx, "rollback of stored bytes failed",
				"location", location,
				"error", delErr)
		}
		return nil, classifyRepoError("save document", err)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, id, ownerID string) (*model.Document, error) {
	return s.authorizedDocument(ctx, id, ownerID)
}

func (s *documentService) Download(ctx context.Context, id, ownerID string) (*model.Document, []byte, error) {
	doc, err := s.authorizedDocument(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.store.Get(ctx, doc.StorageLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: get object: %v", ErrStorageIO, err)
	}
	return doc, data, nil
}

func (s *documentService) List(ctx context.Context, reportID, ownerID string) ([]model.Document, error) {
	if _, err := s.authorizeReport(ctx, reportID, ownerID); err != nil {
		return nil, err
	}

	docs, err := s.docs.FindByReport(ctx, reportID, false)
	if err != nil {
		return nil, classifyRepoError("list documents", err)
	}
	return docs, nil
}

func (s *documentService) Update(ctx context.Context, id, ownerID string, notes *string) (*model.Document, error) {
	if notes == nil {
		return nil, ErrValidation
	}

	doc, err := s.authorizedDocument(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	doc.Notes = *notes
	doc.UpdatedAt = time.Now().UTC()

	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, classifyRepoError("save document", err)
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id, ownerID string) error {
	doc, err := s.authorizedDocument(ctx, id, ownerID)
	if err != nil {
		return err
	}

	// Bytes first, fail closed: a row must never be marked deleted while
	// its bytes might still exist.
	if err := s.store.Delete(ctx, doc.StorageLocation); err != nil {
		return fmt.Errorf("%w: delete object: %v", ErrStorageIO, err)
	}

	now := time.Now().UTC()
	doc.DeletedAt = &now
	doc.UpdatedAt = now

	if err := s.docs.Save(ctx, doc); err != nil {
		return classifyRepoError("save document", err)
	}
	return nil
}

func (s *documentService) Search(ctx context.Context, reportID, ownerID, query string) ([]model.Document, error) {
	if _, err := s.authorizeReport(ctx, reportID, ownerID); err != nil {
		return nil, err
	}

	docs, err := s.docs.Search(ctx, reportID, query)
	if err != nil {
		return nil, classifyRepoError("search documents", err)
	}
	return docs, nil
}

// authorizeReport loads the active parent report and checks its owner. It is
// the single choke point for document access: no method reads or mutates a
// document row without passing through here first.
func (s *documentService) authorizeReport(ctx context.Context, reportID, ownerID string) (*model.Report, error) {
	rep, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, classifyRepoError("find report", err)
	}
	if rep.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return rep, nil
}

// authorizedDocument loads an active document and authorizes the caller
// through its parent report.
func (s *documentService) authorizedDocument(ctx context.Context, id, ownerID string) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, classifyRepoError("find document", err)
	}
	if _, err := s.authorizeReport(ctx, doc.ReportID, ownerID); err != nil {
		return nil, err
	}
	return doc, nil
}
