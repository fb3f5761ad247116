package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	extractMocks "reportvault/internal/extract/mocks"
	"reportvault/internal/model"
	"reportvault/internal/repository"
	repoMocks "reportvault/internal/repository/mocks"
	"reportvault/internal/storage"
	storeMocks "reportvault/internal/storage/mocks"
)

// SHA-256 of "hello".
const helloHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

type documentMocks struct {
	store     *storeMocks.MockContentStore
	docs      *repoMocks.MockDocumentRepository
	reports   *repoMocks.MockReportRepository
	extractor *extractMocks.MockExtractor
}

func newDocumentService(t *testing.T) (DocumentService, *documentMocks) {
	t.Helper()
	m := &documentMocks{
		store:     new(storeMocks.MockContentStore),
		docs:      new(repoMocks.MockDocumentRepository),
		reports:   new(repoMocks.MockReportRepository),
		extractor: new(extractMocks.MockExtractor),
	}
	svc := NewDocumentService(m.store, m.docs, m.reports, m.extractor, nil)
	return svc, m
}

func (m *documentMocks) assertExpectations(t *testing.T) {
	m.store.AssertExpectations(t)
	m.docs.AssertExpectations(t)
	m.reports.AssertExpectations(t)
	m.extractor.AssertExpectations(t)
}

func ownedReport() *model.Report {
	return &model.Report{ID: "rep-1", OwnerID: "owner-1", Name: "Q4 Report"}
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	payload := []byte("hello")

	tests := []struct {
		name       string
		ownerID    string
		setupMocks func(m *documentMocks)
		wantErr    error
		check      func(t *testing.T, doc *model.Document)
	}{
		{
			name:    "happy path with extraction",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(nil, repository.ErrNotFound)
				m.store.On("Put", ctx, "rep-1", helloHash, ".txt", payload).
					Return("rep-1/"+helloHash+".txt", nil)
				m.extractor.On("Extract", payload, "notes.txt").Return("hello", nil)
				m.docs.On("Save", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.ID != "" &&
						doc.ReportID == "rep-1" &&
						doc.Filename == "notes.txt" &&
						doc.ContentHash == helloHash &&
						doc.StorageLocation == "rep-1/"+helloHash+".txt" &&
						doc.ExtractedText != nil && *doc.ExtractedText == "hello" &&
						doc.Notes == "" &&
						doc.DeletedAt == nil
				})).Return(nil)
			},
			check: func(t *testing.T, doc *model.Document) {
				assert.Equal(t, helloHash, doc.ContentHash)
			},
		},
		{
			name:    "extraction failure never fails the upload",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(nil, repository.ErrNotFound)
				m.store.On("Put", ctx, "rep-1", helloHash, ".txt", payload).
					Return("rep-1/"+helloHash+".txt", nil)
				m.extractor.On("Extract", payload, "notes.txt").
					Return("", errors.New("parser exploded"))
				m.docs.On("Save", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.ExtractedText == nil
				})).Return(nil)
			},
			check: func(t *testing.T, doc *model.Document) {
				assert.Nil(t, doc.ExtractedText)
			},
		},
		{
			name:    "report not found",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "foreign report",
			ownerID: "owner-2",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "duplicate content",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(&model.Document{ID: "doc-0", ContentHash: helloHash}, nil)
			},
			wantErr: ErrConflict,
		},
		{
			name:    "storage write failure",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(nil, repository.ErrNotFound)
				m.store.On("Put", ctx, "rep-1", helloHash, ".txt", payload).
					Return("", storage.ErrWriteFailed)
			},
			wantErr: ErrStorageIO,
		},
		{
			name:    "invalid namespace propagates",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(nil, repository.ErrNotFound)
				m.store.On("Put", ctx, "rep-1", helloHash, ".txt", payload).
					Return("", storage.ErrInvalidNamespace)
			},
			wantErr: storage.ErrInvalidNamespace,
		},
		{
			name:    "lost race surfaces as conflict, blob kept",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(nil, repository.ErrNotFound)
				m.store.On("Put", ctx, "rep-1", helloHash, ".txt", payload).
					Return("rep-1/"+helloHash+".txt", nil)
				m.extractor.On("Extract", payload, "notes.txt").Return("hello", nil)
				m.docs.On("Save", ctx, mock.Anything).Return(repository.ErrConflict)
				// No store.Delete: the winning row owns the blob now.
			},
			wantErr: ErrConflict,
		},
		{
			name:    "save failure rolls back the blob",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
				m.docs.On("FindByReportAndHash", ctx, "rep-1", helloHash).
					Return(nil, repository.ErrNotFound)
				m.store.On("Put", ctx, "rep-1", helloHash, ".txt", payload).
					Return("rep-1/"+helloHash+".txt", nil)
				m.extractor.On("Extract", payload, "notes.txt").Return("hello", nil)
				m.docs.On("Save", ctx, mock.Anything).Return(errors.New("db fail"))
				m.store.On("Delete", ctx, "rep-1/"+helloHash+".txt").Return(nil)
			},
			wantErr: ErrPersistenceIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newDocumentService(t)
			tt.setupMocks(m)

			doc, err := svc.Upload(ctx, "rep-1", tt.ownerID, "notes.txt", payload)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				require.NotNil(t, doc)
				if tt.check != nil {
					tt.check(t, doc)
				}
			}
			m.assertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		ownerID    string
		setupMocks func(m *documentMocks)
		wantErr    error
	}{
		{
			name:    "happy path",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.docs.On("FindByID", ctx, "doc-1").
					Return(&model.Document{ID: "doc-1", ReportID: "rep-1"}, nil)
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
			},
		},
		{
			name:    "document not found",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.docs.On("FindByID", ctx, "doc-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "transitive check rejects foreign owner",
			ownerID: "owner-2",
			setupMocks: func(m *documentMocks) {
				m.docs.On("FindByID", ctx, "doc-1").
					Return(&model.Document{ID: "doc-1", ReportID: "rep-1"}, nil)
				m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "orphaned document reads as missing",
			ownerID: "owner-1",
			setupMocks: func(m *documentMocks) {
				m.docs.On("FindByID", ctx, "doc-1").
					Return(&model.Document{ID: "doc-1", ReportID: "rep-1"}, nil)
				m.reports.On("FindByID", ctx, "rep-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newDocumentService(t)
			tt.setupMocks(m)

			doc, err := svc.Get(ctx, "doc-1", tt.ownerID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "doc-1", doc.ID)
			}
			m.assertExpectations(t)
		})
	}
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", StorageLocation: "rep-1/" + helloHash}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.store.On("Get", ctx, "rep-1/"+helloHash).Return([]byte("hello"), nil)

		doc, data, err := svc.Download(ctx, "doc-1", "owner-1")

		require.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
		assert.Equal(t, []byte("hello"), data)
		m.assertExpectations(t)
	})

	t.Run("missing blob is a storage failure", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", StorageLocation: "rep-1/" + helloHash}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.store.On("Get", ctx, "rep-1/"+helloHash).Return(nil, storage.ErrNotFound)

		_, _, err := svc.Download(ctx, "doc-1", "owner-1")

		assert.ErrorIs(t, err, ErrStorageIO)
		m.assertExpectations(t)
	})

	t.Run("foreign owner never reaches storage", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", StorageLocation: "rep-1/" + helloHash}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)

		_, _, err := svc.Download(ctx, "doc-1", "owner-2")

		assert.ErrorIs(t, err, ErrUnauthorized)
		m.assertExpectations(t)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.docs.On("FindByReport", ctx, "rep-1", false).
			Return([]model.Document{{ID: "doc-2"}, {ID: "doc-1"}}, nil)

		docs, err := svc.List(ctx, "rep-1", "owner-1")

		require.NoError(t, err)
		assert.Len(t, docs, 2)
		m.assertExpectations(t)
	})

	t.Run("foreign report", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)

		_, err := svc.List(ctx, "rep-1", "owner-2")

		assert.ErrorIs(t, err, ErrUnauthorized)
		m.assertExpectations(t)
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	t.Run("validation - no delta", func(t *testing.T) {
		svc, m := newDocumentService(t)

		_, err := svc.Update(ctx, "doc-1", "owner-1", nil)

		assert.ErrorIs(t, err, ErrValidation)
		m.assertExpectations(t)
	})

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", Notes: "old"}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.docs.On("Save", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Notes == "fresh annotation" && !doc.UpdatedAt.IsZero()
		})).Return(nil)

		doc, err := svc.Update(ctx, "doc-1", "owner-1", strPtr("fresh annotation"))

		require.NoError(t, err)
		assert.Equal(t, "fresh annotation", doc.Notes)
		m.assertExpectations(t)
	})

	t.Run("foreign owner", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1"}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)

		_, err := svc.Update(ctx, "doc-1", "owner-2", strPtr("sneaky"))

		assert.ErrorIs(t, err, ErrUnauthorized)
		m.assertExpectations(t)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("bytes removed then row soft-deleted", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", StorageLocation: "rep-1/" + helloHash}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.store.On("Delete", ctx, "rep-1/"+helloHash).Return(nil)
		m.docs.On("Save", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.DeletedAt != nil && doc.UpdatedAt.Equal(*doc.DeletedAt)
		})).Return(nil)

		assert.NoError(t, svc.Delete(ctx, "doc-1", "owner-1"))
		m.assertExpectations(t)
	})

	t.Run("storage failure leaves the row untouched", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", StorageLocation: "rep-1/" + helloHash}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.store.On("Delete", ctx, "rep-1/"+helloHash).Return(errors.New("disk detached"))
		// No Save call: fail closed.

		err := svc.Delete(ctx, "doc-1", "owner-1")

		assert.ErrorIs(t, err, ErrStorageIO)
		m.assertExpectations(t)
	})

	t.Run("already deleted reads as missing", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, "doc-1", "owner-1"), ErrNotFound)
		m.assertExpectations(t)
	})

	t.Run("foreign owner", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.docs.On("FindByID", ctx, "doc-1").
			Return(&model.Document{ID: "doc-1", ReportID: "rep-1", StorageLocation: "rep-1/" + helloHash}, nil)
		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)

		assert.ErrorIs(t, svc.Delete(ctx, "doc-1", "owner-2"), ErrUnauthorized)
		m.assertExpectations(t)
	})
}

func TestDocumentService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)
		m.docs.On("Search", ctx, "rep-1", "invoice").
			Return([]model.Document{{ID: "doc-1", Filename: "invoice-march.pdf"}}, nil)

		docs, err := svc.Search(ctx, "rep-1", "owner-1", "invoice")

		require.NoError(t, err)
		assert.Len(t, docs, 1)
		m.assertExpectations(t)
	})

	t.Run("foreign report", func(t *testing.T) {
		svc, m := newDocumentService(t)

		m.reports.On("FindByID", ctx, "rep-1").Return(ownedReport(), nil)

		_, err := svc.Search(ctx, "rep-1", "owner-2", "invoice")

		assert.ErrorIs(t, err, ErrUnauthorized)
		m.assertExpectations(t)
	})
}
