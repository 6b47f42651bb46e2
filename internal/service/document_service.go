package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/store"
)

// DocumentService provides operations on assembled documents.
type DocumentService interface {
	// GetDocument retrieves one of the owner's documents.
	GetDocument(ctx context.Context, ownerID uuid.UUID, documentID string) (*domain.Document, error)

	// ListDocuments retrieves the owner's documents, newest first.
	ListDocuments(ctx context.Context, ownerID uuid.UUID) ([]*domain.Document, error)

	// DeleteDocument removes a document together with its chapter articles.
	DeleteDocument(ctx context.Context, ownerID uuid.UUID, documentID string) error

	// DeleteDocuments removes a batch of the owner's documents. It stops
	// on the first failure and reports how many were deleted.
	DeleteDocuments(ctx context.Context, ownerID uuid.UUID, documentIDs []string) (int, error)
}

type documentServiceImpl struct {
	db        *sql.DB
	documents store.DocumentStore
	articles  store.ArticleStore
	logger    *slog.Logger
}

// NewDocumentService creates a new DocumentService. db may be nil when
// the stores are not backed by a shared SQL database; deletes then run
// non-transactionally.
func NewDocumentService(
	db *sql.DB,
	documents store.DocumentStore,
	articles store.ArticleStore,
	logger *slog.Logger,
) (DocumentService, error) {
	if documents == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if articles == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &documentServiceImpl{
		db:        db,
		documents: documents,
		articles:  articles,
		logger:    logger.With("component", "document_service"),
	}, nil
}

func (s *documentServiceImpl) GetDocument(ctx context.Context, ownerID uuid.UUID, documentID string) (*domain.Document, error) {
	return s.ownedDocument(ctx, ownerID, documentID)
}

func (s *documentServiceImpl) ListDocuments(ctx context.Context, ownerID uuid.UUID) ([]*domain.Document, error) {
	documents, err := s.documents.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list documents",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// DeleteDocument removes the document and every chapter article derived
// from it in one transaction, so a half-deleted document never survives
// a crash.
func (s *documentServiceImpl) DeleteDocument(ctx context.Context, ownerID uuid.UUID, documentID string) error {
	if _, err := s.ownedDocument(ctx, ownerID, documentID); err != nil {
		return err
	}

	var err error
	if s.db == nil {
		if err = s.articles.DeleteByDocument(ctx, documentID); err == nil {
			err = s.documents.Delete(ctx, documentID)
		}
	} else {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			if err := s.articles.WithTx(tx).DeleteByDocument(ctx, documentID); err != nil {
				return err
			}
			return s.documents.WithTx(tx).Delete(ctx, documentID)
		})
	}

	if err != nil {
		s.logger.Error("failed to delete document",
			"error", err,
			"document_id", documentID,
			"user_id", ownerID)
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.logger.Info("document deleted",
		"document_id", documentID,
		"user_id", ownerID)
	return nil
}

func (s *documentServiceImpl) DeleteDocuments(ctx context.Context, ownerID uuid.UUID, documentIDs []string) (int, error) {
	deleted := 0
	for _, id := range documentIDs {
		if err := s.DeleteDocument(ctx, ownerID, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *documentServiceImpl) ownedDocument(ctx context.Context, ownerID uuid.UUID, documentID string) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, ErrNotOwned
	}
	return doc, nil
}
