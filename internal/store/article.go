package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/learnflow/learnflow-api/internal/domain"
)

// ArticleStore defines the interface for article persistence. Chapter
// articles (one row per chapter of a completed document) live here too,
// keyed "{documentID}-{chapterID}".
type ArticleStore interface {
	// Create saves a new article.
	// Returns validation errors from the domain Article if data is invalid.
	Create(ctx context.Context, article *domain.Article) error

	// GetByID retrieves an article by its ID.
	// Returns ErrArticleNotFound if the article does not exist.
	GetByID(ctx context.Context, id string) (*domain.Article, error)

	// Update saves an edited title/content for an existing article.
	// Returns ErrArticleNotFound if the article does not exist.
	Update(ctx context.Context, article *domain.Article) error

	// Delete removes an article by ID.
	// Returns ErrArticleNotFound if the article does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteByDocument removes all chapter articles belonging to a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// ListByOwner retrieves the owner's articles, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error)

	// WithTx returns a new ArticleStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ArticleStore
}
