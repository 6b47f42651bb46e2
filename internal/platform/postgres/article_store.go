package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/platform/logger"
	"github.com/learnflow/learnflow-api/internal/store"
)

// PostgresArticleStore implements the store.ArticleStore interface.
type PostgresArticleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresArticleStore creates a new PostgreSQL implementation of
// the ArticleStore interface.
func NewPostgresArticleStore(db store.DBTX, logger *slog.Logger) *PostgresArticleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresArticleStore{
		db:     db,
		logger: logger.With(slog.String("component", "article_store")),
	}
}

// Ensure PostgresArticleStore implements store.ArticleStore interface
var _ store.ArticleStore = (*PostgresArticleStore)(nil)

const articleColumns = `id, owner_id, title, content, topic, type, document_id, chapter_id, created_at, updated_at`

// Create implements store.ArticleStore.Create
func (s *PostgresArticleStore) Create(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		log.Warn("article validation failed during create",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID))
		return err
	}

	// Standalone articles store NULL for the document linkage.
	var documentID sql.NullString
	var chapterID sql.NullInt32
	if article.Type == domain.ArticleTypeChapter {
		documentID = sql.NullString{String: article.DocumentID, Valid: true}
		chapterID = sql.NullInt32{Int32: int32(article.ChapterID), Valid: true}
	}

	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		article.ID,
		article.OwnerID,
		article.Title,
		article.Content,
		article.Topic,
		article.Type,
		documentID,
		chapterID,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID))
		return MapError(err)
	}

	log.Debug("article created",
		slog.String("article_id", article.ID),
		slog.String("type", string(article.Type)))
	return nil
}

// GetByID implements store.ArticleStore.GetByID
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("article not found", slog.String("article_id", id))
			return nil, store.ErrArticleNotFound
		}
		log.Error("failed to get article by ID",
			slog.String("error", err.Error()),
			slog.String("article_id", id))
		return nil, MapError(err)
	}

	return article, nil
}

// Update implements store.ArticleStore.Update
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) Update(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		log.Warn("article validation failed during update",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID))
		return err
	}

	query := `
		UPDATE articles
		SET title = $1, content = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		article.Title,
		article.Content,
		article.UpdatedAt,
		article.ID,
	)

	if err != nil {
		log.Error("failed to update article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrArticleNotFound)
}

// Delete implements store.ArticleStore.Delete
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete article",
			slog.String("error", err.Error()),
			slog.String("article_id", id))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrArticleNotFound)
}

// DeleteByDocument implements store.ArticleStore.DeleteByDocument
// Deleting zero rows is not an error: a document may have failed before
// any chapter article was written.
func (s *PostgresArticleStore) DeleteByDocument(ctx context.Context, documentID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE document_id = $1`, documentID)
	if err != nil {
		log.Error("failed to delete chapter articles",
			slog.String("error", err.Error()),
			slog.String("document_id", documentID))
		return MapError(err)
	}

	return nil
}

// ListByOwner implements store.ArticleStore.ListByOwner
func (s *PostgresArticleStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + articleColumns + ` FROM articles WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query articles", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	articles := []*domain.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			log.Error("failed to scan article row", slog.String("error", err.Error()))
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning article rows", slog.String("error", err.Error()))
		return nil, err
	}

	return articles, nil
}

// WithTx implements store.ArticleStore.WithTx
func (s *PostgresArticleStore) WithTx(tx *sql.Tx) store.ArticleStore {
	return &PostgresArticleStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var article domain.Article
	var documentID sql.NullString
	var chapterID sql.NullInt32

	err := row.Scan(
		&article.ID,
		&article.OwnerID,
		&article.Title,
		&article.Content,
		&article.Topic,
		&article.Type,
		&documentID,
		&chapterID,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.DocumentID = documentID.String
	article.ChapterID = int(chapterID.Int32)

	return &article, nil
}
