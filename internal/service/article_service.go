package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// ArticleService provides operations on saved articles, including the
// "ask" flow that answers a question grounded in an article's content.
type ArticleService interface {
	// GetArticle retrieves one of the owner's articles.
	GetArticle(ctx context.Context, ownerID uuid.UUID, articleID string) (*domain.Article, error)

	// GetPublicArticle retrieves an article for anonymous reading,
	// without an ownership check.
	GetPublicArticle(ctx context.Context, articleID string) (*domain.Article, error)

	// ListArticles retrieves the owner's articles, newest first.
	ListArticles(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error)

	// UpdateArticle saves an edited title and content.
	UpdateArticle(ctx context.Context, ownerID uuid.UUID, articleID, title, content string) (*domain.Article, error)

	// DeleteArticle removes one of the owner's articles.
	DeleteArticle(ctx context.Context, ownerID uuid.UUID, articleID string) error

	// DeleteArticles removes a batch of the owner's articles. It stops
	// on the first failure and reports how many were deleted.
	DeleteArticles(ctx context.Context, ownerID uuid.UUID, articleIDs []string) (int, error)

	// Ask answers a question grounded in the article's content.
	Ask(ctx context.Context, ownerID uuid.UUID, articleID, question string) (string, error)
}

type articleServiceImpl struct {
	articles  store.ArticleStore
	assistant generation.Assistant
	logger    *slog.Logger
}

// NewArticleService creates a new ArticleService.
func NewArticleService(
	articles store.ArticleStore,
	assistant generation.Assistant,
	logger *slog.Logger,
) (ArticleService, error) {
	if articles == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if assistant == nil {
		return nil, fmt.Errorf("assistant cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &articleServiceImpl{
		articles:  articles,
		assistant: assistant,
		logger:    logger.With("component", "article_service"),
	}, nil
}

func (s *articleServiceImpl) GetArticle(ctx context.Context, ownerID uuid.UUID, articleID string) (*domain.Article, error) {
	return s.ownedArticle(ctx, ownerID, articleID)
}

func (s *articleServiceImpl) GetPublicArticle(ctx context.Context, articleID string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to get public article",
				"error", err,
				"article_id", articleID)
		}
		return nil, err
	}
	return article, nil
}

func (s *articleServiceImpl) ListArticles(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error) {
	articles, err := s.articles.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list articles",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

func (s *articleServiceImpl) UpdateArticle(
	ctx context.Context,
	ownerID uuid.UUID,
	articleID, title, content string,
) (*domain.Article, error) {
	article, err := s.ownedArticle(ctx, ownerID, articleID)
	if err != nil {
		return nil, err
	}

	article.Title = title
	article.Content = content
	article.UpdatedAt = time.Now().UTC()

	if err := s.articles.Update(ctx, article); err != nil {
		s.logger.Error("failed to update article",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return article, nil
}

func (s *articleServiceImpl) DeleteArticle(ctx context.Context, ownerID uuid.UUID, articleID string) error {
	if _, err := s.ownedArticle(ctx, ownerID, articleID); err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, articleID); err != nil {
		s.logger.Error("failed to delete article",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return fmt.Errorf("failed to delete article: %w", err)
	}

	s.logger.Info("article deleted",
		"article_id", articleID,
		"user_id", ownerID)
	return nil
}

func (s *articleServiceImpl) DeleteArticles(ctx context.Context, ownerID uuid.UUID, articleIDs []string) (int, error) {
	deleted := 0
	for _, id := range articleIDs {
		if err := s.DeleteArticle(ctx, ownerID, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *articleServiceImpl) Ask(ctx context.Context, ownerID uuid.UUID, articleID, question string) (string, error) {
	article, err := s.ownedArticle(ctx, ownerID, articleID)
	if err != nil {
		return "", err
	}

	answer, err := s.assistant.Answer(ctx, article.Content, question)
	if err != nil {
		s.logger.Error("failed to answer question",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return "", fmt.Errorf("failed to answer question: %w", err)
	}

	return answer, nil
}

func (s *articleServiceImpl) ownedArticle(ctx context.Context, ownerID uuid.UUID, articleID string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.OwnerID != ownerID {
		return nil, ErrNotOwned
	}
	return article, nil
}
