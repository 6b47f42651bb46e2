package task

import (
	"database/sql"
	"log/slog"

	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// ArticleTaskFactory creates ArticleGenerationTask instances with the
// shared dependencies wired in.
type ArticleTaskFactory struct {
	writer   generation.ArticleWriter
	articles store.ArticleStore
	tracker  *Tracker
	finder   ReferenceFinder
	logger   *slog.Logger
}

// NewArticleTaskFactory creates a new factory for article tasks.
func NewArticleTaskFactory(
	writer generation.ArticleWriter,
	articles store.ArticleStore,
	tracker *Tracker,
	finder ReferenceFinder,
	logger *slog.Logger,
) *ArticleTaskFactory {
	return &ArticleTaskFactory{
		writer:   writer,
		articles: articles,
		tracker:  tracker,
		finder:   finder,
		logger:   logger.With("component", "article_task_factory"),
	}
}

// CreateTask builds a task for the payload.
func (f *ArticleTaskFactory) CreateTask(payload ArticleTaskPayload) (Task, error) {
	return NewArticleGenerationTask(payload, f.writer, f.articles, f.tracker, f.finder, f.logger)
}

// DocumentTaskFactory creates DocumentGenerationTask instances with
// the shared dependencies wired in.
type DocumentTaskFactory struct {
	writer    generation.ChapterWriter
	db        *sql.DB
	documents store.DocumentStore
	articles  store.ArticleStore
	tracker   *Tracker
	pool      *ChapterPool
	finder    ReferenceFinder
	policy    RetryPolicy
	logger    *slog.Logger
}

// NewDocumentTaskFactory creates a new factory for document tasks.
func NewDocumentTaskFactory(
	writer generation.ChapterWriter,
	db *sql.DB,
	documents store.DocumentStore,
	articles store.ArticleStore,
	tracker *Tracker,
	pool *ChapterPool,
	finder ReferenceFinder,
	policy RetryPolicy,
	logger *slog.Logger,
) *DocumentTaskFactory {
	return &DocumentTaskFactory{
		writer:    writer,
		db:        db,
		documents: documents,
		articles:  articles,
		tracker:   tracker,
		pool:      pool,
		finder:    finder,
		policy:    policy,
		logger:    logger.With("component", "document_task_factory"),
	}
}

// CreateTask builds a task for the payload.
func (f *DocumentTaskFactory) CreateTask(payload DocumentTaskPayload) (Task, error) {
	return NewDocumentGenerationTask(
		payload, f.writer, f.db, f.documents, f.articles,
		f.tracker, f.pool, f.finder, f.policy, f.logger,
	)
}
