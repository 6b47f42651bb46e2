package task

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// RetryPolicy controls how chapter jobs are retried before their
// failure is absorbed into the document.
type RetryPolicy struct {
	// MaxRetries is the number of extra attempts after the first.
	MaxRetries int

	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// DefaultRetryPolicy returns the standard chapter retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Delay: 2 * time.Second}
}

// chapterOutcome is what one chapter job reports back to the
// collecting task.
type chapterOutcome struct {
	result domain.ChapterResult
}

// DocumentGenerationTask generates a multi-chapter document. Chapters
// are dispatched to the shared chapter pool and collected as they
// finish; a chapter that exhausts its retries is absorbed as a failed
// chapter rather than failing the document.
type DocumentGenerationTask struct {
	payload   DocumentTaskPayload
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

// NewDocumentGenerationTask creates a document generation task.
func NewDocumentGenerationTask(
	payload DocumentTaskPayload,
	writer generation.ChapterWriter,
	db *sql.DB,
	documents store.DocumentStore,
	articles store.ArticleStore,
	tracker *Tracker,
	pool *ChapterPool,
	finder ReferenceFinder,
	policy RetryPolicy,
	logger *slog.Logger,
) (*DocumentGenerationTask, error) {
	if writer == nil {
		return nil, ErrNilWriter
	}
	if documents == nil || articles == nil {
		return nil, ErrNilStore
	}
	if tracker == nil {
		return nil, ErrNilTracker
	}
	if pool == nil {
		return nil, fmt.Errorf("chapter pool cannot be nil")
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	return &DocumentGenerationTask{
		payload:   payload,
		writer:    writer,
		db:        db,
		documents: documents,
		articles:  articles,
		tracker:   tracker,
		pool:      pool,
		finder:    finder,
		policy:    policy,
		logger:    logger.With("task_type", domain.TaskTypeDocument, "task_id", payload.TaskID),
	}, nil
}

func (t *DocumentGenerationTask) ID() uuid.UUID         { return t.payload.TaskID }
func (t *DocumentGenerationTask) Type() domain.TaskType { return domain.TaskTypeDocument }
func (t *DocumentGenerationTask) OwnerID() uuid.UUID    { return t.payload.Outline.OwnerID }

// Execute fans the outline's chapters out to the chapter pool, collects
// every result, reassembles them in chapter order, and persists the
// document together with its per-chapter articles.
func (t *DocumentGenerationTask) Execute(ctx context.Context) error {
	outline := t.payload.Outline
	total := len(outline.Chapters)

	t.tracker.Step(t.ID(), "Starting document generation")
	t.tracker.Step(t.ID(), fmt.Sprintf("Generating %d chapters concurrently", total))

	docCtx := generation.ChapterContext{
		Title:    outline.Title,
		Topic:    outline.Topic,
		Chapters: outline.Chapters,
	}

	outcomes := make(chan chapterOutcome, total)
	dispatched := 0
	for _, ch := range outline.Chapters {
		chapter := ch
		err := t.pool.Submit(func() {
			outcomes <- chapterOutcome{result: t.generateChapter(ctx, docCtx, chapter)}
		})
		if err != nil {
			// Dispatch failure means the pool is gone; jobs already
			// dispatched still drain below, then the task fails.
			t.logger.Error("failed to dispatch chapter", "chapter_id", chapter.ID, "error", err)
			for i := 0; i < dispatched; i++ {
				<-outcomes
			}
			return fmt.Errorf("failed to dispatch chapter %d: %w", chapter.ID, err)
		}
		dispatched++
	}

	// Collect in arrival order; ordering is restored at assembly.
	results := make([]domain.ChapterResult, 0, total)
	for i := 0; i < total; i++ {
		outcome := <-outcomes
		results = append(results, outcome.result)

		failed := outcome.result.Status == domain.ChapterStatusFailed
		t.tracker.ChapterFinished(t.ID(), failed)
		if failed {
			t.tracker.Step(t.ID(), fmt.Sprintf("Chapter %d %q failed (%d/%d)",
				outcome.result.ID, outcome.result.Title, i+1, total))
		} else {
			t.tracker.Step(t.ID(), fmt.Sprintf("Chapter %d %q finished (%d/%d)",
				outcome.result.ID, outcome.result.Title, i+1, total))
		}
	}

	t.tracker.Step(t.ID(), "Saving document")
	if err := t.persist(ctx, results); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	t.tracker.Step(t.ID(), "Document saved to the document list")
	return nil
}

// generateChapter runs one chapter job with bounded retries. A chapter
// that fails every attempt comes back as a failed ChapterResult whose
// content carries the diagnostic, never as an error.
func (t *DocumentGenerationTask) generateChapter(ctx context.Context, docCtx generation.ChapterContext, ch domain.ChapterSpec) domain.ChapterResult {
	references := ""
	if t.payload.Outline.EnableSearch && t.finder != nil {
		references = t.finder.FindReferences(ctx, chapterQuery(docCtx.Topic, ch))
	}

	content, err := retry.DoWithData(
		func() (string, error) {
			return t.writer.WriteChapter(ctx, docCtx, ch, references)
		},
		retry.Context(ctx),
		retry.Attempts(uint(t.policy.MaxRetries)+1),
		retry.Delay(t.policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			t.logger.Warn("retrying chapter generation",
				"chapter_id", ch.ID, "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		t.logger.Error("chapter generation exhausted retries", "chapter_id", ch.ID, "error", err)
		return domain.ChapterResult{
			ID:      ch.ID,
			Title:   ch.Title,
			Content: fmt.Sprintf("Chapter generation failed: %v", err),
			Status:  domain.ChapterStatusFailed,
		}
	}

	return domain.ChapterResult{
		ID:      ch.ID,
		Title:   ch.Title,
		Content: content,
		Status:  domain.ChapterStatusSuccess,
	}
}

// persist writes the document and its chapter articles atomically.
func (t *DocumentGenerationTask) persist(ctx context.Context, results []domain.ChapterResult) error {
	outline := t.payload.Outline

	doc, err := domain.NewDocument(outline.OwnerID, &outline, results)
	if err != nil {
		return fmt.Errorf("invalid generated document: %w", err)
	}

	if t.db == nil {
		// No shared handle means the stores are not transactional
		// (typically in-memory); write directly.
		if err := t.documents.Create(ctx, doc); err != nil {
			return err
		}
		for _, ch := range doc.Chapters {
			if err := t.articles.Create(ctx, doc.ChapterArticle(ch)); err != nil {
				return err
			}
		}
		return nil
	}

	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := t.documents.WithTx(tx).Create(ctx, doc); err != nil {
			return err
		}
		articles := t.articles.WithTx(tx)
		for _, ch := range doc.Chapters {
			if err := articles.Create(ctx, doc.ChapterArticle(ch)); err != nil {
				return err
			}
		}
		return nil
	})
}

// chapterQuery builds the search query for a chapter from the topic
// and the chapter's leading keywords.
func chapterQuery(topic string, ch domain.ChapterSpec) string {
	keywords := ch.Keywords
	if len(keywords) == 0 {
		keywords = []string{ch.Title}
	} else if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	return strings.TrimSpace(topic + " " + strings.Join(keywords, " ") + " tutorial official documentation")
}
