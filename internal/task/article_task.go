package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// ReferenceFinder gathers supporting material for generation prompts.
type ReferenceFinder interface {
	// FindReferences runs a web search and returns a prompt-ready
	// reference block, or "" when nothing useful was found.
	FindReferences(ctx context.Context, query string) string

	// ReadPage fetches one page and returns its visible text.
	ReadPage(ctx context.Context, url string) (string, error)
}

// ArticleGenerationTask generates a single standalone article.
type ArticleGenerationTask struct {
	payload  ArticleTaskPayload
	writer   generation.ArticleWriter
	articles store.ArticleStore
	tracker  *Tracker
	finder   ReferenceFinder
	logger   *slog.Logger
}

// NewArticleGenerationTask creates an article generation task. The
// finder may be nil when neither search nor links are requested.
func NewArticleGenerationTask(
	payload ArticleTaskPayload,
	writer generation.ArticleWriter,
	articles store.ArticleStore,
	tracker *Tracker,
	finder ReferenceFinder,
	logger *slog.Logger,
) (*ArticleGenerationTask, error) {
	if writer == nil {
		return nil, ErrNilWriter
	}
	if articles == nil {
		return nil, ErrNilStore
	}
	if tracker == nil {
		return nil, ErrNilTracker
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &ArticleGenerationTask{
		payload:  payload,
		writer:   writer,
		articles: articles,
		tracker:  tracker,
		finder:   finder,
		logger:   logger.With("task_type", domain.TaskTypeArticle, "task_id", payload.TaskID),
	}, nil
}

func (t *ArticleGenerationTask) ID() uuid.UUID         { return t.payload.TaskID }
func (t *ArticleGenerationTask) Type() domain.TaskType { return domain.TaskTypeArticle }
func (t *ArticleGenerationTask) OwnerID() uuid.UUID    { return t.payload.OwnerID }

// Execute generates the article and saves it. Any error fails the
// whole task; there is no partial result for a single article.
func (t *ArticleGenerationTask) Execute(ctx context.Context) error {
	t.tracker.Step(t.ID(), "Starting article generation")

	references := t.gatherContext(ctx)

	t.tracker.Step(t.ID(), "Writing article content")
	draft, err := t.writer.WriteArticle(ctx, t.payload.Topic, t.payload.Description, references)
	if err != nil {
		return fmt.Errorf("failed to write article: %w", err)
	}

	t.tracker.Step(t.ID(), "Article written, saving")
	article, err := domain.NewArticle(t.payload.OwnerID, t.payload.Topic, draft.Title, draft.Content)
	if err != nil {
		return fmt.Errorf("invalid generated article: %w", err)
	}
	if err := t.articles.Create(ctx, article); err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}

	t.tracker.Step(t.ID(), "Article saved to the article list")
	t.logger.Info("article generated", "article_id", article.ID)
	return nil
}

// gatherContext collects reference material from the requested links
// and from web search. Both are best-effort: a dead link or empty
// search result degrades the prompt, not the task.
func (t *ArticleGenerationTask) gatherContext(ctx context.Context) string {
	if t.finder == nil {
		return ""
	}

	var b strings.Builder

	if len(t.payload.Links) > 0 {
		t.tracker.Step(t.ID(), fmt.Sprintf("Reading %d reference links", len(t.payload.Links)))
		for i, link := range t.payload.Links {
			t.tracker.Step(t.ID(), fmt.Sprintf("Reading link %d/%d", i+1, len(t.payload.Links)))
			text, err := t.finder.ReadPage(ctx, link)
			if err != nil {
				t.logger.Warn("skipping unreadable link", "url", link, "error", err)
				t.tracker.Step(t.ID(), fmt.Sprintf("Skipped unreadable link %d/%d", i+1, len(t.payload.Links)))
				continue
			}
			fmt.Fprintf(&b, "\n\n### Linked material\n%s\n", text)
		}
	}

	if t.payload.EnableSearch {
		t.tracker.Step(t.ID(), "Searching the web for supporting material")
		query := strings.TrimSpace(t.payload.Topic + " " + t.payload.Description)
		if refs := t.finder.FindReferences(ctx, query); refs != "" {
			b.WriteString("\n\n")
			b.WriteString(refs)
		}
	}

	return b.String()
}
