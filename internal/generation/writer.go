package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/platform/llm"
)

// OutlineDraft is the parsed result of an outline completion.
type OutlineDraft struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Chapters    []domain.ChapterSpec `json:"chapters"`
}

// ArticleDraft is the parsed result of an article completion.
type ArticleDraft struct {
	Title   string
	Content string
}

// ChapterContext carries the document-level information a chapter
// writer needs to keep its output consistent with the rest of the
// document.
type ChapterContext struct {
	Title    string
	Topic    string
	Chapters []domain.ChapterSpec
}

// QuestionDraft is one generated interview question with its model answer.
type QuestionDraft struct {
	Question        string `json:"question"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Grade is the evaluation of an interview answer.
type Grade struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// OutlineWriter produces study outlines.
type OutlineWriter interface {
	// WriteOutline generates an outline draft for the topic. The
	// description is optional guidance; for regeneration it carries the
	// user's feedback on the previous outline.
	WriteOutline(ctx context.Context, topic, description string) (*OutlineDraft, error)
}

// ArticleWriter produces standalone study articles.
type ArticleWriter interface {
	// WriteArticle generates a complete article for the topic.
	// references is an optional block of supporting material included
	// in the prompt.
	WriteArticle(ctx context.Context, topic, description, references string) (*ArticleDraft, error)
}

// ChapterWriter produces single chapters of a multi-chapter document.
type ChapterWriter interface {
	// WriteChapter generates the Markdown body of one chapter.
	WriteChapter(ctx context.Context, docCtx ChapterContext, ch domain.ChapterSpec, references string) (string, error)
}

// Assistant answers questions about existing content and runs the
// interview question workflow.
type Assistant interface {
	// Answer responds to a question grounded in the article content.
	Answer(ctx context.Context, articleContent, question string) (string, error)

	// WriteInterviewQuestions generates count interview questions from
	// the article content.
	WriteInterviewQuestions(ctx context.Context, articleContent string, count int) ([]QuestionDraft, error)

	// GradeAnswer evaluates a user's answer against the reference answer.
	GradeAnswer(ctx context.Context, question, referenceAnswer, userAnswer string) (*Grade, error)
}

// ModelWriter implements all writer interfaces on top of a chat model
// client.
type ModelWriter struct {
	client llm.Client
	logger *slog.Logger
}

// NewModelWriter builds a ModelWriter. The logger falls back to the
// default when nil.
func NewModelWriter(client llm.Client, logger *slog.Logger) *ModelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelWriter{
		client: client,
		logger: logger.With("component", "model_writer"),
	}
}

// WriteOutline generates an outline draft. A malformed model response
// does not fail the call: the draft degrades to a minimal three-chapter
// skeleton so the user always has something to edit.
func (w *ModelWriter) WriteOutline(ctx context.Context, topic, description string) (*OutlineDraft, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}

	raw, err := w.client.Chat(ctx, llm.Request{
		System: outlineSystemPrompt,
		User:   outlinePrompt(topic, description),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	draft, err := parseOutline(raw)
	if err != nil {
		w.logger.Warn("outline response was not valid JSON, using fallback skeleton",
			"topic", topic, "error", err)
		return fallbackOutline(topic), nil
	}
	return draft, nil
}

// WriteArticle generates a complete article. The title is taken from
// the first Markdown heading, falling back to the topic.
func (w *ModelWriter) WriteArticle(ctx context.Context, topic, description, references string) (*ArticleDraft, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}

	raw, err := w.client.Chat(ctx, llm.Request{
		System: articleSystemPrompt,
		User:   articlePrompt(topic, description, references),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	content := StripFence(raw)
	title := HeadingTitle(content)
	if title == "" {
		title = topic
	}

	return &ArticleDraft{Title: title, Content: content}, nil
}

// WriteChapter generates one chapter body.
func (w *ModelWriter) WriteChapter(ctx context.Context, docCtx ChapterContext, ch domain.ChapterSpec, references string) (string, error) {
	raw, err := w.client.Chat(ctx, llm.Request{
		System: chapterSystemPrompt,
		User:   chapterPrompt(docCtx, ch, references),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return StripFence(raw), nil
}

// Answer responds to a question about the article content.
func (w *ModelWriter) Answer(ctx context.Context, articleContent, question string) (string, error) {
	if strings.TrimSpace(articleContent) == "" {
		return "", ErrEmptySource
	}

	answer, err := w.client.Chat(ctx, llm.Request{
		System: assistantSystemPrompt,
		User:   answerPrompt(articleContent, question),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return answer, nil
}

// WriteInterviewQuestions generates interview questions from the
// article content. Unlike outlines there is no fallback: a malformed
// response is an error the caller surfaces to the user.
func (w *ModelWriter) WriteInterviewQuestions(ctx context.Context, articleContent string, count int) ([]QuestionDraft, error) {
	if strings.TrimSpace(articleContent) == "" {
		return nil, ErrEmptySource
	}
	if count <= 0 {
		count = 5
	}

	raw, err := w.client.Chat(ctx, llm.Request{
		System: interviewerSystemPrompt,
		User:   interviewPrompt(articleContent, count),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	jsonPart := extractJSON(raw, '[', ']')
	if jsonPart == "" {
		return nil, fmt.Errorf("%w: no JSON array in response", ErrInvalidResponse)
	}

	var drafts []QuestionDraft
	if err := json.Unmarshal([]byte(jsonPart), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: empty question list", ErrInvalidResponse)
	}
	return drafts, nil
}

// GradeAnswer evaluates a user's answer. Scores outside 0-100 are
// clamped.
func (w *ModelWriter) GradeAnswer(ctx context.Context, question, referenceAnswer, userAnswer string) (*Grade, error) {
	raw, err := w.client.Chat(ctx, llm.Request{
		System: interviewerSystemPrompt,
		User:   gradePrompt(question, referenceAnswer, userAnswer),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	jsonPart := extractJSON(raw, '{', '}')
	if jsonPart == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidResponse)
	}

	var grade Grade
	if err := json.Unmarshal([]byte(jsonPart), &grade); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if grade.Score < 0 {
		grade.Score = 0
	} else if grade.Score > 100 {
		grade.Score = 100
	}
	return &grade, nil
}

// parseOutline extracts and decodes the JSON object in an outline
// completion, then normalizes chapter ids to a strictly ascending
// 1-based sequence.
func parseOutline(raw string) (*OutlineDraft, error) {
	jsonPart := extractJSON(raw, '{', '}')
	if jsonPart == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var draft OutlineDraft
	if err := json.Unmarshal([]byte(jsonPart), &draft); err != nil {
		return nil, err
	}
	if draft.Title == "" || len(draft.Chapters) == 0 {
		return nil, fmt.Errorf("outline missing title or chapters")
	}

	// Models occasionally repeat or skip ids; renumber in place.
	for i := range draft.Chapters {
		draft.Chapters[i].ID = i + 1
	}
	return &draft, nil
}

// fallbackOutline is the minimal skeleton returned when the model
// response cannot be parsed.
func fallbackOutline(topic string) *OutlineDraft {
	return &OutlineDraft{
		Title:       fmt.Sprintf("%s Study Guide", topic),
		Description: fmt.Sprintf("A complete tutorial for learning %s", topic),
		Chapters: []domain.ChapterSpec{
			{ID: 1, Title: fmt.Sprintf("Introduction to %s", topic), Description: "Basic concepts and getting started", Keywords: []string{topic}},
			{ID: 2, Title: fmt.Sprintf("Core Concepts of %s", topic), Description: "The central ideas in detail", Keywords: []string{topic}},
			{ID: 3, Title: fmt.Sprintf("%s in Practice", topic), Description: "Real-world usage and examples", Keywords: []string{topic}},
		},
	}
}

// extractJSON returns the widest substring delimited by open and close,
// covering responses that wrap JSON in prose or code fences.
func extractJSON(s string, open, closing byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
