package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ChapterStatus reports whether a chapter generation succeeded.
type ChapterStatus string

// Possible chapter result statuses
const (
	ChapterStatusSuccess ChapterStatus = "success"
	ChapterStatusFailed  ChapterStatus = "failed"
)

// Common validation errors for Document
var (
	ErrEmptyDocumentID    = errors.New("document ID cannot be empty")
	ErrEmptyDocumentOwner = errors.New("document owner cannot be empty")
	ErrEmptyDocumentTitle = errors.New("document title cannot be empty")
)

// ChapterResult is the output of exactly one chapter generation job.
// A failed generation carries its diagnostic message as Content.
// ChapterResults are never mutated after production.
type ChapterResult struct {
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Status  ChapterStatus `json:"status"`
}

// Document is an assembled multi-chapter study document. Chapters are
// sorted ascending by chapter ID regardless of the order generation
// jobs completed.
type Document struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Topic       string          `json:"topic"`
	Chapters    []ChapterResult `json:"chapters"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewDocument assembles a document from collected chapter results,
// restoring declared chapter order by sorting on chapter ID.
func NewDocument(ownerID uuid.UUID, outline *Outline, results []ChapterResult) (*Document, error) {
	chapters := make([]ChapterResult, len(results))
	copy(chapters, results)
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ID < chapters[j].ID })

	doc := &Document{
		ID:          shortID(),
		Title:       outline.Title,
		Description: outline.Description,
		Topic:       outline.Topic,
		Chapters:    chapters,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks if the Document has valid data. An empty chapter
// list is valid (the degenerate zero-chapter outline case).
func (d *Document) Validate() error {
	if d.ID == "" {
		return ErrEmptyDocumentID
	}

	if d.OwnerID == uuid.Nil {
		return ErrEmptyDocumentOwner
	}

	if d.Title == "" {
		return ErrEmptyDocumentTitle
	}

	for i := 1; i < len(d.Chapters); i++ {
		if d.Chapters[i].ID <= d.Chapters[i-1].ID {
			return ErrChaptersOutOfOrder
		}
	}

	return nil
}

// FailedChapterCount reports how many chapters carry a failed result.
func (d *Document) FailedChapterCount() int {
	n := 0
	for _, ch := range d.Chapters {
		if ch.Status == ChapterStatusFailed {
			n++
		}
	}
	return n
}

// ChapterArticle derives the independently addressable article for one
// chapter of this document, keyed "{documentID}-{chapterID}".
func (d *Document) ChapterArticle(ch ChapterResult) *Article {
	return &Article{
		ID:         fmt.Sprintf("%s-%d", d.ID, ch.ID),
		Title:      ch.Title,
		Content:    ch.Content,
		Topic:      d.Topic,
		Type:       ArticleTypeChapter,
		DocumentID: d.ID,
		ChapterID:  ch.ID,
		OwnerID:    d.OwnerID,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.CreatedAt,
	}
}
