package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ArticleType distinguishes standalone articles from document chapters.
type ArticleType string

// Possible article type values
const (
	ArticleTypeStandalone ArticleType = "article"
	ArticleTypeChapter    ArticleType = "chapter"
)

// Common validation errors for Article
var (
	ErrEmptyArticleID    = errors.New("article ID cannot be empty")
	ErrEmptyArticleOwner = errors.New("article owner cannot be empty")
	ErrEmptyArticleTitle = errors.New("article title cannot be empty")
	ErrInvalidArticleType = errors.New("invalid article type")
)

// Article is one unit of readable study content: either a standalone
// generated article, or a chapter of a document addressed independently
// so users can read and edit it without loading the whole document.
// Chapter articles use the ID form "{documentID}-{chapterID}".
type Article struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Topic      string      `json:"topic,omitempty"`
	Type       ArticleType `json:"type"`
	DocumentID string      `json:"document_id,omitempty"` // Set for chapter articles only
	ChapterID  int         `json:"chapter_id,omitempty"`  // Set for chapter articles only
	OwnerID    uuid.UUID   `json:"owner_id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewArticle creates a standalone article owned by the given user.
func NewArticle(ownerID uuid.UUID, topic, title, content string) (*Article, error) {
	article := &Article{
		ID:        shortID(),
		Title:     title,
		Content:   content,
		Topic:     topic,
		Type:      ArticleTypeStandalone,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}

	return article, nil
}

// Validate checks if the Article has valid data.
func (a *Article) Validate() error {
	if a.ID == "" {
		return ErrEmptyArticleID
	}

	if a.OwnerID == uuid.Nil {
		return ErrEmptyArticleOwner
	}

	if a.Title == "" {
		return ErrEmptyArticleTitle
	}

	switch a.Type {
	case ArticleTypeStandalone, ArticleTypeChapter:
	default:
		return ErrInvalidArticleType
	}

	return nil
}

// shortID returns the 8-character identifier form the public API uses
// for articles, documents, and tasks.
func shortID() string {
	return uuid.New().String()[:8]
}
