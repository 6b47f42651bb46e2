package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Note
var (
	ErrEmptyNoteArticle  = errors.New("note article ID cannot be empty")
	ErrEmptyNoteOwner    = errors.New("note owner cannot be empty")
	ErrEmptyNoteQuestion = errors.New("note question cannot be empty")
)

// Note is a saved question/answer pair a user captured while studying
// an article.
type Note struct {
	ID        uuid.UUID `json:"id"`
	ArticleID string    `json:"article_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote creates a note attached to an article.
func NewNote(ownerID uuid.UUID, articleID, question, answer string) (*Note, error) {
	note := &Note{
		ID:        uuid.New(),
		ArticleID: articleID,
		Question:  question,
		Answer:    answer,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ArticleID == "" {
		return ErrEmptyNoteArticle
	}

	if n.OwnerID == uuid.Nil {
		return ErrEmptyNoteOwner
	}

	if n.Question == "" {
		return ErrEmptyNoteQuestion
	}

	return nil
}
