package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Outline
var (
	ErrEmptyOutlineID      = errors.New("outline ID cannot be empty")
	ErrEmptyOutlineOwner   = errors.New("outline owner cannot be empty")
	ErrEmptyOutlineTitle   = errors.New("outline title cannot be empty")
	ErrEmptyChapterTitle   = errors.New("chapter title cannot be empty")
	ErrInvalidChapterID    = errors.New("chapter IDs must be unique and positive")
	ErrChaptersOutOfOrder  = errors.New("chapter IDs must be strictly ascending")
)

// ChapterSpec describes one chapter of an outline. The ID is 1-based,
// unique within the outline, and defines document order. ChapterSpecs
// are never mutated after outline creation or edit.
type ChapterSpec struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Outline is an ordered list of chapter specifications defining a
// document's table of contents. It is created by an outline-generation
// request, owned by the requesting user, and consumed read-only by the
// document scheduler.
type Outline struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Topic        string        `json:"topic"`
	Chapters     []ChapterSpec `json:"chapters"`
	Links        []string      `json:"links,omitempty"`
	EnableSearch bool          `json:"enable_search"`
	OwnerID      uuid.UUID     `json:"owner_id"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewOutline creates a new Outline owned by the given user.
// Returns an error if validation fails.
func NewOutline(ownerID uuid.UUID, topic, title, description string, chapters []ChapterSpec) (*Outline, error) {
	outline := &Outline{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Topic:       topic,
		Chapters:    chapters,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := outline.Validate(); err != nil {
		return nil, err
	}

	return outline, nil
}

// Validate checks if the Outline has valid data. An outline with zero
// chapters is degenerate but valid (it yields an empty document).
func (o *Outline) Validate() error {
	if o.ID == uuid.Nil {
		return ErrEmptyOutlineID
	}

	if o.OwnerID == uuid.Nil {
		return ErrEmptyOutlineOwner
	}

	if o.Title == "" {
		return ErrEmptyOutlineTitle
	}

	prev := 0
	for _, ch := range o.Chapters {
		if ch.ID <= 0 {
			return ErrInvalidChapterID
		}
		if ch.ID <= prev {
			return ErrChaptersOutOfOrder
		}
		if ch.Title == "" {
			return ErrEmptyChapterTitle
		}
		prev = ch.ID
	}

	return nil
}

// ReplaceChapters swaps in an edited chapter list, the only mutation an
// outline supports after creation. Returns an error if the new list
// fails validation; the outline is unchanged on error.
func (o *Outline) ReplaceChapters(chapters []ChapterSpec) error {
	old := o.Chapters
	o.Chapters = chapters
	if err := o.Validate(); err != nil {
		o.Chapters = old
		return err
	}
	return nil
}
