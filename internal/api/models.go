package api

import (
	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
)

// Auth

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the access token issued on successful
// registration or login.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// Generation

// GenerateRequest starts an outline or article generation run.
type GenerateRequest struct {
	Topic        string   `json:"topic" validate:"required,max=500"`
	Description  string   `json:"description,omitempty" validate:"max=5000"`
	Links        []string `json:"links,omitempty" validate:"max=20,dive,url"`
	EnableSearch bool     `json:"enable_search,omitempty"`
}

// RegenerateOutlineRequest reruns outline generation steered by feedback.
type RegenerateOutlineRequest struct {
	OutlineID string `json:"outline_id" validate:"required,uuid"`
	Feedback  string `json:"feedback,omitempty" validate:"max=5000"`
}

// UpdateOutlineRequest replaces an outline's chapter list with a
// user-edited one.
type UpdateOutlineRequest struct {
	OutlineID string               `json:"outline_id" validate:"required,uuid"`
	Chapters  []domain.ChapterSpec `json:"chapters" validate:"required,min=1,dive"`
}

// GenerateDocumentRequest starts document generation from an outline.
type GenerateDocumentRequest struct {
	OutlineID string `json:"outline_id" validate:"required,uuid"`
}

// TaskResponse is the submission acknowledgement for asynchronous
// generation requests. The client polls the task endpoint with TaskID.
type TaskResponse struct {
	TaskID uuid.UUID         `json:"task_id"`
	Status domain.TaskStatus `json:"status"`
}

// Articles

// UpdateArticleRequest saves an edited article.
type UpdateArticleRequest struct {
	Title   string `json:"title" validate:"required,max=500"`
	Content string `json:"content" validate:"required"`
}

// BatchDeleteRequest names a batch of resources to delete.
type BatchDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100"`
}

// BatchDeleteResponse reports how many of the requested resources were
// deleted. Deleted may be less than requested when a failure stopped
// the batch early.
type BatchDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// AskRequest is a question grounded in one article's content.
type AskRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Question  string `json:"question" validate:"required,max=2000"`
}

// AskResponse carries the model's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Notes

// SaveNoteRequest stores a question/answer pair against an article.
type SaveNoteRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Question  string `json:"question" validate:"required,max=2000"`
	Answer    string `json:"answer" validate:"required"`
}

// Interview

// GenerateInterviewRequest generates interview questions from an article.
// A zero Count uses the server default.
type GenerateInterviewRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Count     int    `json:"count,omitempty" validate:"min=0,max=20"`
}

// AnswerInterviewRequest records and grades an answer to an interview
// question.
type AnswerInterviewRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Answer     string `json:"answer" validate:"required"`
}
