package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/store"
)

// defaultQuestionCount is how many interview questions a generation run
// produces when the caller does not say otherwise.
const defaultQuestionCount = 5

// InterviewService runs the interview practice workflow: generate
// questions from an article, grade the user's answers, and manage the
// stored question set.
type InterviewService interface {
	// GenerateQuestions generates count interview questions from one of
	// the owner's articles and stores them. A count of zero or less uses
	// the default.
	GenerateQuestions(ctx context.Context, ownerID uuid.UUID, articleID string, count int) ([]*domain.InterviewQuestion, error)

	// RegenerateQuestions replaces the article's stored question set
	// with a fresh generation.
	RegenerateQuestions(ctx context.Context, ownerID uuid.UUID, articleID string, count int) ([]*domain.InterviewQuestion, error)

	// AnswerQuestion grades the user's answer against the reference
	// answer and records both on the question.
	AnswerQuestion(ctx context.Context, ownerID, questionID uuid.UUID, answer string) (*domain.InterviewQuestion, error)

	// ListQuestions retrieves the owner's questions for one article.
	ListQuestions(ctx context.Context, ownerID uuid.UUID, articleID string) ([]*domain.InterviewQuestion, error)

	// DeleteQuestion removes one of the owner's questions.
	DeleteQuestion(ctx context.Context, ownerID, questionID uuid.UUID) error
}

type interviewServiceImpl struct {
	interviews store.InterviewStore
	articles   store.ArticleStore
	assistant  generation.Assistant
	logger     *slog.Logger
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(
	interviews store.InterviewStore,
	articles store.ArticleStore,
	assistant generation.Assistant,
	logger *slog.Logger,
) (InterviewService, error) {
	if interviews == nil {
		return nil, fmt.Errorf("interview store cannot be nil")
	}
	if articles == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if assistant == nil {
		return nil, fmt.Errorf("assistant cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &interviewServiceImpl{
		interviews: interviews,
		articles:   articles,
		assistant:  assistant,
		logger:     logger.With("component", "interview_service"),
	}, nil
}

func (s *interviewServiceImpl) GenerateQuestions(
	ctx context.Context,
	ownerID uuid.UUID,
	articleID string,
	count int,
) ([]*domain.InterviewQuestion, error) {
	if count <= 0 {
		count = defaultQuestionCount
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.OwnerID != ownerID {
		return nil, ErrNotOwned
	}

	drafts, err := s.assistant.WriteInterviewQuestions(ctx, article.Content, count)
	if err != nil {
		s.logger.Error("failed to generate interview questions",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to generate interview questions: %w", err)
	}

	questions := make([]*domain.InterviewQuestion, 0, len(drafts))
	for _, draft := range drafts {
		question, err := domain.NewInterviewQuestion(ownerID, articleID, draft.Question, draft.ReferenceAnswer)
		if err != nil {
			return nil, fmt.Errorf("failed to create interview question: %w", err)
		}
		if err := s.interviews.Create(ctx, question); err != nil {
			s.logger.Error("failed to save interview question",
				"error", err,
				"article_id", articleID,
				"user_id", ownerID)
			return nil, fmt.Errorf("failed to save interview question: %w", err)
		}
		questions = append(questions, question)
	}

	s.logger.Info("interview questions generated",
		"article_id", articleID,
		"user_id", ownerID,
		"count", len(questions))

	return questions, nil
}

func (s *interviewServiceImpl) RegenerateQuestions(
	ctx context.Context,
	ownerID uuid.UUID,
	articleID string,
	count int,
) ([]*domain.InterviewQuestion, error) {
	existing, err := s.interviews.ListByArticle(ctx, articleID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview questions: %w", err)
	}

	for _, question := range existing {
		if err := s.interviews.Delete(ctx, question.ID, ownerID); err != nil && !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to clear interview questions: %w", err)
		}
	}

	return s.GenerateQuestions(ctx, ownerID, articleID, count)
}

func (s *interviewServiceImpl) AnswerQuestion(
	ctx context.Context,
	ownerID, questionID uuid.UUID,
	answer string,
) (*domain.InterviewQuestion, error) {
	question, err := s.interviews.GetByID(ctx, questionID, ownerID)
	if err != nil {
		return nil, err
	}

	grade, err := s.assistant.GradeAnswer(ctx, question.Question, question.ReferenceAnswer, answer)
	if err != nil {
		s.logger.Error("failed to grade answer",
			"error", err,
			"question_id", questionID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to grade answer: %w", err)
	}

	if err := question.RecordAnswer(answer, grade.Score, grade.Feedback); err != nil {
		return nil, err
	}

	if err := s.interviews.Update(ctx, question); err != nil {
		s.logger.Error("failed to save graded answer",
			"error", err,
			"question_id", questionID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to save graded answer: %w", err)
	}

	return question, nil
}

func (s *interviewServiceImpl) ListQuestions(
	ctx context.Context,
	ownerID uuid.UUID,
	articleID string,
) ([]*domain.InterviewQuestion, error) {
	questions, err := s.interviews.ListByArticle(ctx, articleID, ownerID)
	if err != nil {
		s.logger.Error("failed to list interview questions",
			"error", err,
			"article_id", articleID,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list interview questions: %w", err)
	}
	return questions, nil
}

func (s *interviewServiceImpl) DeleteQuestion(ctx context.Context, ownerID, questionID uuid.UUID) error {
	return s.interviews.Delete(ctx, questionID, ownerID)
}
