package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/platform/logger"
	"github.com/learnflow/learnflow-api/internal/store"
)

// PostgresInterviewStore implements the store.InterviewStore interface.
type PostgresInterviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInterviewStore creates a new PostgreSQL implementation of
// the InterviewStore interface.
func NewPostgresInterviewStore(db store.DBTX, logger *slog.Logger) *PostgresInterviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInterviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "interview_store")),
	}
}

// Ensure PostgresInterviewStore implements store.InterviewStore interface
var _ store.InterviewStore = (*PostgresInterviewStore)(nil)

const interviewColumns = `id, owner_id, article_id, question, reference_answer, user_answer, score, feedback, created_at, updated_at`

// Create implements store.InterviewStore.Create
func (s *PostgresInterviewStore) Create(ctx context.Context, question *domain.InterviewQuestion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("interview question validation failed during create",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	query := `
		INSERT INTO interview_questions (` + interviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		question.ID,
		question.OwnerID,
		question.ArticleID,
		question.Question,
		question.ReferenceAnswer,
		nullString(question.UserAnswer),
		nullScore(question.Score),
		nullString(question.Feedback),
		question.CreatedAt,
		question.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create interview question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.InterviewStore.GetByID
// Returns store.ErrInterviewQuestionNotFound if the question does not
// exist or belongs to a different owner.
func (s *PostgresInterviewStore) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.InterviewQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + interviewColumns + ` FROM interview_questions WHERE id = $1 AND owner_id = $2`

	question, err := scanInterviewQuestion(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("interview question not found", slog.String("question_id", id.String()))
			return nil, store.ErrInterviewQuestionNotFound
		}
		log.Error("failed to get interview question by ID",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return nil, MapError(err)
	}

	return question, nil
}

// Update implements store.InterviewStore.Update
// Returns store.ErrInterviewQuestionNotFound if the question does not exist.
func (s *PostgresInterviewStore) Update(ctx context.Context, question *domain.InterviewQuestion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("interview question validation failed during update",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	query := `
		UPDATE interview_questions
		SET user_answer = $1, score = $2, feedback = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		nullString(question.UserAnswer),
		nullScore(question.Score),
		nullString(question.Feedback),
		question.UpdatedAt,
		question.ID,
	)

	if err != nil {
		log.Error("failed to update interview question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrInterviewQuestionNotFound)
}

// Delete implements store.InterviewStore.Delete
// Returns store.ErrInterviewQuestionNotFound if the question does not
// exist or belongs to a different owner.
func (s *PostgresInterviewStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM interview_questions WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		log.Error("failed to delete interview question",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return MapError(err)
	}

	return checkRowsAffected(result, store.ErrInterviewQuestionNotFound)
}

// ListByArticle implements store.InterviewStore.ListByArticle
func (s *PostgresInterviewStore) ListByArticle(ctx context.Context, articleID string, ownerID uuid.UUID) ([]*domain.InterviewQuestion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + interviewColumns + `
		FROM interview_questions
		WHERE article_id = $1 AND owner_id = $2
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, articleID, ownerID)
	if err != nil {
		log.Error("failed to query interview questions", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	questions := []*domain.InterviewQuestion{}
	for rows.Next() {
		question, err := scanInterviewQuestion(rows)
		if err != nil {
			log.Error("failed to scan interview question row", slog.String("error", err.Error()))
			return nil, err
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning interview question rows", slog.String("error", err.Error()))
		return nil, err
	}

	return questions, nil
}

// WithTx implements store.InterviewStore.WithTx
func (s *PostgresInterviewStore) WithTx(tx *sql.Tx) store.InterviewStore {
	return &PostgresInterviewStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanInterviewQuestion(row rowScanner) (*domain.InterviewQuestion, error) {
	var question domain.InterviewQuestion
	var userAnswer sql.NullString
	var score sql.NullInt32
	var feedback sql.NullString

	err := row.Scan(
		&question.ID,
		&question.OwnerID,
		&question.ArticleID,
		&question.Question,
		&question.ReferenceAnswer,
		&userAnswer,
		&score,
		&feedback,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	question.UserAnswer = userAnswer.String
	question.Feedback = feedback.String
	if score.Valid {
		value := int(score.Int32)
		question.Score = &value
	}

	return &question, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullScore(score *int) sql.NullInt32 {
	if score == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*score), Valid: true}
}
