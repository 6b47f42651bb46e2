package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/service"
)

// InterviewHandler handles interview question generation, answering,
// and review.
type InterviewHandler struct {
	interviewService service.InterviewService
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService service.InterviewService, logger *slog.Logger) *InterviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InterviewHandler{
		interviewService: interviewService,
		validator:        validator.New(),
		logger:           logger.With(slog.String("component", "interview_handler")),
	}
}

// GenerateQuestions handles POST /api/interview/generate.
func (h *InterviewHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req GenerateInterviewRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	questions, err := h.interviewService.GenerateQuestions(r.Context(), userID, req.ArticleID, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, questions)
}

// RegenerateQuestions handles POST /api/interview/regenerate.
func (h *InterviewHandler) RegenerateQuestions(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req GenerateInterviewRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	questions, err := h.interviewService.RegenerateQuestions(r.Context(), userID, req.ArticleID, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, questions)
}

// AnswerQuestion handles POST /api/interview/answer.
func (h *InterviewHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req AnswerInterviewRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "question_id is not a valid UUID")
		return
	}

	question, err := h.interviewService.AnswerQuestion(r.Context(), userID, questionID, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, question)
}

// ListQuestions handles GET /api/interview/{article_id}.
func (h *InterviewHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	articleID, err := getPathString(r, "article_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	questions, err := h.interviewService.ListQuestions(r.Context(), userID, articleID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, questions)
}

// DeleteQuestion handles DELETE /api/interview/question/{question_id}.
func (h *InterviewHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	questionID, err := getPathUUID(r, "question_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	if err := h.interviewService.DeleteQuestion(r.Context(), userID, questionID); err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusNoContent, nil)
}
