package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/learnflow/learnflow-api/internal/api/shared"
	"github.com/learnflow/learnflow-api/internal/service"
)

// NoteHandler handles saved study notes.
type NoteHandler struct {
	noteService service.NoteService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteHandler{
		noteService: noteService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "note_handler")),
	}
}

// SaveNote handles POST /api/notes.
func (h *NoteHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	var req SaveNoteRequest
	if err := shared.DecodeAndValidate(r, h.validator, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.noteService.SaveNote(r.Context(), userID, req.ArticleID, req.Question, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, note)
}

// ListNotes handles GET /api/notes/{article_id}.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
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

	notes, err := h.noteService.ListNotes(r.Context(), userID, articleID)
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, notes)
}

// DeleteNote handles DELETE /api/note/{note_id}.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondUnauthenticated(w, r)
		return
	}

	noteID, err := getPathUUID(r, "note_id")
	if err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), userID, noteID); err != nil {
		HandleAPIError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, http.StatusNoContent, nil)
}
