package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/learnflow/learnflow-api/internal/api"
	apimiddleware "github.com/learnflow/learnflow-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore, app.jwtService, app.passwordHasher, app.passwordVerifier, app.logger)
	generateHandler := api.NewGenerateHandler(app.outlineService, app.generationService, app.logger)
	articleHandler := api.NewArticleHandler(app.articleService, app.logger)
	documentHandler := api.NewDocumentHandler(app.documentService, app.logger)
	noteHandler := api.NewNoteHandler(app.noteService, app.logger)
	interviewHandler := api.NewInterviewHandler(app.interviewService, app.logger)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/public/article/{article_id}", articleHandler.GetPublicArticle)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Outlines
			r.Post("/generate/outline", generateHandler.GenerateOutline)
			r.Post("/regenerate/outline", generateHandler.RegenerateOutline)
			r.Post("/update/outline", generateHandler.UpdateOutline)
			r.Get("/outline/{outline_id}", generateHandler.GetOutline)
			r.Get("/outlines", generateHandler.ListOutlines)

			// Generation tasks
			r.Post("/generate/article", generateHandler.GenerateArticle)
			r.Post("/generate/document", generateHandler.GenerateDocument)
			r.Get("/task/{task_id}", generateHandler.GetTask)
			r.Get("/tasks", generateHandler.ListTasks)

			// Articles
			r.Get("/articles", articleHandler.ListArticles)
			r.Get("/article/{article_id}", articleHandler.GetArticle)
			r.Put("/article/{article_id}", articleHandler.UpdateArticle)
			r.Delete("/article/{article_id}", articleHandler.DeleteArticle)
			r.Post("/articles/delete", articleHandler.DeleteArticles)
			r.Post("/ask", articleHandler.Ask)

			// Documents
			r.Get("/documents", documentHandler.ListDocuments)
			r.Get("/document/{document_id}", documentHandler.GetDocument)
			r.Delete("/document/{document_id}", documentHandler.DeleteDocument)
			r.Post("/documents/delete", documentHandler.DeleteDocuments)

			// Notes
			r.Post("/notes", noteHandler.SaveNote)
			r.Get("/notes/{article_id}", noteHandler.ListNotes)
			r.Delete("/note/{note_id}", noteHandler.DeleteNote)

			// Interview practice
			r.Post("/interview/generate", interviewHandler.GenerateQuestions)
			r.Post("/interview/regenerate", interviewHandler.RegenerateQuestions)
			r.Post("/interview/answer", interviewHandler.AnswerQuestion)
			r.Get("/interview/{article_id}", interviewHandler.ListQuestions)
			r.Delete("/interview/question/{question_id}", interviewHandler.DeleteQuestion)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
