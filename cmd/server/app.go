package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/learnflow/learnflow-api/internal/config"
	"github.com/learnflow/learnflow-api/internal/events"
	"github.com/learnflow/learnflow-api/internal/generation"
	"github.com/learnflow/learnflow-api/internal/platform/llm"
	"github.com/learnflow/learnflow-api/internal/platform/postgres"
	"github.com/learnflow/learnflow-api/internal/platform/search"
	"github.com/learnflow/learnflow-api/internal/service"
	"github.com/learnflow/learnflow-api/internal/service/auth"
	"github.com/learnflow/learnflow-api/internal/store"
	"github.com/learnflow/learnflow-api/internal/task"
)

// application holds all shared application dependencies so setup and
// shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore      store.UserStore
	taskStore      store.TaskStore
	outlineStore   store.OutlineStore
	articleStore   store.ArticleStore
	documentStore  store.DocumentStore
	noteStore      store.NoteStore
	interviewStore store.InterviewStore

	// Auth
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	// Generation backends
	writer *generation.ModelWriter
	finder *search.Client

	// Services
	outlineService    service.OutlineService
	generationService service.GenerationService
	articleService    service.ArticleService
	documentService   service.DocumentService
	noteService       service.NoteService
	interviewService  service.InterviewService

	// Background task machinery
	tracker     *task.Tracker
	runner      *task.Runner
	chapterPool *task.ChapterPool
	emitter     *events.InMemoryEventEmitter
}

// newApplication builds the full dependency graph. Core dependencies
// (config, logger, database) must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.outlineStore = postgres.NewPostgresOutlineStore(db, logger)
	app.articleStore = postgres.NewPostgresArticleStore(db, logger)
	app.documentStore = postgres.NewPostgresDocumentStore(db, logger)
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.interviewStore = postgres.NewPostgresInterviewStore(db, logger)

	client, err := llm.NewOpenAIClient(cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	app.writer = generation.NewModelWriter(client, logger)
	app.finder = search.NewClient(logger)
	logger.Info("generation backend initialized", slog.String("model", cfg.LLM.Model))

	if err := app.setupTaskMachinery(ctx); err != nil {
		return nil, err
	}

	if err := app.setupServices(); err != nil {
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

// setupTaskMachinery wires the status tracker, worker pools, event
// emitter, and the handler that turns emitted requests into running
// generation tasks.
func (app *application) setupTaskMachinery(ctx context.Context) error {
	var err error
	app.tracker, err = task.NewTracker(app.taskStore, app.config.Task.CacheSize, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task tracker: %w", err)
	}
	app.tracker.Start()

	// Runner.Start fails the records left unsettled by a previous
	// process before its workers pick up new work.
	app.runner, err = task.NewRunner(app.tracker, task.RunnerConfig{
		WorkerCount: app.config.Task.WorkerCount,
		QueueSize:   app.config.Task.QueueSize,
	}, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task runner: %w", err)
	}
	if err := app.runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	app.chapterPool = task.NewChapterPool(app.config.Task.ChapterPoolSize, app.logger)

	retryPolicy := chapterRetryPolicy(app.config.LLM)

	articleFactory := task.NewArticleTaskFactory(
		app.writer, app.articleStore, app.tracker, app.finder, app.logger)
	documentFactory := task.NewDocumentTaskFactory(
		app.writer, app.db, app.documentStore, app.articleStore,
		app.tracker, app.chapterPool, app.finder, retryPolicy, app.logger)

	handler := task.NewGenerationEventHandler(
		articleFactory, documentFactory, app.runner, app.tracker, app.logger)

	app.emitter = events.NewInMemoryEventEmitter(app.logger)
	app.emitter.RegisterHandler(handler)

	return nil
}

// chapterRetryPolicy derives the chapter retry policy from the LLM
// configuration.
func chapterRetryPolicy(cfg config.LLMConfig) task.RetryPolicy {
	return task.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		Delay:      time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}
}

// setupServices builds the HTTP-facing service layer on top of the
// stores and task machinery.
func (app *application) setupServices() error {
	var err error

	app.outlineService, err = service.NewOutlineService(app.outlineStore, app.writer, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create outline service: %w", err)
	}

	app.generationService, err = service.NewGenerationService(
		app.tracker, app.taskStore, app.outlineStore, app.emitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create generation service: %w", err)
	}

	app.articleService, err = service.NewArticleService(app.articleStore, app.writer, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create article service: %w", err)
	}

	app.documentService, err = service.NewDocumentService(
		app.db, app.documentStore, app.articleStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create document service: %w", err)
	}

	app.noteService, err = service.NewNoteService(app.noteStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create note service: %w", err)
	}

	app.interviewService, err = service.NewInterviewService(
		app.interviewStore, app.articleStore, app.writer, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create interview service: %w", err)
	}

	return nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup shuts down background machinery and closes the database.
// In-flight generation work is given a moment to flush its status
// updates before the tracker stops.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}
	if app.chapterPool != nil {
		app.chapterPool.Stop()
	}
	if app.tracker != nil {
		app.tracker.Sync()
		app.tracker.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
