package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/snipvault/snipvault/internal/config"
	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/organize"
	"github.com/snipvault/snipvault/internal/core/ports"
	"github.com/snipvault/snipvault/internal/core/usecase"
	"github.com/snipvault/snipvault/internal/infrastructure/extraction/ocr"
	"github.com/snipvault/snipvault/internal/infrastructure/queue/nats"
	"github.com/snipvault/snipvault/internal/infrastructure/repository/postgres"
	"github.com/snipvault/snipvault/internal/infrastructure/resilience"
	"github.com/snipvault/snipvault/internal/infrastructure/storage/localfs"
	"github.com/snipvault/snipvault/internal/observability/logging"
)

// App holds the wired dependency graph shared by the api, worker, and mcp
// processes. Each binary picks the handles it needs.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Captures ports.CaptureRepository

	IngestUC   *usecase.IngestCaptureUseCase
	ProcessUC  *usecase.ProcessCaptureUseCase
	AnalyzeUC  *usecase.AnalyzeContentUseCase
	OrganizeUC *usecase.OrganizeLibraryUseCase
	LibraryUC  *usecase.LibraryReadUseCase

	closeFn func()
}

func New(ctx context.Context, service string, cfg config.Config) (*App, error) {
	logger := logging.New(service, cfg.LogLevel, cfg.LogFile)
	return build(ctx, cfg, logger)
}

// NewStdio wires the same graph with all logging on stderr, for processes
// that own stdout as a protocol channel.
func NewStdio(ctx context.Context, service string, cfg config.Config) (*App, error) {
	logger := logging.NewWithWriters(service, cfg.LogLevel, os.Stderr)
	return build(ctx, cfg, logger)
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.OCRMaxRetries,
		BreakerEnabled:   cfg.OCRBreakerEnabled,
	})

	captures := postgres.NewCaptureRepository(db)
	if err := captures.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure captures schema: %w", err)
	}
	library := postgres.NewLibraryRepository(db, executor)
	if err := library.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure library schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, cfg.NATSQueueGroup, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	classifier, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}

	extractor := ocr.New(cfg.OCRURL, storage, time.Duration(cfg.OCRTimeoutSeconds)*time.Second, executor)

	placement := usecase.PlacementConfig{
		SuggestThreshold:    cfg.PlacementSuggestThreshold,
		AutoAppendThreshold: cfg.PlacementAutoAppendThreshold,
	}
	planner := organize.NewPlanner(classifier, organize.PlannerConfig{
		MinConfidence:  cfg.PlannerMinConfidence,
		MergeFloor:     cfg.PlannerMergeFloor,
		AutoMergeFloor: cfg.PlannerAutoMergeFloor,
		DuplicateFloor: cfg.PlannerDuplicateFloor,
	})
	planExecutor := organize.NewExecutor(library, classifier)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:    queue,
		Captures: captures,

		IngestUC:   usecase.NewIngestCaptureUseCase(captures, storage, queue),
		ProcessUC:  usecase.NewProcessCaptureUseCase(captures, library, extractor, classifier, placement),
		AnalyzeUC:  usecase.NewAnalyzeContentUseCase(library, classifier, placement),
		OrganizeUC: usecase.NewOrganizeLibraryUseCase(library, planner, planExecutor),
		LibraryUC:  usecase.NewLibraryReadUseCase(library, classifier),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func buildClassifier(cfg config.Config) (*classify.Classifier, error) {
	if cfg.ClassifyRulesPath == "" {
		return classify.Default(), nil
	}
	classifier, err := classify.FromFile(cfg.ClassifyRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classify rules: %w", err)
	}
	return classifier, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
