// -----------------------------------------------------------------------
// App - Application wiring and lifecycle
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/handlers"
	"github.com/ternarybob/docere/internal/interfaces"
	"github.com/ternarybob/docere/internal/services/content"
	"github.com/ternarybob/docere/internal/services/embeddings"
	"github.com/ternarybob/docere/internal/services/llm"
	"github.com/ternarybob/docere/internal/services/notify"
	"github.com/ternarybob/docere/internal/services/pdf"
	"github.com/ternarybob/docere/internal/services/rag"
	"github.com/ternarybob/docere/internal/services/scheduler"
	"github.com/ternarybob/docere/internal/services/vector"
	"github.com/ternarybob/docere/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager *badger.Manager

	// Core services
	LLMService        interfaces.LLMService
	EmbeddingService  interfaces.EmbeddingService
	VectorIndex       interfaces.VectorIndex
	RAGService        interfaces.RAGService
	ContentService    *content.Service
	EnrollmentService interfaces.EnrollmentService
	Scheduler         *scheduler.Scheduler

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	RAGHandler        *handlers.RAGHandler
	ContentHandler    *handlers.ContentHandler
	EnrollmentHandler *handlers.EnrollmentHandler
}

// New wires the application: storage first, then the model-facing services,
// then the RAG orchestrator and handlers.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badger.NewManager(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	llmService := llm.NewService(config, logger)
	embeddingService := embeddings.NewService(llmService, config, logger)

	vectorIndex, err := vector.NewChromemIndex(config, embeddingService.Version(), logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	contentService := content.NewService(storageManager, logger)
	enrollmentService := content.NewEnrollmentService(storageManager, logger)
	downloader := content.NewHTTPDownloader(config, logger)
	extractor := pdf.NewExtractor(logger)
	renderer := pdf.NewRenderer(logger)
	notifier := notify.NewLogNotifier(logger)

	ragService := rag.NewService(config, rag.Dependencies{
		Storage:     storageManager,
		Embedder:    embeddingService,
		Index:       vectorIndex,
		LLM:         llmService,
		Extractor:   extractor,
		Downloader:  downloader,
		Enrollments: enrollmentService,
		Notifier:    notifier,
	}, logger)

	maintenance := scheduler.NewScheduler(&config.Maintenance, storageManager, logger)
	if err := maintenance.Start(); err != nil {
		vectorIndex.Close()
		storageManager.Close()
		return nil, err
	}

	app := &App{
		Config:            config,
		Logger:            logger,
		StorageManager:    storageManager,
		LLMService:        llmService,
		EmbeddingService:  embeddingService,
		VectorIndex:       vectorIndex,
		RAGService:        ragService,
		ContentService:    contentService,
		EnrollmentService: enrollmentService,
		Scheduler:         maintenance,
		APIHandler:        handlers.NewAPIHandler(llmService),
		RAGHandler:        handlers.NewRAGHandler(ragService, renderer, storageManager),
		ContentHandler:    handlers.NewContentHandler(contentService, ragService),
		EnrollmentHandler: handlers.NewEnrollmentHandler(enrollmentService),
	}

	logger.Info().
		Str("provider", config.LLM.Provider).
		Str("embedder", embeddingService.Version()).
		Msg("Application initialized")

	return app, nil
}

// Close releases resources in reverse initialization order.
func (a *App) Close() {
	a.Scheduler.Stop()

	if err := a.LLMService.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
	}
	if err := a.VectorIndex.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close vector index")
	}
	if err := a.StorageManager.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
	}

	a.Logger.Info().Msg("Application shut down")
}
