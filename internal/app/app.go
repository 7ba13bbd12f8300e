// -----------------------------------------------------------------------
// Application wiring - constructs services and handlers from configuration
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lingua/internal/common"
	"github.com/ternarybob/lingua/internal/handlers"
	"github.com/ternarybob/lingua/internal/interfaces"
	"github.com/ternarybob/lingua/internal/models"
	"github.com/ternarybob/lingua/internal/services/chat"
	"github.com/ternarybob/lingua/internal/services/indexer"
	"github.com/ternarybob/lingua/internal/services/llm"
	"github.com/ternarybob/lingua/internal/services/pdf"
	"github.com/ternarybob/lingua/internal/services/session"
	"github.com/ternarybob/lingua/internal/services/translator"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Core services
	LLMService        interfaces.LLMService
	TranslatorService interfaces.TranslatorService
	IndexerService    interfaces.IndexerService
	RetrieverService  interfaces.RetrieverService
	SessionManager    *session.Manager

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	AuthHandler      *handlers.AuthHandler
	TranslateHandler *handlers.TranslateHandler
	ChatHandler      *handlers.ChatHandler
	PageHandler      *handlers.PageHandler
}

// New creates and wires the application.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := models.ValidateLanguages(); err != nil {
		return nil, fmt.Errorf("language table invalid: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initServices(); err != nil {
		return nil, err
	}
	a.initHandlers()

	logger.Info().
		Str("llm_provider", a.LLMService.Provider()).
		Str("environment", cfg.Environment).
		Msg("Application initialized")

	return a, nil
}

func (a *App) initServices() error {
	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	extractor := pdf.NewExtractor(a.Config.PDF.MaxPages, a.Logger)
	a.TranslatorService = translator.NewService(llmService, extractor, a.Logger)

	indexerService, err := indexer.NewService(a.Config, llmService, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create indexer service: %w", err)
	}
	a.IndexerService = indexerService

	a.RetrieverService = chat.NewRetriever(a.Config, llmService, a.Logger)

	a.SessionManager = session.NewManager(a.Config, a.TranslatorService, a.IndexerService, a.RetrieverService, a.Logger)

	return nil
}

func (a *App) initHandlers() {
	exporter := pdf.NewExporter(a.Logger)

	a.APIHandler = handlers.NewAPIHandler(a.LLMService, a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.SessionManager, a.Logger)
	a.TranslateHandler = handlers.NewTranslateHandler(a.SessionManager, exporter, a.Config.PDF.MaxPages, a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.SessionManager, a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Logger)
}

// Close releases application resources.
func (a *App) Close() error {
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
			return err
		}
	}
	return nil
}
