package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"sitegrade/application"
	"sitegrade/database"
	"sitegrade/domain/contracts"
	"sitegrade/infrastructure/config"
	"sitegrade/infrastructure/repositories"
	"sitegrade/infrastructure/webclient"
	"sitegrade/interfaces/web/handlers"
	"sitegrade/logging"
	"sitegrade/platform/events"
	"sitegrade/platform/fetchers"
)

func main() {
	// Create app-wide cancellation for graceful shutdown
	_, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Initialize configuration
	loadEnvironment()
	cfg := config.LoadAppConfigFromEnv()

	// Initialize logging
	logger := initializeLogging(cfg)

	// Initialize database
	db := initializeDatabase(cfg, logger)
	defer db.Close()

	// Build dependencies
	deps := buildDependencies(db, cfg, logger)

	// Setup routes and start server
	router := setupRoutes(deps, cfg)
	startServer(router, cfg.HTTPAddr, logger, appCancel)
}

// ApplicationServices holds application services.
type ApplicationServices struct {
	AuditService   *application.AuditService
	SignalService  *application.SignalService
	ScoringService *application.ScoringService
	CopyService    *application.CopyService
	EventBus       *events.SignalEventBus
}

// PresentationLayer groups all handler sets
type PresentationLayer struct {
	AuditHandlers    *handlers.AuditHandlers
	SignalHandlers   *handlers.SignalHandlers
	SettingsHandlers *handlers.SettingsHandlers
	CopyHandlers     *handlers.CopyHandlers
}

// Dependencies holds all application dependencies organized by layer
type Dependencies struct {
	// Infrastructure
	DB     *database.Database
	Logger *logging.Logger

	// Repositories
	AuditRepo contracts.AuditRepository

	// Application Layer
	Services *ApplicationServices

	// Presentation Layer
	Presentation *PresentationLayer
}

func loadEnvironment() {
	if err := godotenv.Load(); err != nil {
		println("No .env file found, using environment variables")
	} else {
		println("Loaded configuration from .env file")
	}
}

func initializeLogging(cfg *config.AppConfig) *logging.Logger {
	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	logger.Info("Application starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"log_format", cfg.Logging.Format,
		"db_path", cfg.Database.Path,
	)

	return logger
}

func initializeDatabase(cfg *config.AppConfig, logger *logging.Logger) *database.Database {
	db, err := database.New(*cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	return db
}

// RepositoryBundle holds all repository implementations
type RepositoryBundle struct {
	AuditRepo    contracts.AuditRepository
	SettingsRepo contracts.SettingsRepository
	TemplateRepo contracts.TemplateRepository
}

// buildRepositories creates all repository implementations with read/write database separation
func buildRepositories(db *database.Database) *RepositoryBundle {
	return &RepositoryBundle{
		AuditRepo:    repositories.NewAuditRepository(db),
		SettingsRepo: repositories.NewSettingsRepository(db),
		TemplateRepo: repositories.NewTemplateRepository(db),
	}
}

// buildFetcherRegistry wires up the four signal fetchers.
func buildFetcherRegistry(cfg *config.SignalConfig) *fetchers.Registry {
	web := webclient.New(cfg.CrawlFetchTimeout, cfg.CrawlMaxBodySize)

	registry := fetchers.NewRegistry()
	registry.Register(fetchers.NewStructuralFetcher(cfg.ValidatorURL, 15*time.Second, web))
	registry.Register(fetchers.NewPerformanceFetcher(cfg.PerformanceAPIURL, cfg.PerformanceAPIKey, cfg.PerformanceTimeout))
	registry.Register(fetchers.NewAccessibilityFetcher(cfg.AccessibilityAPIURL, cfg.AccessibilityAPIKey, cfg.AccessibilityTimeout))
	registry.Register(fetchers.NewCrawlabilityFetcher(web))
	return registry
}

// buildApplicationServices creates application services with dependency injection.
func buildApplicationServices(repos *RepositoryBundle, cfg *config.AppConfig) *ApplicationServices {
	eventBus := events.NewSignalEventBus()
	registry := buildFetcherRegistry(cfg.Signals)

	signalService := application.NewSignalService(repos.AuditRepo, repos.SettingsRepo, registry, eventBus)
	scoringService := application.NewScoringService(repos.AuditRepo, repos.SettingsRepo)
	auditService := application.NewAuditService(repos.AuditRepo, signalService)
	copyService := application.NewCopyService(repos.TemplateRepo)

	// Every completed or failed signal refreshes the overall score so the
	// aggregate never depends on completion order.
	recompute := func(auditID string) {
		if _, _, err := scoringService.Recompute(context.Background(), auditID); err != nil {
			logging.Error("Failed to recompute overall score", "audit_id", auditID, "error", err)
		}
	}
	eventBus.OnSignalCompleted(func(e events.SignalCompletedEvent) { recompute(e.AuditID) })
	eventBus.OnSignalFailed(func(e events.SignalFailedEvent) { recompute(e.AuditID) })

	return &ApplicationServices{
		AuditService:   auditService,
		SignalService:  signalService,
		ScoringService: scoringService,
		CopyService:    copyService,
		EventBus:       eventBus,
	}
}

// buildPresentationLayer creates all handler sets
func buildPresentationLayer(services *ApplicationServices) *PresentationLayer {
	return &PresentationLayer{
		AuditHandlers:    handlers.NewAuditHandlers(services.AuditService, services.ScoringService),
		SignalHandlers:   handlers.NewSignalHandlers(services.SignalService),
		SettingsHandlers: handlers.NewSettingsHandlers(services.ScoringService),
		CopyHandlers:     handlers.NewCopyHandlers(services.CopyService),
	}
}

// buildDependencies creates all application dependencies
func buildDependencies(db *database.Database, cfg *config.AppConfig, logger *logging.Logger) *Dependencies {
	repos := buildRepositories(db)
	services := buildApplicationServices(repos, cfg)
	presentation := buildPresentationLayer(services)

	return &Dependencies{
		DB:           db,
		Logger:       logger,
		AuditRepo:    repos.AuditRepo,
		Services:     services,
		Presentation: presentation,
	}
}

func setupRoutes(deps *Dependencies, cfg *config.AppConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	setupHTTPLogging(r, deps, cfg)
	r.Use(middleware.Recoverer)

	// System endpoints
	setupSystemRoutes(r, deps)

	// Audit routes
	setupAuditRoutes(r, deps)

	// Settings and copy routes
	setupAdminRoutes(r, deps)

	return r
}

func setupHTTPLogging(r *chi.Mux, deps *Dependencies, cfg *config.AppConfig) {
	if cfg.HTTPLogPath == "" {
		// No HTTP logging configured, skip
		return
	}

	logFile, err := os.OpenFile(cfg.HTTPLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		deps.Logger.Error("Failed to open HTTP log file", "error", err, "path", cfg.HTTPLogPath)
		return
	}
	// Note: logFile is not closed here as it needs to stay open for the server lifetime

	httpLogger := httplog.NewLogger("sitegrade", httplog.Options{
		Writer: logFile,
		JSON:   true,
	})
	r.Use(httplog.RequestLogger(httpLogger))

	deps.Logger.Info("HTTP request logging enabled", "path", cfg.HTTPLogPath)
}

func setupSystemRoutes(r *chi.Mux, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats, err := deps.DB.Health()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := map[string]interface{}{
			"status":   "ok",
			"database": stats,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})
}

func setupAuditRoutes(r *chi.Mux, deps *Dependencies) {
	p := deps.Presentation

	r.Post("/audits", p.AuditHandlers.CreateAudit)
	r.Get("/audits", p.AuditHandlers.ListAudits)
	r.Get("/audits/{auditID}", p.AuditHandlers.GetAudit)
	r.Delete("/audits/{auditID}", p.AuditHandlers.DeleteAudit)
	r.Put("/audits/{auditID}/design", p.AuditHandlers.SetDesignScore)
	r.Post("/audits/{auditID}/recalculate", p.AuditHandlers.Recalculate)

	r.Post("/audits/{auditID}/signals/{signal}/run", p.SignalHandlers.RunSignal)
}

func setupAdminRoutes(r *chi.Mux, deps *Dependencies) {
	p := deps.Presentation

	r.Get("/settings/scoring", p.SettingsHandlers.GetSettings)
	r.Put("/settings/scoring", p.SettingsHandlers.UpdateSettings)
	r.Post("/settings/scoring/recalculate", p.SettingsHandlers.RecalculateAll)

	r.Get("/templates", p.CopyHandlers.ListTemplates)
	r.Get("/templates/{name}/render", p.CopyHandlers.RenderTemplate)
	r.Put("/templates/{name}", p.CopyHandlers.UpdateTemplate)
}

func startServer(router *chi.Mux, addr string, logger *logging.Logger, appCancel context.CancelFunc) {
	server := &http.Server{Addr: addr, Handler: router}

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sig
		logger.Info("Shutdown signal received")

		// Cancel app-wide context first to signal background work to stop
		appCancel()

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				logger.Error("Graceful shutdown timed out, forcing exit")
				os.Exit(1)
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
		serverStopCtx()
	}()

	logger.Info("Server starting", "address", addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-serverCtx.Done()
	logger.Info("Server stopped")
}
