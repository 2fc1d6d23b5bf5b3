package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/cache"
	"github.com/yshmodi/eiregate/config"
	"github.com/yshmodi/eiregate/middleware"
	"github.com/yshmodi/eiregate/repositories"
	"github.com/yshmodi/eiregate/repositories/postgres"
	"github.com/yshmodi/eiregate/services/jobs"
	"github.com/yshmodi/eiregate/services/llm"
	"github.com/yshmodi/eiregate/services/pipeline"
	"github.com/yshmodi/eiregate/services/resume"
	"github.com/yshmodi/eiregate/supabase"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	DB     *postgres.DB
	Cache  *cache.Client

	// Repositories
	Sessions repositories.SessionRepository

	// Auth
	Supabase       *supabase.Client
	AuthMiddleware *middleware.AuthMiddleware

	// LLM fallback stack
	Registry *llm.Registry
	Invoker  *llm.Invoker
	Reporter *llm.Reporter

	// Domain services
	Parser   *resume.Parser
	Tailor   *resume.Tailor
	Pipeline *pipeline.Service
	Jobs     *jobs.Service
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// The cache degrades to a no-op client when Redis is unreachable
	deps.Cache = cache.NewClient(cfg.Redis.URL, logger)

	deps.initAuth(cfg)

	if err := deps.initLLM(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize LLM providers: %w", err)
	}

	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase opens the session store and applies the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	d.Sessions = postgres.NewSessionRepository(db, d.Logger)
	return nil
}

// initAuth wires the Supabase client and the token-validating middleware.
// An unconfigured client rejects every token, so protected routes stay closed.
func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Supabase = supabase.NewClient(cfg.Supabase, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Supabase, d.Logger)
}

// initLLM builds the provider registry, fallback invoker and health reporter
func (d *Dependencies) initLLM(cfg *config.Config) error {
	registry, err := llm.NewRegistry(BuildProviders(cfg.Providers), d.Logger)
	if err != nil {
		return err
	}

	d.Registry = registry
	d.Invoker = llm.NewInvoker(registry, d.Logger)
	d.Reporter = llm.NewReporter(registry)
	return nil
}

// initServices wires the domain services on top of the infrastructure
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Parser = resume.NewParser(d.Invoker, d.Logger)
	d.Tailor = resume.NewTailor(d.Invoker, d.Logger)
	d.Pipeline = pipeline.NewService(d.Parser, d.Tailor, d.Sessions, d.Logger)

	searcher := jobs.NewHTTPSearcher(cfg.Jobs.ScraperURL, cfg.Jobs.ScraperTimeout)
	d.Jobs = jobs.NewService(searcher, d.Cache, cfg.Jobs.CacheTTL, d.Logger)
}

// BuildProviders returns every provider variant in declaration order.
// Variants without credentials stay in the list so the status endpoint can
// report them; the registry itself filters on availability.
func BuildProviders(cfg config.ProvidersConfig) []llm.Provider {
	return []llm.Provider{
		llm.NewGeminiProvider(cfg.Gemini),
		llm.NewOpenRouterProvider(cfg.OpenRouter),
		llm.NewMistralProvider(cfg.Mistral),
		llm.NewHuggingFaceProvider(cfg.HuggingFace),
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
