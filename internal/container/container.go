package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lottolab/adapters/api"
	"lottolab/adapters/rng"
	"lottolab/adapters/store"
	"lottolab/app"
	"lottolab/internal"
	"lottolab/internal/config"
	apperrors "lottolab/internal/errors"
	"lottolab/internal/refresh"
	"lottolab/ports"
	"lottolab/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Dialect store.Dialect

	// Repositories (data access layer)
	DrawRepo ports.DrawRepository

	// Application services
	Caches          *app.Caches
	Analysis        *app.AnalysisService
	Statistics      *app.StatisticsService
	Recommendations *app.RecommendationService
	Ingest          *app.IngestService

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{
		Config: cfg,
		logger: internal.DefaultLogger.WithComponent("Container"),
	}, nil
}

// InitWithDatabase opens the configured database, applies migrations when
// enabled and wires the services on top of it
func (c *Container) InitWithDatabase(ctx context.Context) error {
	db, dialect, err := store.Open(ctx, c.Config.Database.URL)
	if err != nil {
		return apperrors.Wrap(err, "failed to open database")
	}
	c.DB = db
	c.Dialect = dialect

	if c.Config.Database.AutoMigrate {
		if err := store.Migrate(db, dialect); err != nil {
			return apperrors.Wrap(err, "database migration failed")
		}
	}

	c.initServices(store.NewDrawRepository(db))
	c.logger.Info("container initialized with %s database", dialect)
	return nil
}

// InitInMemory wires the services over a process-local repository
func (c *Container) InitInMemory() {
	c.initServices(store.NewMemoryRepository())
	c.logger.Info("container initialized with in-memory repository")
}

func (c *Container) initServices(repo ports.DrawRepository) {
	c.DrawRepo = repo
	c.Caches = app.NewCaches()
	c.Analysis = app.NewAnalysisService(repo, c.Caches)
	c.Statistics = app.NewStatisticsService(repo, c.Caches)
	c.Recommendations = app.NewRecommendationService(repo, c.Caches, rng.New())
	c.Ingest = app.NewIngestService(repo, c.Caches)
}

// DefaultAnalysis is the fairness request implied by the configuration
func (c *Container) DefaultAnalysis() app.AnalysisRequest {
	return app.AnalysisRequest{
		IncludeBonus: c.Config.Analysis.IncludeBonus,
		Q:            c.Config.Analysis.FDRLevel,
	}
}

// Refresher re-imports the configured history file
func (c *Container) Refresher() *refresh.Refresher {
	return refresh.New(c.Config.Data.HistoryFile, c.Ingest, c.Analysis, c.DefaultAnalysis())
}

// Serve runs the dashboard, the JSON API and any configured background
// refresh until ctx is cancelled or one of them fails
func (c *Container) Serve(ctx context.Context) error {
	if c.Ingest == nil {
		return fmt.Errorf("container not initialized")
	}
	gin.SetMode(c.Config.Server.GinMode)

	dashboard, err := ui.NewServer(ui.Services{
		Analysis:        c.Analysis,
		Statistics:      c.Statistics,
		Recommendations: c.Recommendations,
		Ingest:          c.Ingest,
		Caches:          c.Caches,
	}, c.Config.Analysis)
	if err != nil {
		return apperrors.Wrap(err, "failed to create dashboard")
	}
	dashboardServer := &http.Server{
		Addr:              ":" + c.Config.Server.Port,
		Handler:           dashboard.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	apiServer := api.NewServer(api.Config{
		Addr:         ":" + c.Config.Server.APIPort,
		RateLimitRPS: c.Config.Server.RateLimitRPS,
		RateBurst:    c.Config.Server.RateBurst,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("dashboard listening on %s", dashboardServer.Addr)
		if err := dashboardServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(apiServer.Start)

	refresher := c.Refresher()
	if c.Config.Refresh.Schedule != "" {
		g.Go(func() error { return refresher.Schedule(ctx, c.Config.Refresh.Schedule) })
	}
	if c.Config.Refresh.Watch {
		g.Go(func() error { return refresher.Watch(ctx, c.Config.Refresh.Debounce) })
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.logger.Info("shutting down servers")
		return errors.Join(dashboardServer.Shutdown(shutdownCtx), apiServer.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
