package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mwdb "github.com/moodwatch/moodwatch-backend/internal/data/db"
	mwhttp "github.com/moodwatch/moodwatch-backend/internal/http"
	"github.com/moodwatch/moodwatch-backend/internal/jobs"
	"github.com/moodwatch/moodwatch-backend/internal/observability"
	"github.com/moodwatch/moodwatch-backend/internal/platform/envutil"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Jobs     Jobs
	Queue    *jobs.Queue
	Metrics  *observability.Metrics

	pg           *mwdb.PostgresService
	server       *mwhttp.Server
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	pg, err := mwdb.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	queue := jobs.NewQueue("default", cfg.JobQueueSize, log, metrics)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, metrics, reposet, clients, queue)
	jobset, err := wireJobs(log, cfg, metrics, queue, serviceset)
	if err != nil {
		clients.Close()
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, otelShutdown != nil, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Jobs:         jobset,
		Queue:        queue,
		Metrics:      metrics,
		pg:           pg,
		server:       &mwhttp.Server{Engine: router},
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Jobs.Worker != nil {
		a.Jobs.Worker.Start(ctx)
	}
	if a.Jobs.Sweep != nil {
		a.Jobs.Sweep.Start(ctx)
	}
	if a.Metrics != nil {
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.server.Run(addr)
}

// Close stops intake first, then lets queued jobs drain for a bounded time.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.Log.Warn("HTTP shutdown", "error", err)
		}
	}
	if a.Jobs.Sweep != nil {
		a.Jobs.Sweep.Stop()
	}
	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.Jobs.Worker != nil {
		if err := a.Jobs.Worker.Wait(ctx); err != nil {
			a.Log.Warn("Job worker did not drain", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	a.Clients.Close()
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
