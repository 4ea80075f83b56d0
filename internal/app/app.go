// Package app assembles stores, services, the stats worker and the HTTP router from config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wedding-site-api/config"
	"wedding-site-api/internal/cache"
	"wedding-site-api/internal/database"
	"wedding-site-api/internal/handler"
	"wedding-site-api/internal/middleware"
	"wedding-site-api/internal/migration"
	"wedding-site-api/internal/queue"
	"wedding-site-api/internal/repository"
	"wedding-site-api/internal/service"
	"wedding-site-api/internal/worker"
	"wedding-site-api/pkg/logger"
	"wedding-site-api/pkg/profanity"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const memoryQueueSize = 1000

type App struct {
	cfg *config.Config

	db   *sql.DB
	pool *pgxpool.Pool
	rdb  *redis.Client

	RsvpService        service.RsvpService
	SongRequestService service.SongRequestService

	eventQueue queue.RsvpEventQueue
	router     *gin.Engine
}

// New 開啟資料庫 (並套用遷移)、選用的 Redis，組出 service 與 router
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	rsvpRepo, songRepo, err := a.openStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	statsCache := cache.NewNopRsvpStatsCache()
	if cfg.Redis.Enabled {
		a.rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		statsCache = cache.NewRedisRsvpStatsCache(a.rdb, cfg.Server.StatsCacheTTL)
	}

	a.eventQueue, err = a.newEventQueue(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.RsvpService = service.NewRsvpService(rsvpRepo, statsCache, a.eventQueue, nil)
	a.SongRequestService = service.NewSongRequestService(songRepo, profanity.NewFilter(), nil)
	a.router = a.newRouter()

	return a, nil
}

func (a *App) openStore() (repository.RsvpRepository, repository.SongRequestRepository, error) {
	log := logger.WithComponent("migration")

	switch a.cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.InitSQLite(&a.cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db

		m, err := migration.NewSQLite(db, log)
		if err != nil {
			return nil, nil, err
		}
		if err := m.Up(); err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteRsvpRepository(db), repository.NewSQLiteSongRequestRepository(db), nil

	case config.DriverPostgres:
		m, err := migration.NewPostgres(&a.cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		defer m.Close()
		if err := m.Up(); err != nil {
			return nil, nil, err
		}

		pool, err := database.InitDatabase(&a.cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.pool = pool
		return repository.NewPostgresRsvpRepository(pool), repository.NewPostgresSongRequestRepository(pool), nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", a.cfg.Database.Driver)
	}
}

// newEventQueue 沒有 Redis 時統計不快取，事件無人消費，改用 NopRsvpEventQueue
func (a *App) newEventQueue(ctx context.Context) (queue.RsvpEventQueue, error) {
	server := a.cfg.Server
	switch server.QueueDriver {
	case config.QueueDriverRedis:
		if a.rdb == nil {
			return nil, errors.New("queue driver redis requires REDIS_ENABLED=true")
		}
		return queue.NewRedisStreamRsvpEventQueue(ctx, a.rdb, "", &queue.RedisStreamConfig{
			ClaimMinIdleTime: server.QueueRetryBackoff,
			MaxRetryCount:    server.QueueMaxRetries,
			MaxLen:           server.QueueStreamMaxLen,
		})
	case config.QueueDriverMemory, "":
		if a.rdb == nil {
			return queue.NewNopRsvpEventQueue(), nil
		}
		return queue.NewMemoryRsvpEventQueue(memoryQueueSize, &queue.MemoryQueueConfig{
			MaxRetryCount: server.QueueMaxRetries,
			RetryBackoff:  server.QueueRetryBackoff,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported queue driver %q", a.cfg.Server.QueueDriver)
	}
}

func (a *App) newRouter() *gin.Engine {
	gin.SetMode(a.cfg.Server.Mode)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger.WithComponent("http")),
		middleware.Recovery(logger.WithComponent("http")),
		middleware.CORS(a.cfg.Server.CORSAllowOrigins),
	)

	handler.RegisterSystemRoutes(router)
	handler.NewRsvpHandler(a.RsvpService).RegisterRoutes(router)
	handler.NewMusicHandler(a.SongRequestService).RegisterRoutes(router)
	return router
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Run 啟動 stats worker 與 HTTP server，ctx 結束後 graceful shutdown
func (a *App) Run(ctx context.Context) error {
	log := logger.WithComponent("server")

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	workerDone, err := a.startStatsWorker(workerCtx)
	if err != nil {
		return fmt.Errorf("failed to start stats worker: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	stopWorker()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn("stats worker did not stop in time")
	}
	return nil
}

// startStatsWorker 只有啟用統計快取 (Redis) 時才需要 worker
func (a *App) startStatsWorker(ctx context.Context) (<-chan struct{}, error) {
	if a.rdb == nil {
		done := make(chan struct{})
		close(done)
		return done, nil
	}
	return worker.NewStatsWorker(a.RsvpService, a.eventQueue).Start(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
}
