package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/achievement"
	"github.com/kalevra/GiftRally_Go/internal/bootstrap"
	"github.com/kalevra/GiftRally_Go/internal/buffer"
	"github.com/kalevra/GiftRally_Go/internal/concurrency"
	"github.com/kalevra/GiftRally_Go/internal/config"
	"github.com/kalevra/GiftRally_Go/internal/database"
	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/eventlog"
	"github.com/kalevra/GiftRally_Go/internal/flush"
	"github.com/kalevra/GiftRally_Go/internal/goal"
	"github.com/kalevra/GiftRally_Go/internal/handler"
	"github.com/kalevra/GiftRally_Go/internal/livesource"
	"github.com/kalevra/GiftRally_Go/internal/monitor"
	"github.com/kalevra/GiftRally_Go/internal/scheduler"
	"github.com/kalevra/GiftRally_Go/internal/server"
	"github.com/kalevra/GiftRally_Go/internal/sse"
	"github.com/kalevra/GiftRally_Go/internal/worker"
)

// Database pool sizing
const (
	dbMaxConns    = 10
	dbMaxIdleTime = 30 * time.Minute
	dbMaxLifetime = time.Hour
)

// shutdownTimeout bounds graceful shutdown, final flushes included
const shutdownTimeout = 15 * time.Second

// Background job pool sizing and cadence
const (
	jobWorkers      = 2
	jobQueueSize    = 16
	cleanupInterval = 24 * time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	handler.InitValidator()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	ctx := context.Background()
	if err := bootstrap.SyncAchievementCatalog(ctx, repos.Achievement); err != nil {
		return err
	}

	eventBus := event.NewMemoryBus()
	locks := concurrency.NewLockManager()
	buffers := buffer.NewRegistry()

	achievementService, err := achievement.NewService(repos.Achievement)
	if err != nil {
		return err
	}

	goalService := goal.NewService(repos.Goal, repos.Session, repos.Queue, eventBus, locks, cfg.GoalCooldownMinutes)

	flushPipeline := flush.NewPipeline(repos.User, repos.Session, repos.Submission, achievementService, goalService, cfg.FlushInterval)

	bridge := livesource.NewBridgeClient(cfg.BridgeURL, cfg.BridgePassword)

	monitorService := monitor.NewManager(bridge, repos.User, repos.Session, buffers, flushPipeline, goalService, eventBus)

	eventLogService := eventlog.NewService(repos.EventLog)

	sseHub := sse.NewHub()
	sseHub.Start()
	if err := bootstrap.RegisterEventConsumers(bootstrap.EventConsumerDependencies{
		EventBus:        eventBus,
		SSEHub:          sseHub,
		EventLogService: eventLogService,
	}); err != nil {
		return err
	}

	roleSyncWorker := worker.NewRoleSyncWorker(repos.Achievement, eventBus, worker.DefaultPollInterval)
	roleSyncWorker.Start()

	jobPool := worker.NewPool(jobWorkers, jobQueueSize)
	jobPool.Start()
	sched := scheduler.New(jobPool)
	sched.Schedule(cleanupInterval, eventlog.NewCleanupJob(eventLogService, cfg.EventRetentionDays))

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, dbPool, monitorService, goalService, sseHub)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:         srv,
		MonitorService: monitorService,
		RoleSyncWorker: roleSyncWorker,
		Scheduler:      sched,
		WorkerPool:     jobPool,
		SSEHub:         sseHub,
		DBPool:         dbPool,
	})

	return nil
}
