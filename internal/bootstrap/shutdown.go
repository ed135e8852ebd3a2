package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/monitor"
	"github.com/kalevra/GiftRally_Go/internal/scheduler"
	"github.com/kalevra/GiftRally_Go/internal/server"
	"github.com/kalevra/GiftRally_Go/internal/sse"
	"github.com/kalevra/GiftRally_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server         *server.Server
	MonitorService monitor.Service
	RoleSyncWorker *worker.RoleSyncWorker
	Scheduler      *scheduler.Scheduler
	WorkerPool     *worker.Pool
	SSEHub         *sse.Hub
	DBPool         *pgxpool.Pool
}

// GracefulShutdown stops all application components in order:
// 1. HTTP server (stop accepting new requests)
// 2. Handle monitors (disconnect streams, final flush, close sessions)
// 3. Role sync worker (finish the in-flight batch)
// 4. Scheduler and worker pool (no new jobs, drain the queue)
// 5. SSE hub (drop overlay clients)
// 6. Database pool
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	// Monitors write their final flush before the pool closes
	if components.MonitorService != nil {
		components.MonitorService.StopAll(ctx)
		slog.Info(LogMsgMonitorsStopped)
	}

	if components.RoleSyncWorker != nil {
		if err := components.RoleSyncWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWorkerShutdownFailed, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.SSEHub != nil {
		components.SSEHub.Stop()
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgShutdownComplete)
}
