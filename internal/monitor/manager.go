package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/buffer"
	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/flush"
	"github.com/kalevra/GiftRally_Go/internal/goal"
	"github.com/kalevra/GiftRally_Go/internal/livesource"
	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// Service supervises live-source monitoring per handle
type Service interface {
	// Start begins monitoring a handle. It blocks until the first
	// connection succeeds or fails terminally and is idempotent:
	// starting an already-monitored handle returns
	// domain.ErrAlreadyMonitored.
	Start(ctx context.Context, handle string, persistent bool) error
	// Stop cancels a handle's supervisor, its flush ticker, and
	// discards its buffer and cached goal state.
	Stop(ctx context.Context, handle string) error
	// Status snapshots every supervised handle
	Status(ctx context.Context) []domain.MonitorStatus
	// StopAll stops every supervised handle, used at shutdown
	StopAll(ctx context.Context)
}

// Manager owns the handle registry and wires each supervisor to the
// shared collaborators.
type Manager struct {
	client   livesource.Client
	users    repository.User
	sessions repository.Session
	buffers  *buffer.Registry
	flush    *flush.Pipeline
	goals    goal.Service
	bus      event.Bus
	delays   retryDelays

	mu          sync.Mutex
	supervisors map[string]*supervisor
}

// NewManager creates a monitor manager
func NewManager(client livesource.Client, users repository.User, sessions repository.Session, buffers *buffer.Registry, flushPipeline *flush.Pipeline, goals goal.Service, bus event.Bus) *Manager {
	return &Manager{
		client:      client,
		users:       users,
		sessions:    sessions,
		buffers:     buffers,
		flush:       flushPipeline,
		goals:       goals,
		bus:         bus,
		delays:      defaultRetryDelays,
		supervisors: make(map[string]*supervisor),
	}
}

func (m *Manager) Start(ctx context.Context, handle string, persistent bool) error {
	if handle == "" {
		return fmt.Errorf(ErrMsgHandleRequired)
	}
	log := logger.FromContext(ctx)

	sup := &supervisor{
		info: domain.MonitoredHandle{
			Handle:     handle,
			Persistent: persistent,
			CreatedAt:  time.Now(),
		},
		client:   m.client,
		sessions: m.sessions,
		flush:    m.flush,
		goals:    m.goals,
		bus:      m.bus,
		delays:   m.delays,
		done:     make(chan struct{}),
		firstErr: make(chan error, 1),
	}
	sup.setState(domain.StateConnecting)

	runCtx, cancel := context.WithCancel(context.Background())
	runCtx = logger.WithHandle(runCtx, handle)
	sup.cancel = cancel

	// Reserve the handle before the blocking connect so a concurrent
	// Start for the same handle fails fast.
	m.mu.Lock()
	if _, exists := m.supervisors[handle]; exists {
		m.mu.Unlock()
		return domain.ErrAlreadyMonitored
	}
	m.supervisors[handle] = sup
	m.mu.Unlock()

	owner, err := m.users.GetByHandle(ctx, handle)
	switch {
	case err == nil:
		sup.info.OwnerID = owner.ID
	case errors.Is(err, domain.ErrUserNotFound):
		log.Warn(LogMsgUntrackedHandle, "handle", handle)
	default:
		cancel()
		m.remove(handle)
		close(sup.done)
		return fmt.Errorf("failed to resolve handle owner: %w", err)
	}
	sup.buf = m.buffers.GetOrCreate(handle)

	go func() {
		sup.run(runCtx)
		m.remove(handle)
		m.buffers.Remove(handle)
		if sup.info.OwnerID != "" {
			m.goals.Forget(sup.info.OwnerID)
		}
		cancel()
		close(sup.done)
	}()

	log.Info(LogMsgMonitorStarted, "handle", handle, "persistent", persistent)

	select {
	case err := <-sup.firstErr:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) Stop(ctx context.Context, handle string) error {
	m.mu.Lock()
	sup, ok := m.supervisors[handle]
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotMonitored
	}

	sup.cancel()
	select {
	case <-sup.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	logger.FromContext(ctx).Info(LogMsgMonitorStopped, "handle", handle)
	return nil
}

func (m *Manager) Status(ctx context.Context) []domain.MonitorStatus {
	m.mu.Lock()
	statuses := make([]domain.MonitorStatus, 0, len(m.supervisors))
	for _, sup := range m.supervisors {
		statuses = append(statuses, sup.status())
	}
	m.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Handle < statuses[j].Handle
	})
	return statuses
}

func (m *Manager) StopAll(ctx context.Context) {
	m.mu.Lock()
	handles := make([]string, 0, len(m.supervisors))
	for handle := range m.supervisors {
		handles = append(handles, handle)
	}
	m.mu.Unlock()

	for _, handle := range handles {
		if err := m.Stop(ctx, handle); err != nil && !errors.Is(err, domain.ErrNotMonitored) {
			logger.FromContext(ctx).Warn("Failed to stop handle during shutdown",
				"handle", handle, "error", err)
		}
	}
}

func (m *Manager) remove(handle string) {
	m.mu.Lock()
	delete(m.supervisors, handle)
	m.mu.Unlock()
}
