package goal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/concurrency"
	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/metrics"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// Service drives community goals: contributions, dynamic target
// scaling, cooldown suppression and the free-queue lottery on
// completion.
type Service interface {
	// Contribute applies a single event's amount to the (host, type)
	// goal. An empty contributorID credits progress without a ticket.
	Contribute(ctx context.Context, hostID string, goalType domain.GoalType, amount int64, contributorID string) error
	// ContributeBatch applies a pre-summed flush window total together
	// with the per-contributor breakdown in one pass.
	ContributeBatch(ctx context.Context, hostID string, goalType domain.GoalType, total int64, contributions map[string]int64) error
	// ExtendCooldown pushes every stored goal-type cooldown for the
	// host further out by minutes, starting a fresh one where none is
	// running.
	ExtendCooldown(ctx context.Context, hostID string, minutes int) error
	// ListByHost returns the host's stored goal states
	ListByHost(ctx context.Context, hostID string) ([]domain.CommunityGoal, error)
	// Forget drops the host's cached goal state so a later restart
	// reloads from storage.
	Forget(hostID string)
}

type service struct {
	goals    repository.Goal
	sessions repository.Session
	queue    repository.Queue
	bus      event.Bus
	locks    *concurrency.LockManager

	cooldownMinutes int

	cacheMu sync.Mutex
	cache   map[string]*domain.CommunityGoal

	now  func() time.Time
	pick func(n int) int
}

// NewService creates a new goal service. cooldownMinutes is the global
// post-lottery cooldown, overridable per host via the goal config blob.
func NewService(goals repository.Goal, sessions repository.Session, queue repository.Queue, bus event.Bus, locks *concurrency.LockManager, cooldownMinutes int) Service {
	return &service{
		goals:           goals,
		sessions:        sessions,
		queue:           queue,
		bus:             bus,
		locks:           locks,
		cooldownMinutes: cooldownMinutes,
		cache:           make(map[string]*domain.CommunityGoal),
		now:             time.Now,
		pick:            rand.Intn,
	}
}

func (s *service) Contribute(ctx context.Context, hostID string, goalType domain.GoalType, amount int64, contributorID string) error {
	var contributions map[string]int64
	if contributorID != "" {
		contributions = map[string]int64{contributorID: amount}
	}
	return s.apply(ctx, hostID, goalType, amount, contributions)
}

func (s *service) ContributeBatch(ctx context.Context, hostID string, goalType domain.GoalType, total int64, contributions map[string]int64) error {
	return s.apply(ctx, hostID, goalType, total, contributions)
}

// apply serializes all contribution paths for one (host, type) key so
// an immediate per-event call and a concurrent flush batch never race
// the same read-modify-write.
func (s *service) apply(ctx context.Context, hostID string, goalType domain.GoalType, total int64, contributions map[string]int64) error {
	log := logger.FromContext(ctx)

	if hostID == "" {
		return fmt.Errorf(ErrMsgHostIDRequired)
	}
	if _, ok := defaultTypeConfigs[goalType]; !ok {
		log.Warn(LogMsgUnknownGoalType, "goal_type", string(goalType), "host_id", hostID)
		return nil
	}
	if total <= 0 {
		return nil
	}

	key := goalKey(hostID, goalType)
	return s.locks.WithLock(key, func() error {
		g, err := s.load(ctx, hostID, goalType)
		if err != nil {
			return err
		}

		now := s.now()
		if g.OnCooldown(now) {
			metrics.GoalContributionsDropped.WithLabelValues(string(goalType)).Inc()
			log.Debug(LogMsgContributionDropped,
				"host_id", hostID, "goal_type", string(goalType), "amount", total)
			s.store(key, g)
			return nil
		}

		g.Progress += total
		for contributorID, amount := range contributions {
			if contributorID == "" || amount <= 0 {
				continue
			}
			g.Tickets[contributorID] += amount
		}

		if g.Progress >= g.Target {
			return s.completeGoal(ctx, key, g, now)
		}

		g.UpdatedAt = now
		s.store(key, g)
		if err := s.goals.Upsert(ctx, g); err != nil {
			return fmt.Errorf(ErrMsgPersistFailed, err)
		}
		s.publish(ctx, event.NewGoalProgressEvent(g))
		return nil
	})
}

// completeGoal runs the lottery and resets the goal. The winner is
// picked uniformly from the free queue; tickets are intentionally not
// weighted into the draw.
func (s *service) completeGoal(ctx context.Context, key string, g *domain.CommunityGoal, now time.Time) error {
	log := logger.FromContext(ctx)

	winner := s.drawWinner(ctx, g)
	metrics.LotteriesDrawn.WithLabelValues(string(g.Type)).Inc()

	base, desc, cooldownMinutes := s.mergedConfig(ctx, g.HostID, g.Type)
	g.Target = scaledTarget(base, s.currentViewers(ctx, g.HostID))
	g.Description = fmt.Sprintf(desc, g.Target)
	g.Progress = 0
	g.Tickets = make(map[string]int64)
	cooldownUntil := now.Add(time.Duration(cooldownMinutes) * time.Minute)
	g.CooldownUntil = &cooldownUntil
	g.UpdatedAt = now

	s.store(key, g)
	if err := s.goals.Upsert(ctx, g); err != nil {
		return fmt.Errorf(ErrMsgPersistFailed, err)
	}

	if winner != nil {
		log.Info(LogMsgLotteryWinner,
			"host_id", g.HostID, "goal_type", string(g.Type),
			"winner_user_id", winner.UserID, "submission_id", winner.ID)
		s.publish(ctx, event.NewLotteryWinnerEvent(g.HostID, g.Type, winner.UserID, winner.ID))
	}
	s.publish(ctx, event.NewGoalResetEvent(g))
	return nil
}

// drawWinner returns the free-queue entry granted the skip, or nil
// when the queue is empty or the skip could not be applied.
func (s *service) drawWinner(ctx context.Context, g *domain.CommunityGoal) *domain.Submission {
	log := logger.FromContext(ctx)

	entries, err := s.queue.ListFreeEntries(ctx, g.HostID)
	if err != nil {
		log.Warn("Failed to list free queue entries", "host_id", g.HostID, "error", err)
		return nil
	}
	if len(entries) == 0 {
		log.Info(LogMsgLotteryEmptyQueue, "host_id", g.HostID, "goal_type", string(g.Type))
		return nil
	}

	winner := entries[s.pick(len(entries))]
	if err := s.queue.ApplyFreeSkip(ctx, g.HostID, winner.UserID); err != nil {
		log.Error(LogMsgFreeSkipFailed,
			"host_id", g.HostID, "user_id", winner.UserID, "error", err)
		return nil
	}
	return &winner
}

func (s *service) ExtendCooldown(ctx context.Context, hostID string, minutes int) error {
	if hostID == "" {
		return fmt.Errorf(ErrMsgHostIDRequired)
	}

	// Every goal type gets the pause, including types the host has no
	// stored state for yet; load initializes those on first contact.
	extension := time.Duration(minutes) * time.Minute
	for _, goalType := range domain.AllGoalTypes {
		key := goalKey(hostID, goalType)
		err := s.locks.WithLock(key, func() error {
			g, err := s.load(ctx, hostID, goalType)
			if err != nil {
				return err
			}
			now := s.now()
			var until time.Time
			if g.OnCooldown(now) {
				until = g.CooldownUntil.Add(extension)
			} else {
				until = now.Add(extension)
			}
			g.CooldownUntil = &until
			g.UpdatedAt = now
			s.store(key, g)
			if err := s.goals.Upsert(ctx, g); err != nil {
				return fmt.Errorf(ErrMsgPersistFailed, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) ListByHost(ctx context.Context, hostID string) ([]domain.CommunityGoal, error) {
	goals, err := s.goals.ListByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListGoalsFailed, err)
	}
	return goals, nil
}

func (s *service) Forget(hostID string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	for _, goalType := range domain.AllGoalTypes {
		delete(s.cache, goalKey(hostID, goalType))
	}
}

// load returns the live goal state for (host, type), loading from
// storage on a cache miss and lazily initializing on first contact.
func (s *service) load(ctx context.Context, hostID string, goalType domain.GoalType) (*domain.CommunityGoal, error) {
	key := goalKey(hostID, goalType)

	s.cacheMu.Lock()
	g, ok := s.cache[key]
	s.cacheMu.Unlock()
	if ok {
		return g, nil
	}

	g, err := s.goals.Get(ctx, hostID, goalType)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadGoalFailed, err)
	}
	if g == nil {
		g = s.initialize(ctx, hostID, goalType)
	}
	if g.Tickets == nil {
		g.Tickets = make(map[string]int64)
	}
	s.store(key, g)
	return g, nil
}

func (s *service) initialize(ctx context.Context, hostID string, goalType domain.GoalType) *domain.CommunityGoal {
	base, desc, _ := s.mergedConfig(ctx, hostID, goalType)
	target := scaledTarget(base, s.currentViewers(ctx, hostID))

	g := &domain.CommunityGoal{
		HostID:      hostID,
		Type:        goalType,
		Description: fmt.Sprintf(desc, target),
		Target:      target,
		Tickets:     make(map[string]int64),
		Active:      true,
		UpdatedAt:   s.now(),
	}
	logger.FromContext(ctx).Info(LogMsgGoalInitialized,
		"host_id", hostID, "goal_type", string(goalType), "target", target)
	return g
}

// mergedConfig resolves the base target, description template and
// cooldown minutes for (host, type): host overrides on top of global
// defaults. Config load failures fall back to defaults.
func (s *service) mergedConfig(ctx context.Context, hostID string, goalType domain.GoalType) (int64, string, int) {
	typeConfig := defaultTypeConfigs[goalType]
	cooldownMinutes := s.cooldownMinutes

	cfg, err := s.goals.GetConfig(ctx, hostID)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to load goal config, using defaults",
			"host_id", hostID, "error", err)
		return typeConfig.BaseTarget, typeConfig.Description, cooldownMinutes
	}
	if cfg != nil {
		if cfg.CooldownMinutes > 0 {
			cooldownMinutes = cfg.CooldownMinutes
		}
		if override, ok := cfg.Overrides[goalType]; ok {
			if override.BaseTarget > 0 {
				typeConfig.BaseTarget = override.BaseTarget
			}
			if override.Description != "" {
				typeConfig.Description = override.Description
			}
		}
	}
	return typeConfig.BaseTarget, typeConfig.Description, cooldownMinutes
}

// currentViewers reads the host's open session peak. No open session
// means no scaling.
func (s *service) currentViewers(ctx context.Context, hostID string) int {
	session, err := s.sessions.GetOpenByOwner(ctx, hostID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			logger.FromContext(ctx).Warn("Failed to load open session for target scaling",
				"host_id", hostID, "error", err)
		}
		return 0
	}
	return session.MaxViewers
}

func (s *service) store(key string, g *domain.CommunityGoal) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[key] = g
}

// publish is best effort: a broadcast failure never fails the
// contribution that produced it.
func (s *service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed,
			"event_type", string(e.Type), "error", err)
	}
}

func goalKey(hostID string, goalType domain.GoalType) string {
	return hostID + ":" + string(goalType)
}
