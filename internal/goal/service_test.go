package goal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalevra/GiftRally_Go/internal/concurrency"
	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/event"
)

type fakeGoalRepo struct {
	mu      sync.Mutex
	goals   map[string]domain.CommunityGoal
	config  *domain.GoalConfig
	upserts int
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[string]domain.CommunityGoal)}
}

func (f *fakeGoalRepo) Get(ctx context.Context, hostID string, goalType domain.GoalType) (*domain.CommunityGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.goals[hostID+":"+string(goalType)]
	if !ok {
		return nil, nil
	}
	copied := g
	return &copied, nil
}

func (f *fakeGoalRepo) Upsert(ctx context.Context, goal *domain.CommunityGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.goals[goal.HostID+":"+string(goal.Type)] = *goal
	return nil
}

func (f *fakeGoalRepo) ListByHost(ctx context.Context, hostID string) ([]domain.CommunityGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CommunityGoal
	for _, g := range f.goals {
		if g.HostID == hostID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) GetConfig(ctx context.Context, hostID string) (*domain.GoalConfig, error) {
	return f.config, nil
}

type fakeSessionRepo struct {
	session *domain.LiveSession
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.LiveSession) error {
	return nil
}

func (f *fakeSessionRepo) GetOpenByOwner(ctx context.Context, ownerID string) (*domain.LiveSession, error) {
	if f.session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return f.session, nil
}

func (f *fakeSessionRepo) CloseAllOpen(ctx context.Context, ownerID string, endedAt time.Time) (int, error) {
	return 0, nil
}

func (f *fakeSessionRepo) AddTotals(ctx context.Context, sessionID string, likes, diamonds int64, windowMaxViewers int) error {
	return nil
}

type fakeQueueRepo struct {
	entries []domain.Submission
	skipped []string
	listErr error
}

func (f *fakeQueueRepo) ListFreeEntries(ctx context.Context, hostID string) ([]domain.Submission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeQueueRepo) ApplyFreeSkip(ctx context.Context, hostID, userID string) error {
	f.skipped = append(f.skipped, userID)
	return nil
}

type busRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *busRecorder) Publish(ctx context.Context, e event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *busRecorder) Subscribe(eventType event.Type, handler event.Handler) {}

func (b *busRecorder) byType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	svc      *service
	repo     *fakeGoalRepo
	sessions *fakeSessionRepo
	queue    *fakeQueueRepo
	bus      *busRecorder
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     newFakeGoalRepo(),
		sessions: &fakeSessionRepo{},
		queue:    &fakeQueueRepo{},
		bus:      &busRecorder{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc := NewService(env.repo, env.sessions, env.queue, env.bus, concurrency.NewLockManager(), 5)
	env.svc = svc.(*service)
	env.svc.now = func() time.Time { return env.now }
	env.svc.pick = func(n int) int { return 0 }
	return env
}

func TestScaledTarget(t *testing.T) {
	tests := []struct {
		name    string
		base    int64
		viewers int
		want    int64
	}{
		{"tiny room keeps base", 1000, 10, 1000},
		{"boundary stays unscaled", 1000, 50, 1000},
		{"small room", 1000, 51, 1500},
		{"medium room", 1000, 201, 2000},
		{"large room", 1000, 600, 3000},
		{"huge room", 1000, 1001, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scaledTarget(tt.base, tt.viewers))
		})
	}
}

func TestContribute_AccumulatesProgressAndTickets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 100, "viewerA"))
	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 50, "viewerB"))
	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 25, ""))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, int64(175), g.Progress)
	assert.Equal(t, int64(100), g.Tickets["viewerA"])
	assert.Equal(t, int64(50), g.Tickets["viewerB"])
	assert.Len(t, g.Tickets, 2)

	assert.Len(t, env.bus.byType(event.GoalProgress), 3)
}

func TestContribute_InitExceedsTargetFiresLottery(t *testing.T) {
	env := newTestEnv(t)
	env.queue.entries = []domain.Submission{
		{ID: "sub1", HostID: "host1", UserID: "viewerB"},
		{ID: "sub2", HostID: "host1", UserID: "viewerC"},
	}
	ctx := context.Background()

	// No LIKES goal exists yet; viewer count is 0, so the lazily
	// initialized target is the unscaled base of 10000.
	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 12000, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, int64(0), g.Progress)
	assert.Empty(t, g.Tickets)
	assert.Equal(t, int64(10000), g.Target)
	require.NotNil(t, g.CooldownUntil)
	assert.Equal(t, env.now.Add(5*time.Minute), *g.CooldownUntil)

	assert.Equal(t, []string{"viewerB"}, env.queue.skipped)

	winners := env.bus.byType(event.GoalLotteryWinner)
	require.Len(t, winners, 1)
	payload := winners[0].Payload.(event.LotteryWinnerPayloadV1)
	assert.Equal(t, "viewerB", payload.WinnerUserID)
	assert.Equal(t, "sub1", payload.SubmissionID)

	assert.Len(t, env.bus.byType(event.GoalReset), 1)
	assert.Empty(t, env.bus.byType(event.GoalProgress))
}

func TestContribute_ScaledInitialTarget(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &domain.LiveSession{OwnerID: "host1", MaxViewers: 600}
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalDiamonds, 10, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalDiamonds)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, int64(15000), g.Target, "5000 base at 600 viewers scales 3x")
}

func TestContribute_CooldownDropsEverything(t *testing.T) {
	env := newTestEnv(t)
	cooldownUntil := env.now.Add(3 * time.Minute)
	env.repo.goals["host1:LIKES"] = domain.CommunityGoal{
		HostID: "host1", Type: domain.GoalLikes, Target: 10000, Progress: 500,
		Tickets: map[string]int64{"viewerA": 500}, Active: true,
		CooldownUntil: &cooldownUntil,
	}
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 250, "viewerB"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(500), g.Progress)
	assert.NotContains(t, g.Tickets, "viewerB")
	assert.Empty(t, env.bus.events)
	assert.Zero(t, env.repo.upserts)
}

func TestContribute_ResumesAfterCooldownExpires(t *testing.T) {
	env := newTestEnv(t)
	cooldownUntil := env.now.Add(-time.Second)
	env.repo.goals["host1:LIKES"] = domain.CommunityGoal{
		HostID: "host1", Type: domain.GoalLikes, Target: 10000,
		Tickets: map[string]int64{}, Active: true, CooldownUntil: &cooldownUntil,
	}
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 100, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(100), g.Progress)
}

func TestContribute_EmptyFreeQueueStillResets(t *testing.T) {
	env := newTestEnv(t)
	env.repo.goals["host1:SHARES"] = domain.CommunityGoal{
		HostID: "host1", Type: domain.GoalShares, Target: 500, Progress: 499,
		Tickets: map[string]int64{}, Active: true,
	}
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalShares, 1, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalShares)
	require.NoError(t, err)
	assert.Equal(t, int64(0), g.Progress)
	require.NotNil(t, g.CooldownUntil)

	assert.Empty(t, env.queue.skipped)
	assert.Empty(t, env.bus.byType(event.GoalLotteryWinner))
	assert.Len(t, env.bus.byType(event.GoalReset), 1)
}

func TestContributeBatch_AppliesContributorMap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	contributions := map[string]int64{"viewerA": 60, "viewerB": 40}
	require.NoError(t, env.svc.ContributeBatch(ctx, "host1", domain.GoalLikes, 100, contributions))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(100), g.Progress)
	assert.Equal(t, int64(60), g.Tickets["viewerA"])
	assert.Equal(t, int64(40), g.Tickets["viewerB"])
}

func TestContribute_HostConfigOverrides(t *testing.T) {
	env := newTestEnv(t)
	env.repo.config = &domain.GoalConfig{
		Overrides: map[domain.GoalType]domain.GoalTypeConfig{
			domain.GoalLikes: {BaseTarget: 200, Description: "Custom goal: %d"},
		},
		CooldownMinutes: 10,
	}
	env.queue.entries = []domain.Submission{{ID: "sub1", UserID: "viewerB"}}
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 200, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, "Custom goal: 200", g.Description)
	require.NotNil(t, g.CooldownUntil)
	assert.Equal(t, env.now.Add(10*time.Minute), *g.CooldownUntil)
}

func TestContribute_UnknownGoalTypeSkipped(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.svc.Contribute(context.Background(), "host1", domain.GoalType("FOLLOWS"), 10, "viewerA"))
	assert.Empty(t, env.repo.goals)
	assert.Empty(t, env.bus.events)
}

func TestContribute_EmptyHostID(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.svc.Contribute(context.Background(), "", domain.GoalLikes, 10, "viewerA"))
}

func TestExtendCooldown(t *testing.T) {
	env := newTestEnv(t)
	running := env.now.Add(2 * time.Minute)
	env.repo.goals["host1:LIKES"] = domain.CommunityGoal{
		HostID: "host1", Type: domain.GoalLikes, Target: 10000,
		Tickets: map[string]int64{}, Active: true, CooldownUntil: &running,
	}
	env.repo.goals["host1:DIAMONDS"] = domain.CommunityGoal{
		HostID: "host1", Type: domain.GoalDiamonds, Target: 5000,
		Tickets: map[string]int64{}, Active: true,
	}
	ctx := context.Background()

	require.NoError(t, env.svc.ExtendCooldown(ctx, "host1", 4))

	likes, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	require.NotNil(t, likes.CooldownUntil)
	assert.Equal(t, running.Add(4*time.Minute), *likes.CooldownUntil, "running cooldown is pushed out")

	diamonds, err := env.repo.Get(ctx, "host1", domain.GoalDiamonds)
	require.NoError(t, err)
	require.NotNil(t, diamonds.CooldownUntil)
	assert.Equal(t, env.now.Add(4*time.Minute), *diamonds.CooldownUntil, "idle goal starts a fresh cooldown")
}

func TestExtendCooldown_CoversGoalsWithoutStoredState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Nothing stored for the host yet: every type still gets paused.
	require.NoError(t, env.svc.ExtendCooldown(ctx, "host1", 10))

	for _, goalType := range domain.AllGoalTypes {
		g, err := env.repo.Get(ctx, "host1", goalType)
		require.NoError(t, err)
		require.NotNil(t, g, "goal %s was initialized", goalType)
		require.NotNil(t, g.CooldownUntil)
		assert.Equal(t, env.now.Add(10*time.Minute), *g.CooldownUntil)
	}

	env.now = env.now.Add(time.Minute)
	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 500, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(0), g.Progress, "contributions during the pause are dropped")
}

func TestForget_DropsCacheSoStateReloads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 100, "viewerA"))

	// Mutate storage behind the cache, then forget: the next
	// contribution must see the stored state, not the cached one.
	stored := env.repo.goals["host1:LIKES"]
	stored.Progress = 9000
	env.repo.goals["host1:LIKES"] = stored
	env.svc.Forget("host1")

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 50, "viewerA"))
	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(9050), g.Progress)
}

func TestContribute_QueueListErrorStillResets(t *testing.T) {
	env := newTestEnv(t)
	env.queue.listErr = errors.New("queue down")
	env.repo.goals["host1:LIKES"] = domain.CommunityGoal{
		HostID: "host1", Type: domain.GoalLikes, Target: 100, Progress: 99,
		Tickets: map[string]int64{}, Active: true,
	}
	ctx := context.Background()

	require.NoError(t, env.svc.Contribute(ctx, "host1", domain.GoalLikes, 1, "viewerA"))

	g, err := env.repo.Get(ctx, "host1", domain.GoalLikes)
	require.NoError(t, err)
	assert.Equal(t, int64(0), g.Progress)
	assert.Empty(t, env.bus.byType(event.GoalLotteryWinner))
	assert.Len(t, env.bus.byType(event.GoalReset), 1)
}
