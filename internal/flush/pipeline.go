package flush

import (
	"context"
	"errors"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/achievement"
	"github.com/kalevra/GiftRally_Go/internal/buffer"
	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/goal"
	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/metrics"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// Pipeline reconciles drained buffer windows into durable stats and
// fans out into the achievement and goal engines. One Pipeline serves
// all handles; per-handle scheduling happens in Run.
type Pipeline struct {
	users        repository.User
	sessions     repository.Session
	submissions  repository.Submission
	achievements achievement.Service
	goals        goal.Service
	interval     time.Duration
}

// NewPipeline creates a flush pipeline ticking at interval per handle
func NewPipeline(users repository.User, sessions repository.Session, submissions repository.Submission, achievements achievement.Service, goals goal.Service, interval time.Duration) *Pipeline {
	return &Pipeline{
		users:        users,
		sessions:     sessions,
		submissions:  submissions,
		achievements: achievements,
		goals:        goals,
		interval:     interval,
	}
}

// Run drives one handle's flush ticker until ctx is cancelled. A flush
// cycle that outlasts the interval simply misses ticks; flush work is
// never queued.
func (p *Pipeline) Run(ctx context.Context, handle, ownerID string, buf *buffer.Buffer) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	ctx = logger.WithHandle(ctx, handle)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.FlushOnce(ctx, ownerID, buf)
		}
	}
}

// FlushOnce drains the buffer and reconciles one window. The drain
// happens before any write, so a failed write never corrupts buffer
// state; each write stage is isolated and logged on failure.
func (p *Pipeline) FlushOnce(ctx context.Context, ownerID string, buf *buffer.Buffer) {
	snap := buf.Drain()
	if snap.Empty() {
		return
	}
	metrics.FlushCycles.Inc()
	log := logger.FromContext(ctx)

	if err := p.users.AddLifetimeTotals(ctx, ownerID, snap.Likes, snap.Diamonds); err != nil {
		metrics.FlushFailures.WithLabelValues(StageLifetime).Inc()
		log.Error(LogMsgLifetimeWriteFailed, "owner_id", ownerID, "error", err)
	}

	session := p.flushSession(ctx, ownerID, snap)
	p.flushSubmission(ctx, ownerID, snap)
	p.flushGoals(ctx, ownerID, snap)
	p.flushHostAchievements(ctx, ownerID, session, snap)
	p.flushViewerAchievements(ctx, snap)
}

func (p *Pipeline) flushSession(ctx context.Context, ownerID string, snap buffer.Snapshot) *domain.LiveSession {
	log := logger.FromContext(ctx)

	session, err := p.sessions.GetOpenByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			metrics.FlushFailures.WithLabelValues(StageSession).Inc()
			log.Error(LogMsgSessionWriteFailed, "owner_id", ownerID, "error", err)
		}
		return nil
	}

	if err := p.sessions.AddTotals(ctx, session.ID, snap.Likes, snap.Diamonds, snap.SampleMax); err != nil {
		metrics.FlushFailures.WithLabelValues(StageSession).Inc()
		log.Error(LogMsgSessionWriteFailed, "owner_id", ownerID, "session_id", session.ID, "error", err)
		return session
	}

	session.TotalLikes += snap.Likes
	session.TotalDiamonds += snap.Diamonds
	if snap.SampleMax > session.MaxViewers {
		session.MaxViewers = snap.SampleMax
	}
	return session
}

// flushSubmission stores the window's average viewer count on the
// host's active submission, plus the implicit-poll win percentage when
// the window actually collected votes.
func (p *Pipeline) flushSubmission(ctx context.Context, ownerID string, snap buffer.Snapshot) {
	if snap.SampleCount == 0 && snap.PollPositive == 0 && snap.PollNegative == 0 {
		return
	}
	log := logger.FromContext(ctx)

	submission, err := p.submissions.GetActiveByHost(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrSubmissionNotFound) {
			metrics.FlushFailures.WithLabelValues(StageSubmission).Inc()
			log.Error(LogMsgSubmissionWriteFailed, "owner_id", ownerID, "error", err)
		}
		return
	}

	// A window with no viewer samples must not zero out the stored
	// average, and one with no votes must not touch the win percentage.
	var avgViewers *float64
	if snap.SampleCount > 0 {
		avg := snap.AvgViewers()
		avgViewers = &avg
	}
	var winPercent *float64
	if votes := snap.PollPositive + snap.PollNegative; votes > 0 {
		percent := float64(snap.PollPositive) / float64(votes) * 100
		winPercent = &percent
	}

	if err := p.submissions.SetWindowMetrics(ctx, submission.ID, avgViewers, winPercent); err != nil {
		metrics.FlushFailures.WithLabelValues(StageSubmission).Inc()
		log.Error(LogMsgSubmissionWriteFailed, "owner_id", ownerID, "submission_id", submission.ID, "error", err)
	}
}

// flushGoals reconciles the window's likes and diamonds into the goal
// engine in one batch per type, keeping tickets consistent with the
// lifetime totals written above.
func (p *Pipeline) flushGoals(ctx context.Context, ownerID string, snap buffer.Snapshot) {
	log := logger.FromContext(ctx)

	if snap.Likes > 0 {
		likesBy := make(map[string]int64)
		for viewerID, activity := range snap.Viewers {
			if activity.LikesSent > 0 {
				likesBy[viewerID] = activity.LikesSent
			}
		}
		if err := p.goals.ContributeBatch(ctx, ownerID, domain.GoalLikes, snap.Likes, likesBy); err != nil {
			metrics.FlushFailures.WithLabelValues(StageGoal).Inc()
			log.Error(LogMsgGoalBatchFailed, "owner_id", ownerID, "goal_type", string(domain.GoalLikes), "error", err)
		}
	}

	if snap.Diamonds > 0 {
		diamondsBy := make(map[string]int64)
		for viewerID, activity := range snap.Viewers {
			if activity.GiftDiamonds > 0 {
				diamondsBy[viewerID] = activity.GiftDiamonds
			}
		}
		if err := p.goals.ContributeBatch(ctx, ownerID, domain.GoalDiamonds, snap.Diamonds, diamondsBy); err != nil {
			metrics.FlushFailures.WithLabelValues(StageGoal).Inc()
			log.Error(LogMsgGoalBatchFailed, "owner_id", ownerID, "goal_type", string(domain.GoalDiamonds), "error", err)
		}
	}
}

// flushHostAchievements evaluates the owner's stream-level thresholds
// against the freshly written lifetime and session totals.
func (p *Pipeline) flushHostAchievements(ctx context.Context, ownerID string, session *domain.LiveSession, snap buffer.Snapshot) {
	log := logger.FromContext(ctx)

	owner, err := p.users.GetByID(ctx, ownerID)
	if err != nil {
		metrics.FlushFailures.WithLabelValues(StageAchievement).Inc()
		log.Error(LogMsgOwnerReloadFailed, "owner_id", ownerID, "error", err)
		return
	}

	triggers := []struct {
		category string
		value    int64
	}{
		{domain.CategoryStreamLikes, owner.LifetimeLikes},
		{domain.CategoryStreamDiamonds, owner.LifetimeDiamonds},
	}
	if session != nil {
		triggers = append(triggers, struct {
			category string
			value    int64
		}{domain.CategoryMaxViewers, int64(session.MaxViewers)})
	}

	for _, trigger := range triggers {
		value := trigger.value
		if err := p.achievements.Trigger(ctx, ownerID, trigger.category, &value, ""); err != nil {
			metrics.FlushFailures.WithLabelValues(StageAchievement).Inc()
			log.Error(LogMsgHostTriggerFailed, "owner_id", ownerID, "category", trigger.category, "error", err)
		}
	}
}

// flushViewerAchievements evaluates every drained viewer's window
// metrics and chat patterns. One viewer's failure never blocks the
// rest.
func (p *Pipeline) flushViewerAchievements(ctx context.Context, snap buffer.Snapshot) {
	log := logger.FromContext(ctx)

	for viewerID, activity := range snap.Viewers {
		thresholds := []struct {
			category string
			value    int64
		}{
			{domain.CategoryViewerLikes, activity.LikesSent},
			{domain.CategoryViewerGifts, activity.GiftDiamonds},
			{domain.CategoryViewerComments, int64(activity.Messages)},
			{domain.CategoryViewerShares, int64(activity.SharesSent)},
		}
		for _, trigger := range thresholds {
			if trigger.value <= 0 {
				continue
			}
			value := trigger.value
			if err := p.achievements.Trigger(ctx, viewerID, trigger.category, &value, ""); err != nil {
				metrics.FlushFailures.WithLabelValues(StageAchievement).Inc()
				log.Error(LogMsgViewerTriggerFailed, "viewer_id", viewerID, "category", trigger.category, "error", err)
			}
		}

		var patterns []string
		if len(activity.Markers) >= MarkerSetSize {
			patterns = append(patterns, domain.SlugMarkerCollector)
		}
		if activity.SawAllCaps {
			patterns = append(patterns, domain.SlugAllCaps)
		}
		if activity.SawEmojiOnly {
			patterns = append(patterns, domain.SlugEmojiOnly)
		}
		for _, slug := range patterns {
			if err := p.achievements.Trigger(ctx, viewerID, domain.CategoryChatPatterns, nil, slug); err != nil {
				metrics.FlushFailures.WithLabelValues(StageAchievement).Inc()
				log.Error(LogMsgViewerTriggerFailed, "viewer_id", viewerID, "slug", slug, "error", err)
			}
		}
	}
}
