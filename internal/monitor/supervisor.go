package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalevra/GiftRally_Go/internal/buffer"
	"github.com/kalevra/GiftRally_Go/internal/chat"
	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/flush"
	"github.com/kalevra/GiftRally_Go/internal/goal"
	"github.com/kalevra/GiftRally_Go/internal/livesource"
	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/metrics"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

type retryDelays struct {
	standard time.Duration
	notFound time.Duration
}

var defaultRetryDelays = retryDelays{
	standard: DefaultRetryDelay,
	notFound: NotFoundRetryDelay,
}

// classifyFailure maps a connect error onto the retry table: the
// metric label, the delay before the next attempt, and whether the
// failure is terminal regardless of remaining attempts.
func classifyFailure(err error, delays retryDelays) (string, time.Duration, bool) {
	switch {
	case errors.Is(err, livesource.ErrUserOffline):
		return FailureKindOffline, 0, true
	case errors.Is(err, livesource.ErrUserNotFound):
		return FailureKindNotFound, delays.notFound, false
	case errors.Is(err, livesource.ErrSignature):
		return FailureKindSignature, delays.standard, false
	default:
		return FailureKindOther, delays.standard, false
	}
}

// supervisor owns one handle's connection lifecycle: connect, retry
// per the failure table, dispatch events into the buffer and goal
// engine, and reconnect forever when the handle is persistent.
type supervisor struct {
	info domain.MonitoredHandle
	buf  *buffer.Buffer

	client   livesource.Client
	sessions repository.Session
	flush    *flush.Pipeline
	goals    goal.Service
	bus      event.Bus
	delays   retryDelays

	mu        sync.Mutex
	state     domain.ConnectionState
	since     time.Time
	sessionID string

	cancel    context.CancelFunc
	done      chan struct{}
	firstOnce sync.Once
	firstErr  chan error
}

func (s *supervisor) setState(state domain.ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.since = time.Now()
}

func (s *supervisor) status() domain.MonitorStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.MonitorStatus{
		Handle:     s.info.Handle,
		OwnerID:    s.info.OwnerID,
		Persistent: s.info.Persistent,
		State:      s.state,
		Since:      s.since,
	}
}

// report delivers the first connect outcome to the caller blocked in
// Start. Later reconnect outcomes are not reported.
func (s *supervisor) report(err error) {
	s.firstOnce.Do(func() {
		s.firstErr <- err
	})
}

// run is the supervisor's connection loop. It returns when the handle
// fails terminally, exhausts its retries, or ctx is cancelled; for
// persistent handles a clean disconnect loops back into a fresh
// attempt.
func (s *supervisor) run(ctx context.Context) {
	defer s.setState(domain.StateStopped)
	log := logger.FromContext(ctx)

	attempts := 0
	for {
		s.setState(domain.StateConnecting)
		stream, err := s.client.Open(ctx, s.info.Handle)
		if err != nil {
			kind, delay, terminal := classifyFailure(err, s.delays)
			metrics.ConnectionRetries.WithLabelValues(kind).Inc()
			attempts++
			log.Warn(LogMsgConnectFailed,
				"handle", s.info.Handle, "kind", kind, "attempt", attempts, "error", err)

			if terminal || attempts >= MaxConnectAttempts || ctx.Err() != nil {
				log.Error(LogMsgRetriesExhausted,
					"handle", s.info.Handle, "kind", kind, "attempts", attempts, "error", err)
				s.report(err)
				return
			}

			s.setState(domain.StateRetrying)
			log.Info(LogMsgRetrying, "handle", s.info.Handle, "delay", delay.String())
			select {
			case <-ctx.Done():
				s.report(ctx.Err())
				return
			case <-time.After(delay):
			}
			continue
		}

		attempts = 0
		s.setState(domain.StateConnected)
		s.report(nil)
		metrics.ActiveConnections.Inc()
		log.Info(LogMsgConnected, "handle", s.info.Handle, "owner_id", s.info.OwnerID)

		s.openSession(ctx)
		flushCtx, stopFlush := context.WithCancel(ctx)
		if s.info.OwnerID != "" {
			go s.flush.Run(flushCtx, s.info.Handle, s.info.OwnerID, s.buf)
		}

		reason := s.consume(ctx, stream)

		stopFlush()
		stream.Close()
		// Drain the tail of the window so a disconnect mid-window does
		// not shed its events. Cleanup writes run on an uncancellable
		// context; they drain, they just never re-arm the ticker.
		cleanupCtx := context.WithoutCancel(ctx)
		if s.info.OwnerID != "" {
			s.flush.FlushOnce(cleanupCtx, s.info.OwnerID, s.buf)
		}
		s.closeSession(cleanupCtx)
		metrics.ActiveConnections.Dec()
		s.setState(domain.StateDisconnected)
		log.Info(LogMsgDisconnected, "handle", s.info.Handle, "reason", reason)

		if !s.info.Persistent || ctx.Err() != nil {
			return
		}
	}
}

// consume dispatches stream events until the stream closes or ctx is
// cancelled, returning the disconnect reason.
func (s *supervisor) consume(ctx context.Context, stream *livesource.Stream) string {
	reason := livesource.ReasonConnectionLost
	for {
		select {
		case <-ctx.Done():
			return "monitoring stopped"
		case ev, ok := <-stream.Events:
			if !ok {
				return reason
			}
			if disconnected, isDisconnect := ev.(livesource.DisconnectedEvent); isDisconnect {
				reason = disconnected.Reason
				continue
			}
			s.handleEvent(ctx, ev)
		}
	}
}

// handleEvent maps one source event into buffer mutations and an
// immediate goal contribution. Nothing here may panic or propagate an
// error; contribution failures are logged and dropped.
func (s *supervisor) handleEvent(ctx context.Context, ev livesource.Event) {
	switch e := ev.(type) {
	case livesource.LikeEvent:
		metrics.SourceEventsIngested.WithLabelValues(EventKindLike).Inc()
		s.buf.AddLikes(e.ViewerID, e.Count)
		s.contribute(ctx, domain.GoalLikes, e.Count, e.ViewerID)

	case livesource.GiftEvent:
		metrics.SourceEventsIngested.WithLabelValues(EventKindGift).Inc()
		// Mid-streak events carry running combo totals; only the
		// terminal event of a streak is accounted.
		if e.Streaking {
			return
		}
		s.buf.AddGift(e.ViewerID, e.Diamonds)
		s.contribute(ctx, domain.GoalDiamonds, e.Diamonds, e.ViewerID)

	case livesource.CommentEvent:
		metrics.SourceEventsIngested.WithLabelValues(EventKindComment).Inc()
		s.buf.AddComment(e.ViewerID, chat.Classify(e.Text))
		s.contribute(ctx, domain.GoalComments, 1, e.ViewerID)

	case livesource.ShareEvent:
		metrics.SourceEventsIngested.WithLabelValues(EventKindShare).Inc()
		s.buf.AddShare(e.ViewerID)
		s.contribute(ctx, domain.GoalShares, 1, e.ViewerID)

	case livesource.ViewerCountEvent:
		metrics.SourceEventsIngested.WithLabelValues(EventKindViewerCount).Inc()
		s.buf.AddViewerSample(e.Total)
	}
}

func (s *supervisor) contribute(ctx context.Context, goalType domain.GoalType, amount int64, contributorID string) {
	if s.info.OwnerID == "" {
		return
	}
	if err := s.goals.Contribute(ctx, s.info.OwnerID, goalType, amount, contributorID); err != nil {
		logger.FromContext(ctx).Warn(LogMsgContributionFailed,
			"handle", s.info.Handle, "goal_type", string(goalType), "error", err)
	}
}

// openSession opens a fresh LIVE session for the owner, superseding
// anything left open by a crash or missed disconnect.
func (s *supervisor) openSession(ctx context.Context) {
	if s.info.OwnerID == "" {
		return
	}
	log := logger.FromContext(ctx)
	now := time.Now()

	closed, err := s.sessions.CloseAllOpen(ctx, s.info.OwnerID, now)
	if err != nil {
		log.Warn(LogMsgSessionOpenFailed, "owner_id", s.info.OwnerID, "error", err)
	} else if closed > 0 {
		log.Info(LogMsgStaleSessionsClosed, "owner_id", s.info.OwnerID, "count", closed)
	}

	session := &domain.LiveSession{
		ID:        uuid.NewString(),
		OwnerID:   s.info.OwnerID,
		Handle:    s.info.Handle,
		Status:    domain.SessionLive,
		StartedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error(LogMsgSessionOpenFailed, "owner_id", s.info.OwnerID, "error", err)
		return
	}

	s.mu.Lock()
	s.sessionID = session.ID
	s.mu.Unlock()

	if err := s.bus.Publish(ctx, event.NewSessionStartedEvent(session)); err != nil {
		log.Warn(LogMsgPublishFailed, "session_id", session.ID, "error", err)
	}
}

func (s *supervisor) closeSession(ctx context.Context) {
	if s.info.OwnerID == "" {
		return
	}
	log := logger.FromContext(ctx)
	now := time.Now()

	if _, err := s.sessions.CloseAllOpen(ctx, s.info.OwnerID, now); err != nil {
		log.Error(LogMsgSessionCloseFailed, "owner_id", s.info.OwnerID, "error", err)
		return
	}

	s.mu.Lock()
	sessionID := s.sessionID
	s.sessionID = ""
	s.mu.Unlock()
	if sessionID == "" {
		return
	}

	ended := &domain.LiveSession{
		ID:      sessionID,
		OwnerID: s.info.OwnerID,
		Handle:  s.info.Handle,
		Status:  domain.SessionEnded,
		EndedAt: &now,
	}
	if err := s.bus.Publish(ctx, event.NewSessionEndedEvent(ended)); err != nil {
		log.Warn(LogMsgPublishFailed, "session_id", sessionID, "error", err)
	}
}
