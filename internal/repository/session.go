package repository

import (
	"context"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// Session defines the interface for live-session data access
type Session interface {
	Create(ctx context.Context, session *domain.LiveSession) error
	// GetOpenByOwner returns the owner's LIVE session, or
	// domain.ErrSessionNotFound when none is open.
	GetOpenByOwner(ctx context.Context, ownerID string) (*domain.LiveSession, error)
	// CloseAllOpen ends every LIVE session for the owner and returns how
	// many rows were closed. Used both on disconnect and to supersede
	// sessions left open by a crash.
	CloseAllOpen(ctx context.Context, ownerID string, endedAt time.Time) (int, error)
	// AddTotals adds window totals to a session and raises its max
	// concurrent viewer count if the window peak is higher.
	AddTotals(ctx context.Context, sessionID string, likes, diamonds int64, windowMaxViewers int) error
}
