package repository

import (
	"context"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// Submission defines the narrow submission access this core needs
type Submission interface {
	// GetActiveByHost returns the host's currently tracked submission,
	// or domain.ErrSubmissionNotFound.
	GetActiveByHost(ctx context.Context, hostID string) (*domain.Submission, error)
	// SetWindowMetrics stores the flush window's average viewer count
	// and implicit-poll win percentage. Either may be nil when the
	// window collected no samples or no votes; nil leaves the stored
	// value untouched.
	SetWindowMetrics(ctx context.Context, submissionID string, avgViewers, winPercent *float64) error
}
