package repository

import (
	"context"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// Queue is the narrow surface of the submission-queue collaborator this
// core consumes: list the free (non-paid-priority) entries for the
// lottery, and grant a free skip to a winner. Queue ordering, merging
// and display belong to the queue service, not here.
type Queue interface {
	ListFreeEntries(ctx context.Context, hostID string) ([]domain.Submission, error)
	ApplyFreeSkip(ctx context.Context, hostID, userID string) error
}
