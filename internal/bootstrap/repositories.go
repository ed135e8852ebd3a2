package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/database/postgres"
	"github.com/kalevra/GiftRally_Go/internal/eventlog"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	User        repository.User
	Session     repository.Session
	Submission  repository.Submission
	Achievement repository.Achievement
	Goal        repository.Goal
	Queue       repository.Queue
	EventLog    eventlog.Repository
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        postgres.NewUserRepository(dbPool),
		Session:     postgres.NewSessionRepository(dbPool),
		Submission:  postgres.NewSubmissionRepository(dbPool),
		Achievement: postgres.NewAchievementRepository(dbPool),
		Goal:        postgres.NewGoalRepository(dbPool),
		Queue:       postgres.NewQueueRepository(dbPool),
		EventLog:    postgres.NewEventLogRepository(dbPool),
	}
}
