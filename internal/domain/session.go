package domain

import "time"

// SessionStatus is the lifecycle state of a live session
type SessionStatus string

const (
	SessionLive  SessionStatus = "LIVE"
	SessionEnded SessionStatus = "ENDED"
)

// LiveSession is one broadcasting window for a host. At most one LIVE
// session exists per owner at a time; opening a new one supersedes any
// session left open by a crash or missed disconnect.
type LiveSession struct {
	ID            string
	OwnerID       string
	Handle        string
	Status        SessionStatus
	StartedAt     time.Time
	EndedAt       *time.Time
	TotalLikes    int64
	TotalDiamonds int64
	MaxViewers    int
}

// User is a tracked host or viewer with lifetime engagement totals
type User struct {
	ID               string
	Username         string
	BroadcastHandle  string
	LifetimeLikes    int64
	LifetimeDiamonds int64
	CreatedAt        time.Time
}

// Submission is a queue entry owned by a host's community. Only the
// fields this core reads or writes are modeled; queue ordering and
// merge display live elsewhere.
type Submission struct {
	ID             string
	HostID         string
	UserID         string
	Title          string
	Active         bool
	PaidPriority   bool
	FreeSkips      int
	AvgViewerCount float64
	PollWinPercent float64
	CreatedAt      time.Time
}
