package domain

import "time"

// GoalType identifies which engagement metric a community goal counts
type GoalType string

const (
	GoalLikes    GoalType = "LIKES"
	GoalDiamonds GoalType = "DIAMONDS"
	GoalComments GoalType = "COMMENTS"
	GoalShares   GoalType = "SHARES"
)

// AllGoalTypes lists every goal type a host can run
var AllGoalTypes = []GoalType{GoalLikes, GoalDiamonds, GoalComments, GoalShares}

// CommunityGoal is the per-(host, type) goal state. Tickets accumulate a
// contributor's total amount; progress counts everything outside cooldown
// windows. Reaching Target triggers the lottery and a reset.
type CommunityGoal struct {
	HostID        string
	Type          GoalType
	Description   string
	Target        int64
	Progress      int64
	Tickets       map[string]int64
	Active        bool
	CooldownUntil *time.Time
	UpdatedAt     time.Time
}

// OnCooldown reports whether contributions are currently suppressed
func (g *CommunityGoal) OnCooldown(now time.Time) bool {
	return g.CooldownUntil != nil && now.Before(*g.CooldownUntil)
}

// GoalTypeConfig is the per-type target and description template
type GoalTypeConfig struct {
	BaseTarget  int64  `json:"base_target"`
	Description string `json:"description"`
}

// GoalConfig is a host's goal configuration blob: per-type overrides
// merged onto global defaults at goal initialization.
type GoalConfig struct {
	Overrides       map[GoalType]GoalTypeConfig `json:"overrides,omitempty"`
	CooldownMinutes int                         `json:"cooldown_minutes,omitempty"`
}
