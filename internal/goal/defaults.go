package goal

import (
	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// defaultTypeConfigs are the global per-type base targets and
// description templates. Host overrides from the goal config blob are
// merged on top at goal initialization.
var defaultTypeConfigs = map[domain.GoalType]domain.GoalTypeConfig{
	domain.GoalLikes: {
		BaseTarget:  10000,
		Description: "Send %d likes to draw a free queue skip!",
	},
	domain.GoalDiamonds: {
		BaseTarget:  5000,
		Description: "Gift %d diamonds to draw a free queue skip!",
	},
	domain.GoalComments: {
		BaseTarget:  2500,
		Description: "Post %d comments to draw a free queue skip!",
	},
	domain.GoalShares: {
		BaseTarget:  500,
		Description: "Share the stream %d times to draw a free queue skip!",
	},
}

// targetMultiplier scales goal targets to the room size so large
// streams do not burn through goals instantly cleared by small rooms.
func targetMultiplier(viewers int) float64 {
	switch {
	case viewers > 1000:
		return 5.0
	case viewers > 500:
		return 3.0
	case viewers > 200:
		return 2.0
	case viewers > 50:
		return 1.5
	default:
		return 1.0
	}
}

func scaledTarget(base int64, viewers int) int64 {
	return int64(float64(base) * targetMultiplier(viewers))
}
