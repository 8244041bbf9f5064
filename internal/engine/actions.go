package engine

import (
	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/events"
)

// ActionType names a player-triggered transition.
type ActionType string

const (
	ActionInitialize  ActionType = "INITIALIZE"
	ActionClick       ActionType = "CLICK"
	ActionEat         ActionType = "EAT"
	ActionBuyCosmetic ActionType = "BUY_COSMETIC"
	ActionBuyUpgrade  ActionType = "BUY_UPGRADE"
	ActionExercise    ActionType = "EXERCISE"
	ActionRebirth     ActionType = "REBIRTH"
	ActionLottery     ActionType = "LOTTERY"
)

// Action is one request from the presentation layer.
type Action struct {
	Type     ActionType  `json:"type"`
	ItemID   string      `json:"id,omitempty"`
	Name     string      `json:"name,omitempty"`
	Gender   game.Gender `json:"gender,omitempty"`
	SkinTone int         `json:"skinTone,omitempty"`
}

// ActionPayload is attached to the event recorded for an applied action.
// Price is what the action charged; CaloriesDelta also folds in any
// achievement rewards the action triggered.
type ActionPayload struct {
	ItemID        string  `json:"item_id,omitempty"`
	CaloriesDelta float64 `json:"calories_delta"`
	WeightDelta   float64 `json:"weight_delta"`
	Weight        float64 `json:"weight"`
	Calories      float64 `json:"calories"`
	Price         float64 `json:"price,omitempty"`
	Detail        string  `json:"detail,omitempty"`
}

// AchievementPayload is attached to ACHIEVEMENT_UNLOCKED events.
type AchievementPayload struct {
	AchievementID string  `json:"achievement_id"`
	Description   string  `json:"description"`
	Reward        float64 `json:"reward"`
}

var actionEvents = map[ActionType]events.EventType{
	ActionInitialize:  events.EventTypeCharacterCreated,
	ActionClick:       events.EventTypeClick,
	ActionEat:         events.EventTypeFoodEaten,
	ActionBuyCosmetic: events.EventTypeCosmeticBought,
	ActionBuyUpgrade:  events.EventTypeUpgradeBought,
	ActionExercise:    events.EventTypeExercise,
	ActionRebirth:     events.EventTypeRebirth,
	ActionLottery:     events.EventTypeLotteryPlayed,
}

// EventType returns the ledger type recorded for an action.
func (t ActionType) EventType() events.EventType {
	return actionEvents[t]
}
