// Package storage - reconstructor.go
// Action history: turns the stored ledger into a readable timeline.
package storage

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// Reconstructor reads the action ledger back for display.
// This is used for:
// 1. The history panel and `GET /api/history`
// 2. Lifetime totals that the state record does not keep
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new history reader.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RecapEvent is a simplified event for the history screen.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"` // Human-readable description
	Impact    string `json:"impact"`  // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// Totals are lifetime figures rebuilt from the ledger.
type Totals struct {
	Purchases     int     `json:"purchases"`
	CaloriesSpent float64 `json:"calories_spent"`
	LotteryPlays  int     `json:"lottery_plays"`
	LotteryWon    float64 `json:"lottery_won"`
	Rebirths      int     `json:"rebirths"`
	Achievements  int     `json:"achievements"`
}

// GenerateRecap returns the newest limit actions of a save, oldest first.
// Clicks are left out; there are far too many to be interesting.
func (r *Reconstructor) GenerateRecap(ctx context.Context, saveKey string, limit int) ([]RecapEvent, error) {
	events, err := r.eventRepo.GetRecent(ctx, saveKey, limit, "CLICK")
	if err != nil {
		return nil, fmt.Errorf("failed to get events for %s: %w", saveKey, err)
	}

	recap := make([]RecapEvent, 0, len(events))
	for _, e := range events {
		recap = append(recap, RecapEvent{
			Timestamp: e.Timestamp.Format("2006-01-02 15:04:05"),
			EventType: e.EventType,
			Summary:   r.summarizeEvent(e),
			Impact:    r.determineImpact(e),
		})
	}
	return recap, nil
}

// RebuildTotals folds the purchase, lottery and rebirth history of a save.
func (r *Reconstructor) RebuildTotals(ctx context.Context, saveKey string) (*Totals, error) {
	t := &Totals{}
	for _, typ := range []string{"FOOD_EATEN", "COSMETIC_BOUGHT", "UPGRADE_BOUGHT", "LOTTERY_PLAYED", "REBIRTH", "ACHIEVEMENT_UNLOCKED"} {
		events, err := r.eventRepo.GetByEventType(ctx, saveKey, typ)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s events: %w", typ, err)
		}
		for _, e := range events {
			r.applyEventToTotals(t, e)
		}
	}
	return t, nil
}

func (r *Reconstructor) applyEventToTotals(t *Totals, e StoredEvent) {
	switch e.EventType {
	case "FOOD_EATEN", "COSMETIC_BOUGHT", "UPGRADE_BOUGHT":
		t.Purchases++
		t.CaloriesSpent += number(e.Payload, "price")
	case "LOTTERY_PLAYED":
		t.LotteryPlays++
		// delta = prize - ticket
		t.LotteryWon += number(e.Payload, "calories_delta") + ticketPrice(e.Payload)
	case "REBIRTH":
		t.Rebirths++
	case "ACHIEVEMENT_UNLOCKED":
		t.Achievements++
	}
}

// summarizeEvent creates a human-readable summary.
func (r *Reconstructor) summarizeEvent(e StoredEvent) string {
	id, _ := e.Payload["item_id"].(string)
	switch e.EventType {
	case "CHARACTER_CREATED":
		return fmt.Sprintf("Character %s was created.", e.Payload["detail"])
	case "FOOD_EATEN":
		return fmt.Sprintf("Ate %s and gained %s lbs.", id, humanize.Ftoa(number(e.Payload, "weight_delta")))
	case "COSMETIC_BOUGHT":
		return fmt.Sprintf("Bought %s.", id)
	case "UPGRADE_BOUGHT":
		return fmt.Sprintf("Upgraded %s for %s calories.", id, humanize.Commaf(number(e.Payload, "price")))
	case "EXERCISE":
		return fmt.Sprintf("Exercised down to %s lbs.", humanize.Ftoa(number(e.Payload, "weight")))
	case "REBIRTH":
		return "Was reborn with a bigger multiplier."
	case "LOTTERY_PLAYED":
		return fmt.Sprintf("Played the lottery: %s.", e.Payload["detail"])
	case "ACHIEVEMENT_UNLOCKED":
		return fmt.Sprintf("Unlocked %q.", e.Payload["description"])
	default:
		return "Something happened."
	}
}

// determineImpact classifies the event impact.
func (r *Reconstructor) determineImpact(e StoredEvent) string {
	switch e.EventType {
	case "ACHIEVEMENT_UNLOCKED", "REBIRTH":
		return "POSITIVE"
	case "LOTTERY_PLAYED":
		if number(e.Payload, "calories_delta") > 0 {
			return "POSITIVE"
		}
		return "NEGATIVE"
	case "FOOD_EATEN", "COSMETIC_BOUGHT", "UPGRADE_BOUGHT":
		return "POSITIVE"
	default:
		return "NEUTRAL"
	}
}

// ticketPrice falls back to the current ticket price for rows written
// before events carried a price.
func ticketPrice(payload map[string]interface{}) float64 {
	if p := number(payload, "price"); p > 0 {
		return p
	}
	return rules.LotteryCost
}

func number(payload map[string]interface{}, key string) float64 {
	if v, ok := payload[key].(float64); ok {
		return v
	}
	return 0
}
