package engine

import (
	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
)

// CheckAchievements completes every achievement whose requirement is met and
// pays its reward. Completion never reverses.
func CheckAchievements(s game.State) game.State {
	next := s
	cloned := false

	for i, a := range s.Achievements {
		if a.Completed {
			continue
		}
		def, ok := item.GetAchievement(a.ID)
		if !ok {
			continue
		}
		if achievementProgress(s, def) < a.Requirement {
			continue
		}

		if !cloned {
			next = s.Clone()
			cloned = true
		}
		next.Achievements[i].Completed = true
		next.Currency.Calories += a.Reward
		next.Stats.TotalCaloriesEarned += a.Reward
	}
	return next
}

// NewlyCompleted lists achievements completed in after but not in before.
func NewlyCompleted(before, after game.State) []game.Achievement {
	done := make(map[string]bool, len(before.Achievements))
	for _, a := range before.Achievements {
		if a.Completed {
			done[a.ID] = true
		}
	}

	var out []game.Achievement
	for _, a := range after.Achievements {
		if a.Completed && !done[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func achievementProgress(s game.State, def item.AchievementDef) float64 {
	switch def.Kind {
	case item.KindClicks:
		return float64(s.Stats.ClickCount)
	case item.KindWeight:
		return s.Character.Weight
	}
	return 0
}
