package engine

import (
	"math"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// InitializeCharacter sets the identity fields and marks the game as started.
// Calling it again overwrites identity only; stats are untouched.
func InitializeCharacter(s game.State, name string, gender game.Gender, skinTone int) game.State {
	next := s.Clone()
	next.Character.Name = name
	next.Character.Gender = gender
	next.Character.SkinTone = skinTone
	next.IsInitialized = true
	return next
}

// ClickCharacter applies one click. It always succeeds.
func ClickCharacter(s game.State) game.State {
	next := s.Clone()
	m := rules.ClickMultiplier(next)

	earned := math.Floor(rules.ClickCalorieFactor * m)
	next.Character.Weight += rules.ClickWeightFactor * m
	next.Currency.Calories += earned
	next.Character.Energy = math.Max(0, next.Character.Energy-rules.ClickEnergyCost)
	next.Stats.ClickCount++
	next.Stats.TotalCaloriesEarned += earned

	updateWeightStage(&next)
	return CheckAchievements(next)
}

// updateWeightStage recomputes the derived stage in place.
func updateWeightStage(s *game.State) {
	s.Character.WeightStage = rules.WeightStage(s.Character.Weight)
}
