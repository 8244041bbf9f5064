package engine

import (
	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// PerformRebirth resets the body in exchange for a permanent multiplier.
// Eligibility (s.CanRebirth) is the caller's check; Engine.Dispatch enforces it.
func PerformRebirth(s game.State) game.State {
	next := s.Clone()

	next.Rebirth.RebirthCount++
	next.Rebirth.TotalMultiplier = rules.RebirthMultiplier(next.Rebirth.RebirthCount)
	next.Rebirth.CurrentGoal *= rules.RebirthGoalFactor

	// Click power survives the reset.
	c := &next.Character
	c.Weight = game.StartWeight
	c.Health = game.StartHealth
	c.Happiness = game.StartHappiness
	c.Energy = game.StartEnergy

	u := &next.Upgrades
	u.AutoEater = rules.HalveLevel(u.AutoEater, 0)
	u.MetabolismBooster = rules.HalveLevel(u.MetabolismBooster, 0)
	u.ClickMultiplier = rules.HalveLevel(u.ClickMultiplier, 1)
	u.HappinessMultiplier = rules.HalveLevel(u.HappinessMultiplier, 1)

	bonus := rules.RebirthCalorieBonus * float64(next.Rebirth.RebirthCount)
	next.Currency.Calories += bonus
	next.Stats.TotalCaloriesEarned += bonus

	updateWeightStage(&next)
	return next
}
