package engine

import (
	"math"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// Idle rates, per tick (one tick per second).
const (
	AutoEaterRate      = 0.1
	HealthRegenRate    = 0.1
	BoostedHealthRegen = 0.2
	EnergyRegenRate    = 0.2
)

// EatFood buys and eats a food item. Unaffordable food is a no-op.
func EatFood(s game.State, food item.Food) game.State {
	if s.Currency.Calories < food.Price {
		return s
	}

	next := s.Clone()
	c := &next.Character

	next.Currency.Calories -= food.Price
	c.Weight += food.WeightGain
	c.Health = rules.ClampStat(c.Health + food.HealthEffect)
	c.Happiness = rules.ClampStat(c.Happiness + food.HappinessEffect*float64(next.Upgrades.HappinessMultiplier))
	c.Energy = rules.ClampStat(c.Energy + food.EnergyEffect)
	next.Stats.FoodsEaten++

	updateWeightStage(&next)
	return CheckAchievements(next)
}

// Exercise burns weight down to a hard floor and restores energy. It is free.
func Exercise(s game.State) game.State {
	next := s.Clone()
	c := &next.Character

	c.Weight = math.Max(rules.ExerciseWeightFloor, c.Weight-rules.ExerciseWeightLoss)
	c.Energy = math.Min(game.MaxStat, c.Energy+rules.ExerciseEnergyGain)

	updateWeightStage(&next)
	return next
}

// IdleTick advances one second of idle progression.
// Nothing happens before the character exists.
func IdleTick(s game.State) game.State {
	if !s.IsInitialized {
		return s
	}

	next := s.Clone()
	c := &next.Character

	gained := false
	if lvl := next.Upgrades.AutoEater; lvl > 0 {
		amount := float64(lvl) * AutoEaterRate
		c.Weight += amount
		next.Currency.Calories += amount
		next.Stats.TotalCaloriesEarned += amount
		gained = true
	}

	if c.Health < game.MaxStat {
		regen := HealthRegenRate
		if next.Upgrades.MetabolismBooster > 0 {
			regen = BoostedHealthRegen
		}
		c.Health = math.Min(game.MaxStat, c.Health+regen)
	}

	if c.Energy < game.MaxStat {
		c.Energy = math.Min(game.MaxStat, c.Energy+EnergyRegenRate)
	}

	updateWeightStage(&next)
	if gained {
		return CheckAchievements(next)
	}
	return next
}
