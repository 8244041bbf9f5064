// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"math"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
)

// Weight stage band thresholds (upper bounds, exclusive).
var stageBands = [...]float64{170, 200, 250, 300}

// Stage names, indexed by stage-1.
var stageNames = [...]string{"Slim", "Chubby", "Overweight", "Obese", "Very Fat"}

const (
	ClickWeightFactor   = 0.25
	ClickCalorieFactor  = 1.5
	ClickEnergyCost     = 1.0
	ExerciseWeightLoss  = 2.0
	ExerciseEnergyGain  = 10.0
	ExerciseWeightFloor = 140.0

	RebirthMultiplierStep = 0.5
	RebirthGoalFactor     = 25.0
	RebirthCalorieBonus   = 5000.0
)

// WeightStage maps a weight to one of five bands: <170, <200, <250, <300, >=300.
func WeightStage(weight float64) int {
	for i, limit := range stageBands {
		if weight < limit {
			return i + 1
		}
	}
	return len(stageBands) + 1
}

// StageName returns the display name of a weight stage.
func StageName(stage int) string {
	if stage < 1 || stage > len(stageNames) {
		return "Unknown"
	}
	return stageNames[stage-1]
}

// ClampStat bounds health/happiness/energy to [0,100].
func ClampStat(v float64) float64 {
	return math.Max(game.MinStat, math.Min(game.MaxStat, v))
}

// ClickMultiplier is the combined per-click factor.
func ClickMultiplier(s game.State) float64 {
	return s.Character.ClickPower * float64(s.Upgrades.ClickMultiplier) * s.Rebirth.TotalMultiplier
}

// UpgradePrice computes the current price of an upgrade.
// Click power scales with its own value (baseline * 2^log2(clickPower));
// every other effect scales with its level (baseline * 2^level).
func UpgradePrice(s game.State, u item.Upgrade) float64 {
	if u.Effect == item.EffectClickPower {
		power := s.Character.ClickPower
		if power <= 0 {
			power = 1
		}
		return u.Price * math.Pow(2, math.Log2(power))
	}
	return u.Price * math.Pow(2, float64(s.Upgrades.Level(u.Effect)))
}

// RebirthMultiplier returns the permanent multiplier after count rebirths.
func RebirthMultiplier(count int) float64 {
	return 1 + RebirthMultiplierStep*float64(count)
}

// HalveLevel halves an upgrade level with integer floor division, never below min.
func HalveLevel(level, min int) int {
	half := level / 2
	if half < min {
		return min
	}
	return half
}
