// Package game defines the state record of a player's game.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package game

import (
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
)

// Gender of the character.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the two supported genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

const (
	MinSkinTone = 1
	MaxSkinTone = 5
	MinStat     = 0.0
	MaxStat     = 100.0

	StartWeight    = 150.0
	StartHealth    = 85.0
	StartHappiness = 70.0
	StartEnergy    = 60.0
	StartCalories  = 1000.0
	StartGoal      = 1_000_000.0

	DefaultLook = "default"
)

// Character holds identity and body stats.
type Character struct {
	Name        string  `json:"name"`
	Gender      Gender  `json:"gender"`
	SkinTone    int     `json:"skinTone"`    // 1-5
	Weight      float64 `json:"weight"`      // pounds
	WeightStage int     `json:"weightStage"` // 1-5, derived from Weight
	Health      float64 `json:"health"`      // 0-100
	Happiness   float64 `json:"happiness"`   // 0-100
	Energy      float64 `json:"energy"`      // 0-100
	ClickPower  float64 `json:"clickPower"`  // >= 1, doubles per upgrade
}

// Currency holds the single spendable resource.
type Currency struct {
	Calories float64 `json:"calories"`
}

// Upgrades holds purchased upgrade levels.
type Upgrades struct {
	ClickMultiplier     int `json:"clickMultiplier"`
	AutoEater           int `json:"autoEater"`
	MetabolismBooster   int `json:"metabolismBooster"`
	HappinessMultiplier int `json:"happinessMultiplier"`
}

// Level returns the level backing an upgrade effect.
func (u Upgrades) Level(effect item.UpgradeEffect) int {
	switch effect {
	case item.EffectClickMultiplier:
		return u.ClickMultiplier
	case item.EffectAutoEater:
		return u.AutoEater
	case item.EffectMetabolismBooster:
		return u.MetabolismBooster
	case item.EffectHappinessMultiplier:
		return u.HappinessMultiplier
	}
	return 0
}

// Cosmetics holds the equipped look. Accessories is a set.
type Cosmetics struct {
	Hairstyle   string   `json:"hairstyle"`
	Clothing    string   `json:"clothing"`
	Accessories []string `json:"accessories"`
}

// HasAccessory reports whether id is already owned.
func (c Cosmetics) HasAccessory(id string) bool {
	for _, a := range c.Accessories {
		if a == id {
			return true
		}
	}
	return false
}

// Rebirth tracks the prestige cycle.
type Rebirth struct {
	RebirthCount    int     `json:"rebirthCount"`
	TotalMultiplier float64 `json:"totalMultiplier"` // 1 + 0.5 * RebirthCount
	CurrentGoal     float64 `json:"currentGoal"`
}

// Achievement is one catalog entry plus its completion flag.
// Completion is one-way.
type Achievement struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	Reward      float64 `json:"reward"`
	Requirement float64 `json:"requirement"`
}

// MiniGame holds the lottery bookkeeping.
type MiniGame struct {
	LastPlay   time.Time `json:"lastPlay"`
	DailyPlays int       `json:"dailyPlays"`
}

// Stats holds lifetime counters.
type Stats struct {
	ClickCount          int     `json:"clickCount"`
	TotalCaloriesEarned float64 `json:"totalCaloriesEarned"`
	FoodsEaten          int     `json:"foodsEaten"`
	LotteryWinnings     float64 `json:"lotteryWinnings"`
}

// State is the whole persisted game.
type State struct {
	Character     Character     `json:"character"`
	Currency      Currency      `json:"currency"`
	Upgrades      Upgrades      `json:"upgrades"`
	Cosmetics     Cosmetics     `json:"cosmetics"`
	Rebirth       Rebirth       `json:"rebirth"`
	Achievements  []Achievement `json:"achievements"`
	MiniGame      MiniGame      `json:"miniGame"`
	Stats         Stats         `json:"stats"`
	IsInitialized bool          `json:"isInitialized"`
}

// NewState returns the default record used before character creation.
func NewState() State {
	return State{
		Character: DefaultCharacter(),
		Currency:  Currency{Calories: StartCalories},
		Upgrades:  DefaultUpgrades(),
		Cosmetics: Cosmetics{
			Hairstyle:   DefaultLook,
			Clothing:    DefaultLook,
			Accessories: []string{},
		},
		Rebirth: Rebirth{
			RebirthCount:    0,
			TotalMultiplier: 1,
			CurrentGoal:     StartGoal,
		},
		Achievements:  DefaultAchievements(),
		IsInitialized: false,
	}
}

// DefaultCharacter returns the starting body.
func DefaultCharacter() Character {
	return Character{
		Gender:      GenderMale,
		SkinTone:    MinSkinTone,
		Weight:      StartWeight,
		WeightStage: 1,
		Health:      StartHealth,
		Happiness:   StartHappiness,
		Energy:      StartEnergy,
		ClickPower:  1,
	}
}

// DefaultUpgrades returns the baseline upgrade levels.
func DefaultUpgrades() Upgrades {
	return Upgrades{
		ClickMultiplier:     1,
		AutoEater:           0,
		MetabolismBooster:   0,
		HappinessMultiplier: 1,
	}
}

// DefaultAchievements seeds the achievement list from the catalog, all incomplete.
func DefaultAchievements() []Achievement {
	out := make([]Achievement, 0, len(item.Achievements))
	for _, def := range item.Achievements {
		out = append(out, Achievement{
			ID:          def.ID,
			Description: def.Description,
			Reward:      def.Reward,
			Requirement: def.Requirement,
		})
	}
	return out
}

// CanRebirth reports whether the character has reached the current goal.
func (s State) CanRebirth() bool {
	return s.Character.Weight >= s.Rebirth.CurrentGoal
}

// Clone returns a deep copy so transitions never alias the caller's slices.
func (s State) Clone() State {
	out := s
	out.Cosmetics.Accessories = append([]string{}, s.Cosmetics.Accessories...)
	out.Achievements = append([]Achievement(nil), s.Achievements...)
	return out
}

// CompletedAchievements counts completed entries.
func (s State) CompletedAchievements() int {
	n := 0
	for _, a := range s.Achievements {
		if a.Completed {
			n++
		}
	}
	return n
}
