package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// EncodeState serialises the whole state record.
func EncodeState(s game.State) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return raw, nil
}

// SectionError lists saved sections that could not be read. DecodeState
// returns it alongside an otherwise usable state; those sections hold their
// defaults.
type SectionError struct {
	Sections map[string]error
}

func (e *SectionError) Error() string {
	keys := make([]string, 0, len(e.Sections))
	for k := range e.Sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, e.Sections[k]))
	}
	return "failed to decode " + strings.Join(parts, "; ")
}

func sectionsOf(s *game.State) map[string]interface{} {
	return map[string]interface{}{
		"character":     &s.Character,
		"currency":      &s.Currency,
		"upgrades":      &s.Upgrades,
		"cosmetics":     &s.Cosmetics,
		"rebirth":       &s.Rebirth,
		"achievements":  &s.Achievements,
		"miniGame":      &s.MiniGame,
		"stats":         &s.Stats,
		"isInitialized": &s.IsInitialized,
	}
}

// DecodeState reads a saved blob over the default record. Each top-level key
// present in the blob replaces that section; absent keys keep their defaults.
// If the blob is not a JSON object the defaults are returned with the error.
// A section that fails to decode keeps its default and is reported through a
// *SectionError; the rest of the save still loads.
func DecodeState(raw []byte) (game.State, error) {
	s := game.NewState()

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return game.NewState(), fmt.Errorf("failed to decode state: %w", err)
	}

	defaults := game.NewState()
	fallback := sectionsOf(&defaults)

	var failed map[string]error
	for key, dst := range sectionsOf(&s) {
		msg, ok := top[key]
		if !ok || string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			// Unmarshal may have written part of the section.
			reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(fallback[key]).Elem())
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[key] = err
		}
	}

	normalize(&s)
	if failed != nil {
		return s, &SectionError{Sections: failed}
	}
	return s, nil
}

// normalize repairs what older or hand-edited saves may get wrong.
func normalize(s *game.State) {
	if s.Character.Name != "" {
		s.IsInitialized = true
	}
	if s.Character.ClickPower < 1 {
		s.Character.ClickPower = 1
	}
	if s.Upgrades.ClickMultiplier < 1 {
		s.Upgrades.ClickMultiplier = 1
	}
	if s.Upgrades.HappinessMultiplier < 1 {
		s.Upgrades.HappinessMultiplier = 1
	}
	if s.Rebirth.RebirthCount < 0 {
		s.Rebirth.RebirthCount = 0
	}
	if s.Rebirth.CurrentGoal <= 0 {
		s.Rebirth.CurrentGoal = game.StartGoal
	}
	s.Rebirth.TotalMultiplier = rules.RebirthMultiplier(s.Rebirth.RebirthCount)
	s.Character.WeightStage = rules.WeightStage(s.Character.Weight)

	seen := make(map[string]bool, len(s.Cosmetics.Accessories))
	accessories := make([]string, 0, len(s.Cosmetics.Accessories))
	for _, id := range s.Cosmetics.Accessories {
		if seen[id] {
			continue
		}
		seen[id] = true
		accessories = append(accessories, id)
	}
	s.Cosmetics.Accessories = accessories

	s.Achievements = reconcileAchievements(s.Achievements)
}

// reconcileAchievements rebuilds the list from the catalog, keeping the saved
// completion flags by id. Unknown ids are dropped.
func reconcileAchievements(saved []game.Achievement) []game.Achievement {
	done := make(map[string]bool, len(saved))
	for _, a := range saved {
		if a.Completed {
			done[a.ID] = true
		}
	}

	out := make([]game.Achievement, 0, len(item.Achievements))
	for _, def := range item.Achievements {
		out = append(out, game.Achievement{
			ID:          def.ID,
			Description: def.Description,
			Completed:   done[def.ID],
			Reward:      def.Reward,
			Requirement: def.Requirement,
		})
	}
	return out
}
