// Package network - api.go
// GameAPI: the REST surface the browser client plays through.
//
// Every POST maps to exactly one engine action and answers with the
// resulting state. Rule violations are not errors: the unchanged state
// comes back with 200.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

// GameAPI handles the player-facing HTTP endpoints.
type GameAPI struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewGameAPI creates the REST handler for one engine.
func NewGameAPI(eng *engine.Engine, log *logger.Logger) *GameAPI {
	return &GameAPI{engine: eng, logger: log}
}

// CharacterRequest is the payload for character creation.
type CharacterRequest struct {
	Name     string      `json:"name"`
	Gender   game.Gender `json:"gender"`
	SkinTone int         `json:"skinTone"`
}

// ItemRequest is the payload for eat and purchase endpoints.
type ItemRequest struct {
	ID string `json:"id"`
}

// StateView is the state plus the figures the client would otherwise derive.
type StateView struct {
	State            game.State `json:"state"`
	Version          uint64     `json:"version"`
	StageName        string     `json:"stageName"`
	ClickMultiplier  float64    `json:"clickMultiplier"`
	CanRebirth       bool       `json:"canRebirth"`
	LotteryPlaysLeft int        `json:"lotteryPlaysLeft"`
}

// UpgradeListing is an upgrade with its current price.
type UpgradeListing struct {
	item.Upgrade
	CurrentPrice float64 `json:"currentPrice"`
	Level        int     `json:"level"`
}

// CatalogResponse is the whole shop.
type CatalogResponse struct {
	Foods        []item.Food           `json:"foods"`
	Cosmetics    []item.Cosmetic       `json:"cosmetics"`
	Upgrades     []UpgradeListing      `json:"upgrades"`
	Achievements []item.AchievementDef `json:"achievements"`
}

// HandleState returns the current state.
// GET /api/state
func (api *GameAPI) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonSuccess(w, api.view(api.engine.Snapshot()))
}

// HandleCatalog returns the shop with upgrade prices for the current state.
// GET /api/catalog
func (api *GameAPI) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := api.engine.Snapshot()
	upgrades := make([]UpgradeListing, 0, len(item.Upgrades))
	for _, u := range item.Upgrades {
		level := s.Upgrades.Level(u.Effect)
		if u.Effect == item.EffectClickPower && s.Character.ClickPower >= 1 {
			// Each purchase doubles click power.
			level = int(math.Log2(s.Character.ClickPower))
		}
		upgrades = append(upgrades, UpgradeListing{
			Upgrade:      u,
			CurrentPrice: engine.UpgradePrice(s, u),
			Level:        level,
		})
	}

	jsonSuccess(w, CatalogResponse{
		Foods:        item.Foods,
		Cosmetics:    item.Cosmetics,
		Upgrades:     upgrades,
		Achievements: item.Achievements,
	})
}

// HandleCharacter creates (or renames) the character.
// POST /api/character
func (api *GameAPI) HandleCharacter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name, err := game.ValidateIdentity(req.Name, req.Gender, req.SkinTone)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	api.dispatch(w, r, engine.Action{
		Type:     engine.ActionInitialize,
		Name:     name,
		Gender:   req.Gender,
		SkinTone: req.SkinTone,
	})
}

// simple returns a handler for a body-less action.
func (api *GameAPI) simple(t engine.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		api.dispatch(w, r, engine.Action{Type: t})
	}
}

// withItem returns a handler for an action naming a catalog id.
func (api *GameAPI) withItem(t engine.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			jsonError(w, "Missing item id", http.StatusBadRequest)
			return
		}
		api.dispatch(w, r, engine.Action{Type: t, ItemID: req.ID})
	}
}

func (api *GameAPI) dispatch(w http.ResponseWriter, r *http.Request, a engine.Action) {
	ctx, cancel := context.WithTimeout(r.Context(), actionTimeout)
	defer cancel()

	s, err := api.engine.Dispatch(ctx, a)
	switch {
	case errors.Is(err, engine.ErrUnknownItem):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, engine.ErrNotInitialized):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		api.logger.Errorf("[API] %s failed: %v", a.Type, err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	jsonSuccess(w, api.view(s))
}

func (api *GameAPI) view(s game.State) StateView {
	return StateView{
		State:            s,
		Version:          api.engine.Version(),
		StageName:        rules.StageName(s.Character.WeightStage),
		ClickMultiplier:  rules.ClickMultiplier(s),
		CanRebirth:       s.CanRebirth(),
		LotteryPlaysLeft: engine.LotteryPlaysLeft(s, api.engine.Now()),
	}
}

// RegisterRoutes sets up the game API routes.
func (api *GameAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", api.HandleState)
	mux.HandleFunc("/api/catalog", api.HandleCatalog)
	mux.HandleFunc("/api/character", api.HandleCharacter)
	mux.HandleFunc("/api/click", api.simple(engine.ActionClick))
	mux.HandleFunc("/api/exercise", api.simple(engine.ActionExercise))
	mux.HandleFunc("/api/rebirth", api.simple(engine.ActionRebirth))
	mux.HandleFunc("/api/lottery", api.simple(engine.ActionLottery))
	mux.HandleFunc("/api/eat", api.withItem(engine.ActionEat))
	mux.HandleFunc("/api/cosmetic", api.withItem(engine.ActionBuyCosmetic))
	mux.HandleFunc("/api/upgrade", api.withItem(engine.ActionBuyUpgrade))
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
