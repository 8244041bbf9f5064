package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

// DefaultSaveKey is the key the browser build stored its save under.
const DefaultSaveKey = "becomeFatSimulator"

// StateRepository loads and saves one game under a fixed key.
type StateRepository struct {
	store  SaveStore
	key    string
	logger *logger.Logger
}

func NewStateRepository(store SaveStore, key string, log *logger.Logger) *StateRepository {
	if key == "" {
		key = DefaultSaveKey
	}
	return &StateRepository{store: store, key: key, logger: log}
}

// Key returns the save key.
func (r *StateRepository) Key() string {
	return r.key
}

// Load returns the saved game, or the default record on first run.
// A corrupt blob is logged and replaced by defaults, and unreadable sections
// fall back one by one; only store failures are returned.
func (r *StateRepository) Load(ctx context.Context) (game.State, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		r.logger.Infof("[STORAGE] No save under %q, starting fresh", r.key)
		return game.NewState(), nil
	}
	if err != nil {
		return game.NewState(), fmt.Errorf("failed to load %q: %w", r.key, err)
	}

	s, err := DecodeState(raw)
	var partial *SectionError
	if errors.As(err, &partial) {
		r.logger.Warnf("[STORAGE] Save %q partly reset to defaults: %v", r.key, err)
		return s, nil
	}
	if err != nil {
		r.logger.Errorf("[STORAGE] Discarding corrupt save %q: %v", r.key, err)
		return game.NewState(), nil
	}
	return s, nil
}

// Save implements engine.StatePersister.
func (r *StateRepository) Save(ctx context.Context, s game.State) error {
	raw, err := EncodeState(s)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, r.key, raw)
}
