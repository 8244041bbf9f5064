package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
	"github.com/MRamiBalles/fatsim/server/internal/platform/metrics"
)

var (
	ErrUnknownItem    = errors.New("unknown item")
	ErrUnknownAction  = errors.New("unknown action")
	ErrNotInitialized = errors.New("character has not been created")
)

// StatePersister stores the whole state after every change.
type StatePersister interface {
	Save(ctx context.Context, s game.State) error
}

// Engine owns the authoritative state of one save and serialises every
// transition, idle tick included, behind one mutex.
type Engine struct {
	mu        sync.Mutex
	state     game.State
	version   uint64
	actorID   string
	eventLog  *events.EventLog
	persister StatePersister
	logger    *logger.Logger
	ticker    *Ticker

	now  func() time.Time
	roll func() float64
}

// NewEngine wraps an initial state. persister may be nil.
func NewEngine(initial game.State, actorID string, eventLog *events.EventLog, persister StatePersister, log *logger.Logger) *Engine {
	e := &Engine{
		state:     initial.Clone(),
		actorID:   actorID,
		eventLog:  eventLog,
		persister: persister,
		logger:    log,
		now:       time.Now,
		roll:      rand.Float64,
	}
	e.ticker = NewTicker(DefaultTickRate, e.Tick, log)
	return e
}

// SetTickRate replaces the idle ticker. Call before Start.
func (e *Engine) SetTickRate(rate time.Duration) {
	e.ticker = NewTicker(rate, e.Tick, e.logger)
}

// SetClock overrides the wall clock used by the lottery.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// SetRoller overrides the lottery random source. fn must return values in [0,1).
func (e *Engine) SetRoller(fn func() float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.roll = fn
}

// Start spawns the idle ticker.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting game engine for " + e.actorID)
	go e.ticker.Start(ctx)
}

// Stop halts the idle ticker.
func (e *Engine) Stop() {
	e.ticker.Stop()
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() game.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Version increases by one on every committed change.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// ActorID returns the save key this engine plays.
func (e *Engine) ActorID() string {
	return e.actorID
}

// Now returns the engine's clock reading.
func (e *Engine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now()
}

// Dispatch applies one action. Game-rule violations (not enough calories, lottery
// limit, ineligible rebirth) are silent no-ops: the unchanged state and a nil error
// come back. Errors are reserved for malformed requests.
func (e *Engine) Dispatch(ctx context.Context, a Action) (game.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a.Type != ActionInitialize && !e.state.IsInitialized {
		return e.state.Clone(), ErrNotInitialized
	}

	prev := e.state
	next, out, err := e.apply(prev, a)
	if err != nil {
		return prev.Clone(), err
	}

	if reflect.DeepEqual(prev, next) {
		metrics.Get().RecordAction(false)
		e.logger.Warnf("[ENGINE] %s %s had no effect (%s)", a.Type, a.ItemID, out.detail)
		return next.Clone(), nil
	}

	e.commit(ctx, next)
	metrics.Get().RecordAction(true)

	e.record(a.Type.EventType(), ActionPayload{
		ItemID:        a.ItemID,
		CaloriesDelta: next.Currency.Calories - prev.Currency.Calories,
		WeightDelta:   next.Character.Weight - prev.Character.Weight,
		Weight:        next.Character.Weight,
		Calories:      next.Currency.Calories,
		Price:         out.price,
		Detail:        out.detail,
	})
	e.recordAchievements(prev, next)

	return next.Clone(), nil
}

// Tick runs one idle step. The ticker calls it once per interval.
func (e *Engine) Tick(ctx context.Context) {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state
	if !prev.IsInitialized {
		return
	}
	next := IdleTick(prev)
	if !reflect.DeepEqual(prev, next) {
		e.commit(ctx, next)
		e.recordAchievements(prev, next)
	}
	metrics.Get().RecordTick(time.Since(start))
}

// outcome describes what an applied action cost and produced.
type outcome struct {
	detail string
	price  float64
}

// apply resolves catalog ids and runs the matching pure transition.
func (e *Engine) apply(s game.State, a Action) (game.State, outcome, error) {
	switch a.Type {
	case ActionInitialize:
		return InitializeCharacter(s, a.Name, a.Gender, a.SkinTone), outcome{detail: a.Name}, nil

	case ActionClick:
		return ClickCharacter(s), outcome{}, nil

	case ActionEat:
		food, ok := item.GetFood(a.ItemID)
		if !ok {
			return s, outcome{}, fmt.Errorf("food %q: %w", a.ItemID, ErrUnknownItem)
		}
		return EatFood(s, food), priced(food.Price), nil

	case ActionBuyCosmetic:
		c, ok := item.GetCosmetic(a.ItemID)
		if !ok {
			return s, outcome{}, fmt.Errorf("cosmetic %q: %w", a.ItemID, ErrUnknownItem)
		}
		return BuyCosmetic(s, c), priced(c.Price), nil

	case ActionBuyUpgrade:
		u, ok := item.GetUpgrade(a.ItemID)
		if !ok {
			return s, outcome{}, fmt.Errorf("upgrade %q: %w", a.ItemID, ErrUnknownItem)
		}
		return BuyUpgrade(s, u), priced(rules.UpgradePrice(s, u)), nil

	case ActionExercise:
		return Exercise(s), outcome{}, nil

	case ActionRebirth:
		if !s.CanRebirth() {
			return s, outcome{detail: fmt.Sprintf("goal %.0f not reached", s.Rebirth.CurrentGoal)}, nil
		}
		next := PerformRebirth(s)
		return next, outcome{detail: fmt.Sprintf("rebirth #%d", next.Rebirth.RebirthCount)}, nil

	case ActionLottery:
		roll := e.roll()
		next := PlayLottery(s, e.now(), roll)
		won := next.Stats.LotteryWinnings - s.Stats.LotteryWinnings
		return next, outcome{detail: fmt.Sprintf("won %.0f", won), price: rules.LotteryCost}, nil
	}

	return s, outcome{}, fmt.Errorf("%q: %w", a.Type, ErrUnknownAction)
}

func priced(price float64) outcome {
	return outcome{detail: fmt.Sprintf("price %.0f", price), price: price}
}

// commit installs next and persists it synchronously.
func (e *Engine) commit(ctx context.Context, next game.State) {
	e.state = next
	e.version++

	if e.persister == nil {
		return
	}
	start := time.Now()
	err := e.persister.Save(ctx, next)
	metrics.Get().RecordSave(time.Since(start), err)
	if err != nil {
		e.logger.Errorf("[ENGINE] failed to save %s: %v", e.actorID, err)
	}
}

func (e *Engine) record(t events.EventType, payload interface{}) {
	if e.eventLog == nil {
		return
	}
	e.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: e.now(),
		Type:      t,
		ActorID:   e.actorID,
		Payload:   payload,
	})
}

func (e *Engine) recordAchievements(prev, next game.State) {
	for _, a := range NewlyCompleted(prev, next) {
		e.logger.Event(string(events.EventTypeAchievementUnlocked), e.actorID, a.Description)
		e.record(events.EventTypeAchievementUnlocked, AchievementPayload{
			AchievementID: a.ID,
			Description:   a.Description,
			Reward:        a.Reward,
		})
	}
}
