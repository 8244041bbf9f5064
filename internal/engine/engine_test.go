package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

type recordingPersister struct {
	mu    sync.Mutex
	saves []game.State
	err   error
}

func (p *recordingPersister) Save(ctx context.Context, s game.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, s)
	return p.err
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func newTestEngine(p StatePersister) (*Engine, *events.EventLog) {
	el := events.NewEventLog(nil)
	return NewEngine(game.NewState(), "becomeFatSimulator", el, p, logger.NewDiscardLogger()), el
}

func TestDispatchRequiresCharacter(t *testing.T) {
	e, _ := newTestEngine(nil)

	_, err := e.Dispatch(context.Background(), Action{Type: ActionClick})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Expected ErrNotInitialized, got %v", err)
	}
	if e.Version() != 0 {
		t.Errorf("Rejected request must not bump version")
	}
}

func TestDispatchPersistsAndRecords(t *testing.T) {
	p := &recordingPersister{}
	e, el := newTestEngine(p)
	ctx := context.Background()

	if _, err := e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 2}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	s, err := e.Dispatch(ctx, Action{Type: ActionEat, ItemID: "salad"})
	if err != nil {
		t.Fatalf("eat failed: %v", err)
	}

	if s.Currency.Calories != 950 || s.Character.Weight != 155 {
		t.Errorf("Unexpected state after salad: %v / %v", s.Currency.Calories, s.Character.Weight)
	}
	if e.Version() != 2 {
		t.Errorf("Expected version 2, got %d", e.Version())
	}
	if p.count() != 2 {
		t.Errorf("Expected a save per change, got %d", p.count())
	}
	last := p.saves[len(p.saves)-1]
	if last.Currency.Calories != 950 {
		t.Errorf("Persisted state out of date: %v", last.Currency.Calories)
	}

	eaten := el.GetByType(events.EventTypeFoodEaten)
	if len(eaten) != 1 {
		t.Fatalf("Expected one FOOD_EATEN event, got %d", len(eaten))
	}
	payload := eaten[0].Payload.(ActionPayload)
	if payload.ItemID != "salad" || payload.CaloriesDelta != -50 || payload.WeightDelta != 5 || payload.Price != 50 {
		t.Errorf("Unexpected payload: %+v", payload)
	}
}

func TestDispatchPriceSurvivesAchievementReward(t *testing.T) {
	s := game.NewState()
	s.IsInitialized = true
	s.Character.Weight = 196
	el := events.NewEventLog(nil)
	e := NewEngine(s, "becomeFatSimulator", el, nil, logger.NewDiscardLogger())

	// Salad pushes past 200 lbs and pays out the chubby reward.
	if _, err := e.Dispatch(context.Background(), Action{Type: ActionEat, ItemID: "salad"}); err != nil {
		t.Fatalf("eat failed: %v", err)
	}
	eaten := el.GetByType(events.EventTypeFoodEaten)
	if len(eaten) != 1 {
		t.Fatalf("Expected one FOOD_EATEN event, got %d", len(eaten))
	}
	payload := eaten[0].Payload.(ActionPayload)
	if payload.CaloriesDelta != 450 {
		t.Errorf("Expected net delta of reward minus price, got %v", payload.CaloriesDelta)
	}
	if payload.Price != 50 {
		t.Errorf("Expected price 50 regardless of reward, got %v", payload.Price)
	}
	if len(el.GetByType(events.EventTypeAchievementUnlocked)) != 1 {
		t.Errorf("Expected the achievement to be recorded")
	}
}

func TestDispatchNoOpDoesNotPersist(t *testing.T) {
	p := &recordingPersister{}
	e, el := newTestEngine(p)
	ctx := context.Background()

	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})
	before := p.count()

	// 1000 calories cannot buy a 3000 upgrade.
	s, err := e.Dispatch(ctx, Action{Type: ActionBuyUpgrade, ItemID: "happiness-multiplier"})
	if err != nil {
		t.Fatalf("Unaffordable purchase is not an error, got %v", err)
	}
	if s.Upgrades.HappinessMultiplier != 1 {
		t.Errorf("Upgrade should not apply")
	}
	if p.count() != before {
		t.Errorf("No-op must not persist")
	}
	if len(el.GetByType(events.EventTypeUpgradeBought)) != 0 {
		t.Errorf("No-op must not be recorded")
	}
}

func TestDispatchUnknownItem(t *testing.T) {
	e, _ := newTestEngine(nil)
	ctx := context.Background()
	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})

	for _, a := range []Action{
		{Type: ActionEat, ItemID: "kale-smoothie"},
		{Type: ActionBuyCosmetic, ItemID: "crown"},
		{Type: ActionBuyUpgrade, ItemID: "turbo"},
	} {
		if _, err := e.Dispatch(ctx, a); !errors.Is(err, ErrUnknownItem) {
			t.Errorf("%s %s: expected ErrUnknownItem, got %v", a.Type, a.ItemID, err)
		}
	}

	if _, err := e.Dispatch(ctx, Action{Type: "DANCE"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got %v", err)
	}
}

func TestDispatchRebirthRequiresGoal(t *testing.T) {
	e, el := newTestEngine(nil)
	ctx := context.Background()
	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})

	s, err := e.Dispatch(ctx, Action{Type: ActionRebirth})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Rebirth.RebirthCount != 0 {
		t.Errorf("Rebirth must be refused below the goal")
	}
	if len(el.GetByType(events.EventTypeRebirth)) != 0 {
		t.Errorf("Refused rebirth must not be recorded")
	}
}

func TestDispatchLotteryUsesInjectedClockAndRoll(t *testing.T) {
	e, el := newTestEngine(nil)
	ctx := context.Background()
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e.SetClock(func() time.Time { return day })
	e.SetRoller(func() float64 { return 0.10 })

	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})
	s, err := e.Dispatch(ctx, Action{Type: ActionLottery})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Currency.Calories != 1000-1000+10000 {
		t.Errorf("Expected second-tier prize, got %v", s.Currency.Calories)
	}
	if !s.MiniGame.LastPlay.Equal(day) {
		t.Errorf("Expected last play %v, got %v", day, s.MiniGame.LastPlay)
	}
	played := el.GetByType(events.EventTypeLotteryPlayed)
	if len(played) != 1 || played[0].Payload.(ActionPayload).Detail != "won 10000" {
		t.Errorf("Unexpected lottery events: %+v", played)
	}
}

func TestDispatchRecordsAchievements(t *testing.T) {
	e, el := newTestEngine(nil)
	ctx := context.Background()
	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})

	for i := 0; i < 10; i++ {
		if _, err := e.Dispatch(ctx, Action{Type: ActionClick}); err != nil {
			t.Fatal(err)
		}
	}

	unlocked := el.GetByType(events.EventTypeAchievementUnlocked)
	if len(unlocked) != 1 {
		t.Fatalf("Expected one unlock event, got %d", len(unlocked))
	}
	if unlocked[0].Payload.(AchievementPayload).AchievementID != "first-click" {
		t.Errorf("Unexpected unlock: %+v", unlocked[0].Payload)
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	e, _ := newTestEngine(p)

	s, err := e.Dispatch(context.Background(), Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})
	if err != nil {
		t.Fatalf("Save failures are logged, not returned: %v", err)
	}
	if !s.IsInitialized || !e.Snapshot().IsInitialized {
		t.Errorf("In-memory state must advance even when the save fails")
	}
}

func TestTickCommitsOnlyChanges(t *testing.T) {
	p := &recordingPersister{}
	e, _ := newTestEngine(p)
	ctx := context.Background()

	e.Tick(ctx)
	if e.Version() != 0 {
		t.Errorf("Tick before character creation must not commit")
	}

	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})
	e.Tick(ctx)
	if e.Version() != 2 {
		t.Errorf("Expected regen tick to commit, version %d", e.Version())
	}
	s := e.Snapshot()
	if s.Character.Health <= game.StartHealth {
		t.Errorf("Expected health regen, got %v", s.Character.Health)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	e, _ := newTestEngine(nil)
	ctx := context.Background()
	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})
	e.Dispatch(ctx, Action{Type: ActionBuyCosmetic, ItemID: "hat"})

	snap := e.Snapshot()
	snap.Cosmetics.Accessories[0] = "tampered"
	snap.Achievements[0].Completed = true

	again := e.Snapshot()
	if again.Cosmetics.Accessories[0] != "hat" || again.Achievements[0].Completed {
		t.Errorf("Snapshot aliases engine state")
	}
}

func TestConcurrentClicks(t *testing.T) {
	e, _ := newTestEngine(nil)
	ctx := context.Background()
	e.Dispatch(ctx, Action{Type: ActionInitialize, Name: "Tubs", Gender: game.GenderMale, SkinTone: 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Dispatch(ctx, Action{Type: ActionClick})
		}()
	}
	wg.Wait()

	if got := e.Snapshot().Stats.ClickCount; got != 50 {
		t.Errorf("Expected 50 clicks, got %d", got)
	}
}

func TestTickerStops(t *testing.T) {
	var mu sync.Mutex
	ticks := 0
	tk := NewTicker(5*time.Millisecond, func(ctx context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	}, logger.NewDiscardLogger())

	done := make(chan struct{})
	go func() {
		tk.Start(context.Background())
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	tk.Stop()
	tk.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Ticker did not stop")
	}
	mu.Lock()
	defer mu.Unlock()
	if ticks == 0 {
		t.Errorf("Expected at least one tick")
	}
}
