package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/infra/storage"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

type testServer struct {
	mux      *http.ServeMux
	engine   *engine.Engine
	eventLog *events.EventLog
	store    *storage.MemorySaveStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, game.NewState())
}

func newTestServerWith(t *testing.T, initial game.State) *testServer {
	t.Helper()
	log := logger.NewDiscardLogger()

	store := storage.NewMemorySaveStore()
	repo := storage.NewStateRepository(store, storage.DefaultSaveKey, log)
	eventRepo := storage.NewMemoryEventRepository()
	el := events.NewEventLog(storage.NewEventSink(eventRepo))

	eng := engine.NewEngine(initial, repo.Key(), el, repo, log)
	eng.SetClock(func() time.Time { return time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC) })

	mux := http.NewServeMux()
	NewGameAPI(eng, log).RegisterRoutes(mux)
	NewHistoryHandler(el, storage.NewReconstructor(eventRepo), repo.Key(), log).RegisterRoutes(mux)

	return &testServer{mux: mux, engine: eng, eventLog: el, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, StateView) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)

	var view StateView
	if rec.Code == http.StatusOK {
		json.Unmarshal(rec.Body.Bytes(), &view)
	}
	return rec, view
}

func (ts *testServer) create(t *testing.T) {
	t.Helper()
	rec, _ := ts.do(t, http.MethodPost, "/api/character", `{"name":"  Tubs  ","gender":"male","skinTone":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCharacterCreation(t *testing.T) {
	ts := newTestServer(t)

	rec, view := ts.do(t, http.MethodPost, "/api/character", `{"name":"  Tubs  ","gender":"male","skinTone":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if view.State.Character.Name != "Tubs" || !view.State.IsInitialized {
		t.Errorf("Expected trimmed name and initialized state, got %+v", view.State.Character)
	}
	if view.StageName != "Slim" || view.LotteryPlaysLeft != 3 {
		t.Errorf("Unexpected derived fields: %+v", view)
	}

	if _, err := ts.store.Get(context.Background(), storage.DefaultSaveKey); err != nil {
		t.Errorf("Expected save after creation, got %v", err)
	}
}

func TestCharacterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"blank name", `{"name":"   ","gender":"male","skinTone":1}`},
		{"long name", `{"name":"abcdefghijklmnopqrstu","gender":"male","skinTone":1}`},
		{"bad gender", `{"name":"Tubs","gender":"other","skinTone":1}`},
		{"bad skin tone", `{"name":"Tubs","gender":"female","skinTone":6}`},
		{"not json", `name=Tubs`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := ts.do(t, http.MethodPost, "/api/character", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
	if ts.engine.Version() != 0 {
		t.Errorf("Invalid input must not touch the engine")
	}
}

func TestActionsBeforeCreation(t *testing.T) {
	ts := newTestServer(t)
	rec, _ := ts.do(t, http.MethodPost, "/api/click", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 before creation, got %d", rec.Code)
	}
}

func TestClickAndEat(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t)

	_, view := ts.do(t, http.MethodPost, "/api/click", "")
	if view.State.Character.Weight != 150.25 || view.State.Currency.Calories != 1001 {
		t.Errorf("Unexpected click result: %v / %v", view.State.Character.Weight, view.State.Currency.Calories)
	}

	_, view = ts.do(t, http.MethodPost, "/api/eat", `{"id":"salad"}`)
	if view.State.Currency.Calories != 951 || view.State.Character.Weight != 155.25 {
		t.Errorf("Unexpected eat result: %v / %v", view.State.Currency.Calories, view.State.Character.Weight)
	}

	rec, _ := ts.do(t, http.MethodPost, "/api/eat", `{"id":"kale"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown food, got %d", rec.Code)
	}
	rec, _ = ts.do(t, http.MethodPost, "/api/eat", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing id, got %d", rec.Code)
	}
	rec, _ = ts.do(t, http.MethodGet, "/api/eat", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestUnaffordableIsOK(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t)

	rec, view := ts.do(t, http.MethodPost, "/api/upgrade", `{"id":"happiness-multiplier"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for a no-op, got %d", rec.Code)
	}
	if view.State.Upgrades.HappinessMultiplier != 1 || view.State.Currency.Calories != 1000 {
		t.Errorf("State should be unchanged")
	}
}

func TestCatalogPrices(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t)
	ts.do(t, http.MethodPost, "/api/upgrade", `{"id":"click-multiplier"}`)

	rec, _ := ts.do(t, http.MethodGet, "/api/catalog", "")
	var cat CatalogResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cat); err != nil {
		t.Fatal(err)
	}
	if len(cat.Foods) != 16 {
		t.Errorf("Expected 16 foods, got %d", len(cat.Foods))
	}
	for _, u := range cat.Upgrades {
		if u.ID == "click-multiplier" && u.CurrentPrice != 2000 {
			t.Errorf("Expected doubled price after purchase, got %v", u.CurrentPrice)
		}
		if u.ID == "click-multiplier" && u.Level != 1 {
			t.Errorf("Expected one click-multiplier level after one purchase, got %d", u.Level)
		}
		if u.ID == "auto-eater" && u.CurrentPrice != 2000 {
			t.Errorf("Expected base auto-eater price, got %v", u.CurrentPrice)
		}
	}
}

func TestLotteryLimitOverHTTP(t *testing.T) {
	rich := engine.InitializeCharacter(game.NewState(), "Tubs", game.GenderMale, 1)
	rich.Currency.Calories = 5000
	ts := newTestServerWith(t, rich)
	ts.engine.SetRoller(func() float64 { return 0.99 })

	var view StateView
	for i := 0; i < 4; i++ {
		_, view = ts.do(t, http.MethodPost, "/api/lottery", "")
	}
	if view.State.MiniGame.DailyPlays != 3 || view.State.Currency.Calories != 2000 {
		t.Errorf("Expected the fourth draw refused, got %+v / %v", view.State.MiniGame, view.State.Currency.Calories)
	}
	if view.LotteryPlaysLeft != 0 {
		t.Errorf("Expected no plays left, got %d", view.LotteryPlaysLeft)
	}
}

func TestHistory(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t)
	ts.do(t, http.MethodPost, "/api/click", "")
	ts.do(t, http.MethodPost, "/api/eat", `{"id":"pizza"}`)

	rec, _ := ts.do(t, http.MethodGet, "/api/history?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var hist HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Events) != 2 {
		t.Fatalf("Expected creation and pizza (clicks hidden), got %+v", hist.Events)
	}
	if hist.Totals.Purchases != 1 || hist.Totals.CaloriesSpent != 150 {
		t.Errorf("Unexpected totals: %+v", hist.Totals)
	}

	rec, _ = ts.do(t, http.MethodGet, "/api/history?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", rec.Code)
	}

	rec, _ = ts.do(t, http.MethodGet, "/api/history/session?type=CLICK", "")
	var session struct {
		Total int `json:"total_events"`
	}
	json.Unmarshal(rec.Body.Bytes(), &session)
	if session.Total != 1 {
		t.Errorf("Expected one click in session log, got %d", session.Total)
	}
}
