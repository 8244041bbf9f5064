// Package network - history.go
// History endpoints: the action ledger, as a readable timeline and as raw events.
package network

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/infra/storage"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryHandler provides the history API.
type HistoryHandler struct {
	eventLog      *events.EventLog
	reconstructor *storage.Reconstructor
	saveKey       string
	logger        *logger.Logger
}

// NewHistoryHandler creates a new history handler for one save.
func NewHistoryHandler(el *events.EventLog, rc *storage.Reconstructor, saveKey string, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		eventLog:      el,
		reconstructor: rc,
		saveKey:       saveKey,
		logger:        log,
	}
}

// HistoryResponse is the API response for the timeline.
type HistoryResponse struct {
	SaveKey     string               `json:"save_key"`
	GeneratedAt string               `json:"generated_at"`
	Totals      *storage.Totals      `json:"totals"`
	Events      []storage.RecapEvent `json:"events"`
}

// HandleHistory returns the newest actions of the save, oldest first.
// GET /api/history?limit=N
func (hh *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		jsonError(w, "Invalid limit", http.StatusBadRequest)
		return
	}

	recap, err := hh.reconstructor.GenerateRecap(r.Context(), hh.saveKey, limit)
	if err != nil {
		hh.logger.Errorf("[HISTORY] recap failed: %v", err)
		jsonError(w, "History unavailable", http.StatusInternalServerError)
		return
	}
	totals, err := hh.reconstructor.RebuildTotals(r.Context(), hh.saveKey)
	if err != nil {
		hh.logger.Errorf("[HISTORY] totals failed: %v", err)
		jsonError(w, "History unavailable", http.StatusInternalServerError)
		return
	}

	jsonSuccess(w, HistoryResponse{
		SaveKey:     hh.saveKey,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Totals:      totals,
		Events:      recap,
	})
}

// HandleSession returns the raw events recorded since the server started.
// GET /api/history/session?type=FOOD_EATEN
func (hh *HistoryHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var out []events.GameEvent
	if t := r.URL.Query().Get("type"); t != "" {
		out = hh.eventLog.GetByType(events.EventType(t))
	} else {
		out = hh.eventLog.Replay()
	}
	if out == nil {
		out = []events.GameEvent{}
	}

	jsonSuccess(w, map[string]interface{}{
		"total_events": len(out),
		"events":       out,
	})
}

// RegisterRoutes sets up the history API routes.
func (hh *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", hh.HandleHistory)
	mux.HandleFunc("/api/history/session", hh.HandleSession)
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	if n > maxHistoryLimit {
		n = maxHistoryLimit
	}
	return n, nil
}
