// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Action metrics
	ActionsApplied  int64
	ActionsRejected int64

	// Save metrics
	SavesWritten  int64
	SaveLatSum    int64
	SaveLatMax    int64
	SaveErrors    int64
	EventWriteErr int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records an idle tick completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))
	storeMax(&c.TickLatencyMax, int64(latency))

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordAction records a dispatched player action. Rejected actions were no-ops.
func (c *Collector) RecordAction(applied bool) {
	if applied {
		atomic.AddInt64(&c.ActionsApplied, 1)
	} else {
		atomic.AddInt64(&c.ActionsRejected, 1)
	}
}

// RecordSave records a state write to the save store.
func (c *Collector) RecordSave(latency time.Duration, err error) {
	atomic.AddInt64(&c.SavesWritten, 1)
	atomic.AddInt64(&c.SaveLatSum, int64(latency))
	storeMax(&c.SaveLatMax, int64(latency))

	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
	}
}

// RecordEventWriteError records a failed action-history write.
func (c *Collector) RecordEventWriteError() {
	atomic.AddInt64(&c.EventWriteErr, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// storeMax raises *addr to v if v is larger.
func storeMax(addr *int64, v int64) {
	for {
		cur := atomic.LoadInt64(addr)
		if v <= cur || atomic.CompareAndSwapInt64(addr, cur, v) {
			return
		}
	}
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastTick := c.LastTickTime
	c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	saves := atomic.LoadInt64(&c.SavesWritten)

	var tickAvg, saveAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if saves > 0 {
		saveAvg = float64(atomic.LoadInt64(&c.SaveLatSum)) / float64(saves) / 1e6
	}

	last := ""
	if !lastTick.IsZero() {
		last = lastTick.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      last,
		},

		"actions": map[string]interface{}{
			"applied":  atomic.LoadInt64(&c.ActionsApplied),
			"rejected": atomic.LoadInt64(&c.ActionsRejected),
		},

		"saves": map[string]interface{}{
			"written":            saves,
			"avg_write_lat_ms":   saveAvg,
			"max_write_lat_ms":   float64(atomic.LoadInt64(&c.SaveLatMax)) / 1e6,
			"errors":             atomic.LoadInt64(&c.SaveErrors),
			"event_write_errors": atomic.LoadInt64(&c.EventWriteErr),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP fatsim_tick_count Total idle ticks\n")
		fmt.Fprintf(w, "# TYPE fatsim_tick_count counter\n")
		fmt.Fprintf(w, "fatsim_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP fatsim_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE fatsim_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "fatsim_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP fatsim_actions_total Player actions by outcome\n")
		fmt.Fprintf(w, "# TYPE fatsim_actions_total counter\n")
		fmt.Fprintf(w, "fatsim_actions_total{outcome=\"applied\"} %d\n", atomic.LoadInt64(&c.ActionsApplied))
		fmt.Fprintf(w, "fatsim_actions_total{outcome=\"rejected\"} %d\n\n", atomic.LoadInt64(&c.ActionsRejected))

		fmt.Fprintf(w, "# HELP fatsim_saves_written Total state saves\n")
		fmt.Fprintf(w, "# TYPE fatsim_saves_written counter\n")
		fmt.Fprintf(w, "fatsim_saves_written %d\n\n", atomic.LoadInt64(&c.SavesWritten))

		fmt.Fprintf(w, "# HELP fatsim_save_errors Total failed state saves\n")
		fmt.Fprintf(w, "# TYPE fatsim_save_errors counter\n")
		fmt.Fprintf(w, "fatsim_save_errors %d\n\n", atomic.LoadInt64(&c.SaveErrors))

		fmt.Fprintf(w, "# HELP fatsim_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE fatsim_ws_connections gauge\n")
		fmt.Fprintf(w, "fatsim_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP fatsim_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE fatsim_ws_messages_total counter\n")
		fmt.Fprintf(w, "fatsim_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "fatsim_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
