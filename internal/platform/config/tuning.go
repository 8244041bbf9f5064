package config

import (
	"strings"
	"time"
)

// Tuning holds buffer and rate parameters for the websocket layer.
type Tuning struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// How often the hub looks for state changes
	BroadcastInterval time.Duration

	// Rate limiting
	MaxMessagesPerSecond int
	MaxClients           int
}

// DefaultTuning returns sensible defaults for a single save.
func DefaultTuning() *Tuning {
	return &Tuning{
		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64,
		BroadcastInterval:      100 * time.Millisecond,
		MaxMessagesPerSecond:   50, // Fast clickers top out around 15/s
		MaxClients:             32,
	}
}

// StressTestTuning returns aggressive settings for the agitator.
func StressTestTuning() *Tuning {
	return &Tuning{
		BroadcastChannelBuffer: 1024,
		ClientSendBuffer:       256,
		BroadcastInterval:      50 * time.Millisecond,
		MaxMessagesPerSecond:   500,
		MaxClients:             500,
	}
}

// LowResourceTuning returns minimal settings for development.
func LowResourceTuning() *Tuning {
	return &Tuning{
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,
		BroadcastInterval:      250 * time.Millisecond,
		MaxMessagesPerSecond:   20,
		MaxClients:             4,
	}
}

// TuningFor maps a profile name to its settings. Unknown names get the defaults.
func TuningFor(profile string) *Tuning {
	switch strings.ToLower(profile) {
	case "stress":
		return StressTestTuning()
	case "low":
		return LowResourceTuning()
	default:
		return DefaultTuning()
	}
}

// Recommendations provides suggestions based on observed metrics.
type Recommendations struct {
	IncreaseBroadcastBuffer bool
	SlowerBroadcast         bool
	SlowStorage             bool
	Notes                   []string
}

// Analyze examines a metrics snapshot and returns tuning recommendations.
func Analyze(metrics map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	if tick, ok := metrics["tick"].(map[string]interface{}); ok {
		if maxLat, ok := tick["max_latency_ms"].(float64); ok && maxLat > 100 {
			rec.SlowerBroadcast = true
			rec.Notes = append(rec.Notes, "Tick latency exceeds 100ms - broadcast less often")
		}
	}

	if saves, ok := metrics["saves"].(map[string]interface{}); ok {
		if maxLat, ok := saves["max_write_lat_ms"].(float64); ok && maxLat > 50 {
			rec.SlowStorage = true
			rec.Notes = append(rec.Notes, "Save latency exceeds 50ms - check the database disk")
		}
		if errors, ok := saves["errors"].(int64); ok && errors > 0 {
			rec.SlowStorage = true
			rec.Notes = append(rec.Notes, "Save errors detected - progress may be lost on restart")
		}
	}

	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseBroadcastBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket errors detected - increase client send buffer")
		}
	}

	return rec
}

// Ceilings for repeated ApplyRecommendations calls.
const (
	MaxBroadcastChannelBuffer = 4096
	MaxClientSendBuffer       = 1024
	MaxBroadcastInterval      = 2 * time.Second
)

// ApplyRecommendations modifies tuning based on recommendations.
// Each call doubles at most once, never past the ceilings above.
func ApplyRecommendations(t *Tuning, rec *Recommendations) *Tuning {
	if rec.IncreaseBroadcastBuffer {
		t.BroadcastChannelBuffer = min(t.BroadcastChannelBuffer*2, MaxBroadcastChannelBuffer)
		t.ClientSendBuffer = min(t.ClientSendBuffer*2, MaxClientSendBuffer)
	}
	if rec.SlowerBroadcast {
		t.BroadcastInterval = min(t.BroadcastInterval*2, MaxBroadcastInterval)
	}
	return t
}
