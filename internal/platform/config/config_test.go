package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.SaveKey != "becomeFatSimulator" || cfg.TickRate != time.Second || cfg.EventLogSize != 10000 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FATSIM_ADDR", ":9999")
	t.Setenv("FATSIM_TICK_RATE", "250ms")
	t.Setenv("FATSIM_PROFILE", "stress")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.TickRate != 250*time.Millisecond {
		t.Errorf("Env not applied: %+v", cfg)
	}
	if cfg.Tuning().MaxClients != StressTestTuning().MaxClients {
		t.Errorf("Expected stress profile")
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FATSIM_SAVE_KEY=slot2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides a variable that is already set; t.Setenv
	// restores the original value after the test.
	t.Setenv("FATSIM_SAVE_KEY", "")
	os.Unsetenv("FATSIM_SAVE_KEY")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveKey != "slot2" {
		t.Errorf("Expected save key from .env, got %q", cfg.SaveKey)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("FATSIM_TICK_RATE", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("Expected parse error, got %v", err)
	}
}

func TestLoadRejectsNonPositiveTick(t *testing.T) {
	t.Setenv("FATSIM_TICK_RATE", "0s")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("Expected error for zero tick rate")
	}
}

func TestTuningFor(t *testing.T) {
	if TuningFor("LOW").MaxClients != LowResourceTuning().MaxClients {
		t.Errorf("Profile names are case-insensitive")
	}
	if TuningFor("bogus").ClientSendBuffer != DefaultTuning().ClientSendBuffer {
		t.Errorf("Unknown profile should fall back to defaults")
	}
}

func TestAnalyze(t *testing.T) {
	snapshot := map[string]interface{}{
		"tick":      map[string]interface{}{"max_latency_ms": 150.0},
		"saves":     map[string]interface{}{"max_write_lat_ms": 1.0, "errors": int64(2)},
		"websocket": map[string]interface{}{"errors": int64(0)},
	}

	rec := Analyze(snapshot)
	if !rec.SlowerBroadcast || !rec.SlowStorage || rec.IncreaseBroadcastBuffer {
		t.Errorf("Unexpected recommendations: %+v", rec)
	}
	if len(rec.Notes) != 2 {
		t.Errorf("Expected 2 notes, got %v", rec.Notes)
	}

	tuned := ApplyRecommendations(DefaultTuning(), rec)
	if tuned.BroadcastInterval != 200*time.Millisecond {
		t.Errorf("Expected doubled interval, got %v", tuned.BroadcastInterval)
	}
}

func TestApplyRecommendationsCeilings(t *testing.T) {
	rec := &Recommendations{IncreaseBroadcastBuffer: true, SlowerBroadcast: true}
	tuned := DefaultTuning()
	for i := 0; i < 20; i++ {
		ApplyRecommendations(tuned, rec)
	}
	if tuned.BroadcastInterval != MaxBroadcastInterval {
		t.Errorf("Expected interval capped at %v, got %v", MaxBroadcastInterval, tuned.BroadcastInterval)
	}
	if tuned.ClientSendBuffer != MaxClientSendBuffer || tuned.BroadcastChannelBuffer != MaxBroadcastChannelBuffer {
		t.Errorf("Expected buffers capped, got %+v", tuned)
	}
}
