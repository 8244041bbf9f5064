// Package engine contains the game-state transitions and the loop that drives them.
//
// ARCHITECTURAL RULE: transition functions are pure. They take a game.State and
// return a new one. Only Engine owns a state value, persists it and records events.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

// DefaultTickRate is one idle tick per real second.
const DefaultTickRate = 1 * time.Second

// Ticker manages the idle loop heartbeat.
// It does NOT know about the game state - only time progression.
// Missed ticks (a suspended process, a slow handler) are dropped, never replayed.
type Ticker struct {
	rate       time.Duration
	logger     *logger.Logger
	onTick     func(ctx context.Context)
	tickNumber int64
	mu         sync.Mutex
	stopOnce   sync.Once
	stopChan   chan struct{}
}

// NewTicker creates a new ticker calling onTick every rate.
func NewTicker(rate time.Duration, onTick func(ctx context.Context), log *logger.Logger) *Ticker {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &Ticker{
		rate:     rate,
		logger:   log,
		onTick:   onTick,
		stopChan: make(chan struct{}),
	}
}

// Start begins the idle loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Infof("Idle ticker started (every %v).", t.rate)

	ticker := time.NewTicker(t.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Infof("Idle ticker stopped by context after %d ticks.", t.ticks())
			return
		case <-t.stopChan:
			t.logger.Infof("Idle ticker stopped manually after %d ticks.", t.ticks())
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// Stop gracefully stops the ticker. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}

func (t *Ticker) ticks() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tickNumber
}

func (t *Ticker) tick(ctx context.Context) {
	t.mu.Lock()
	t.tickNumber++
	t.mu.Unlock()

	t.onTick(ctx)
}
