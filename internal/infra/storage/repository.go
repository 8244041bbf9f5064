// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has never been saved.
var ErrNotFound = errors.New("save not found")

// SaveStore is a string key/value store for whole-state blobs.
type SaveStore interface {
	// Get returns the raw payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the payload stored under key.
	Put(ctx context.Context, key string, payload []byte) error
}

// StoredEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type StoredEvent struct {
	ID        string                 `json:"id" db:"id"`
	SaveKey   string                 `json:"save_key" db:"save_key"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for action-history persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event StoredEvent) error

	// GetRecent retrieves the newest limit events of a save, oldest first.
	// Events whose type is listed in exclude do not count toward limit.
	GetRecent(ctx context.Context, saveKey string, limit int, exclude ...string) ([]StoredEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, saveKey string, eventType string) ([]StoredEvent, error)
}
