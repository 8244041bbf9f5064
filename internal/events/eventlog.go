// Package events provides the action ledger for the game.
// Every applied transition is recorded here, in order, and never edited.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeCharacterCreated    EventType = "CHARACTER_CREATED"
	EventTypeClick               EventType = "CLICK"
	EventTypeFoodEaten           EventType = "FOOD_EATEN"
	EventTypeCosmeticBought      EventType = "COSMETIC_BOUGHT"
	EventTypeUpgradeBought       EventType = "UPGRADE_BOUGHT"
	EventTypeExercise            EventType = "EXERCISE"
	EventTypeRebirth             EventType = "REBIRTH"
	EventTypeLotteryPlayed       EventType = "LOTTERY_PLAYED"
	EventTypeAchievementUnlocked EventType = "ACHIEVEMENT_UNLOCKED"
)

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"` // Save key of the player
	Payload   interface{} `json:"payload"`  // Event-specific data
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// DefaultMaxEvents bounds how many events the log keeps in memory.
// The persister still receives every event.
const DefaultMaxEvents = 10000

// EventLog is the in-memory append-only log of game events.
// Positions are absolute: they count every event ever appended, including
// the ones trimmed from memory.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	dropped   int
	maxEvents int
	persister EventPersister
	onError   func(error)
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		maxEvents: DefaultMaxEvents,
		persister: persister,
	}
}

// SetMaxEvents changes the in-memory bound. Non-positive values are ignored.
func (el *EventLog) SetMaxEvents(n int) {
	if n <= 0 {
		return
	}
	el.mu.Lock()
	defer el.mu.Unlock()
	el.maxEvents = n
	el.trim()
}

// trim drops the oldest quarter of the window once it overflows, so appends
// do not copy the whole window each time. Caller holds the lock.
func (el *EventLog) trim() {
	if len(el.events) <= el.maxEvents {
		return
	}
	keep := el.maxEvents - el.maxEvents/4
	if keep < 1 {
		keep = 1
	}
	drop := len(el.events) - keep
	el.events = append([]GameEvent(nil), el.events[drop:]...)
	el.dropped += drop
}

// OnPersistError registers a callback for failed write-throughs.
func (el *EventLog) OnPersistError(fn func(error)) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.onError = fn
}

// Append adds a new event to the log. Events are immutable once appended.
// The write-through to the persister happens synchronously, in append order.
func (el *EventLog) Append(event GameEvent) {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)
	el.trim()

	if el.persister != nil {
		if err := el.persister.Append(event); err != nil && el.onError != nil {
			el.onError(err)
		}
	}
}

// GetByType returns the retained events of a type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns the events appended after the first n. Events already
// trimmed from memory are skipped.
func (el *EventLog) Since(n int) []GameEvent {
	out, _ := el.Read(n)
	return out
}

// Read is Since plus the position to resume from, read under one lock so
// a concurrent append is neither lost nor seen twice.
func (el *EventLog) Read(n int) ([]GameEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()

	end := el.dropped + len(el.events)
	i := n - el.dropped
	if i >= len(el.events) {
		return nil, end
	}
	if i < 0 {
		i = 0
	}
	out := make([]GameEvent, len(el.events)-i)
	copy(out, el.events[i:])
	return out, end
}

// Len returns the number of events ever appended.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.dropped + len(el.events)
}

// Replay returns a copy of the retained history.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
