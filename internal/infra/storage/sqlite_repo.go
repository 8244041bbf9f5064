package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/events"
)

// SQLiteSaveStore implements SaveStore for SQLite.
type SQLiteSaveStore struct {
	db *sql.DB
}

func NewSQLiteSaveStore(db *sql.DB) *SQLiteSaveStore {
	return &SQLiteSaveStore{db: db}
}

func (s *SQLiteSaveStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE key = ?`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read save %q: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *SQLiteSaveStore) Put(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO saves (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write save %q: %w", key, err)
	}
	return nil
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, save_key, timestamp, event_type, payload)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SaveKey, event.Timestamp.UTC(), event.EventType, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StoredEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var payloadStr string
		if err := rows.Scan(&e.ID, &e.SaveKey, &e.Timestamp, &e.EventType, &payloadStr); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteEventRepository) GetRecent(ctx context.Context, saveKey string, limit int, exclude ...string) ([]StoredEvent, error) {
	args := []interface{}{saveKey}
	filter := ""
	if len(exclude) > 0 {
		filter = " AND event_type NOT IN (" + strings.TrimSuffix(strings.Repeat("?,", len(exclude)), ",") + ")"
		for _, t := range exclude {
			args = append(args, t)
		}
	}
	args = append(args, limit)

	query := `SELECT id, save_key, timestamp, event_type, payload FROM (
		SELECT seq, id, save_key, timestamp, event_type, payload FROM events
		WHERE save_key = ?` + filter + ` ORDER BY seq DESC LIMIT ?
	) ORDER BY seq ASC`
	return r.getMany(ctx, query, args...)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, saveKey string, eventType string) ([]StoredEvent, error) {
	query := `SELECT id, save_key, timestamp, event_type, payload FROM events WHERE save_key = ? AND event_type = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, saveKey, eventType)
}

// EventSink adapts an EventRepository to the in-memory event log's
// write-through hook.
type EventSink struct {
	repo    EventRepository
	timeout time.Duration
}

func NewEventSink(repo EventRepository) *EventSink {
	return &EventSink{repo: repo, timeout: 5 * time.Second}
}

// Append implements events.EventPersister.
func (s *EventSink) Append(e events.GameEvent) error {
	payload, err := toPayloadMap(e.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload of %s: %w", e.ID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.repo.Append(ctx, StoredEvent{
		ID:        e.ID,
		SaveKey:   e.ActorID,
		Timestamp: e.Timestamp,
		EventType: string(e.Type),
		Payload:   payload,
	})
}

// toPayloadMap flattens a typed payload into the generic map stored in the ledger.
func toPayloadMap(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return map[string]interface{}{}, nil
	}
	if m, ok := v.(map[string]interface{}); ok {
		return m, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
