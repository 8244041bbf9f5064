package events

import (
	"errors"
	"fmt"
	"testing"
)

type recordingPersister struct {
	got []GameEvent
	err error
}

func (r *recordingPersister) Append(e GameEvent) error {
	r.got = append(r.got, e)
	return r.err
}

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(GameEvent{Type: EventTypeClick, ActorID: "P1"})

	all := el.Replay()
	if len(all) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(all))
	}
	if all[0].ID == "" {
		t.Errorf("Expected generated ID")
	}
	if all[0].Timestamp.IsZero() {
		t.Errorf("Expected generated timestamp")
	}
}

func TestAppendWritesThrough(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	el.Append(GameEvent{Type: EventTypeClick})
	el.Append(GameEvent{Type: EventTypeExercise})

	if len(p.got) != 2 || p.got[0].Type != EventTypeClick || p.got[1].Type != EventTypeExercise {
		t.Errorf("Persister did not receive events in order: %+v", p.got)
	}
}

func TestPersistErrorCallback(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	el := NewEventLog(p)

	var seen error
	el.OnPersistError(func(err error) { seen = err })
	el.Append(GameEvent{Type: EventTypeClick})

	if seen == nil {
		t.Errorf("Expected persist error to be reported")
	}
	if el.Len() != 1 {
		t.Errorf("Event must stay in memory even when persistence fails")
	}
}

func TestSinceAndGetByType(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(GameEvent{Type: EventTypeClick})
	el.Append(GameEvent{Type: EventTypeFoodEaten})
	el.Append(GameEvent{Type: EventTypeClick})

	if got := el.Since(1); len(got) != 2 || got[0].Type != EventTypeFoodEaten {
		t.Errorf("Unexpected Since(1): %+v", got)
	}
	if got := el.Since(5); got != nil {
		t.Errorf("Since past the end should be nil, got %+v", got)
	}
	if got := el.GetByType(EventTypeClick); len(got) != 2 {
		t.Errorf("Expected 2 click events, got %d", len(got))
	}

	// Returned slices are copies.
	all := el.Replay()
	all[0].Type = EventTypeRebirth
	if el.Replay()[0].Type != EventTypeClick {
		t.Errorf("Replay leaked internal slice")
	}
}

func TestLogTrimsOldestKeepingPositions(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)
	el.SetMaxEvents(8)

	for i := 0; i < 20; i++ {
		el.Append(GameEvent{Type: EventTypeClick, ActorID: fmt.Sprint(i)})
	}

	if len(p.got) != 20 {
		t.Errorf("Persister must see every event, got %d", len(p.got))
	}
	if el.Len() != 20 {
		t.Errorf("Len counts every append, got %d", el.Len())
	}
	kept := el.Replay()
	if len(kept) > 8 || len(kept) == 0 {
		t.Fatalf("Expected at most 8 retained events, got %d", len(kept))
	}
	if kept[len(kept)-1].ActorID != "19" {
		t.Errorf("Newest event lost: %+v", kept[len(kept)-1])
	}

	if got := el.Since(18); len(got) != 2 || got[0].ActorID != "18" {
		t.Errorf("Since uses absolute positions, got %+v", got)
	}
	if got := el.Since(0); len(got) != len(kept) {
		t.Errorf("Since before the window returns what is kept, got %d", len(got))
	}
	if got, next := el.Read(20); got != nil || next != 20 {
		t.Errorf("Nothing new after the last append, got %+v at %d", got, next)
	}
	if got, next := el.Read(0); len(got) != len(kept) || next != 20 {
		t.Errorf("Read from a trimmed position resumes at the end, got %d at %d", len(got), next)
	}
}
