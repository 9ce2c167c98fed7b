package server

import (
	"encoding/json"
	"testing"

	"github.com/quizboard/api/internal/game"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("r1")
	defer b.Unsubscribe("r1", ch)

	other := b.Subscribe("r2")
	defer b.Unsubscribe("r2", other)

	state := game.NewState([]game.Team{{ID: "t1", Name: "Red"}, {ID: "t2", Name: "Blue"}})
	b.Publish("r1", SSEEvent{Type: "state_updated", State: &state})

	select {
	case data := <-ch:
		var ev SSEEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != "state_updated" || ev.State == nil {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("subscriber received nothing")
	}

	select {
	case <-other:
		t.Fatalf("event leaked to another round's subscriber")
	default:
	}
}

func TestBrokerDropsSlowSubscribers(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("r1")
	defer b.Unsubscribe("r1", ch)

	// Fill the buffer past capacity; Publish must never block.
	for i := 0; i < 32; i++ {
		b.Publish("r1", SSEEvent{Type: "state_updated"})
	}

	if len(ch) != cap(ch) {
		t.Errorf("expected a full channel, got %d/%d", len(ch), cap(ch))
	}
}
