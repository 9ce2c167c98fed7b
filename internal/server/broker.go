package server

import (
	"encoding/json"
	"sync"

	"github.com/quizboard/api/internal/game"
)

// SSEEvent is the payload published to round subscribers.
type SSEEvent struct {
	Type     string           `json:"type"`
	State    *game.State      `json:"state,omitempty"`
	Winner   *game.Team       `json:"winner,omitempty"`
	Failure  *PersistNotice   `json:"failure,omitempty"`
	Answered *AnsweredSummary `json:"answered,omitempty"`
}

// PersistNotice reports a background write that failed to reach storage.
type PersistNotice struct {
	RoundID string `json:"roundId"`
	Error   string `json:"error"`
}

// AnsweredSummary tells subscribers which cell just resolved.
type AnsweredSummary struct {
	CategoryID string `json:"categoryId"`
	QuestionID string `json:"questionId"`
	IsCorrect  bool   `json:"isCorrect"`
	TeamID     string `json:"teamId,omitempty"`
	Points     int    `json:"points,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by round ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given round.
func (b *Broker) Subscribe(roundID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[roundID] == nil {
		b.subs[roundID] = make(map[chan []byte]struct{})
	}
	b.subs[roundID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the round's subscribers.
func (b *Broker) Unsubscribe(roundID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[roundID], ch)
	if len(b.subs[roundID]) == 0 {
		delete(b.subs, roundID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given round.
func (b *Broker) Publish(roundID string, event SSEEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[roundID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
