package game

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotLoaded is returned when applying an event to a round the cache
	// has never seen.
	ErrNotLoaded = errors.New("round not loaded in cache")
	// ErrRoundEnded is returned for events against an ended round.
	ErrRoundEnded = errors.New("round has ended")
)

// StateWriter persists partial game-state deltas.
type StateWriter interface {
	UpdateGameState(ctx context.Context, roundID string, upd StateUpdate) error
}

// PersistFailure reports an asynchronous write that did not reach the
// store. The cached state is not rolled back.
type PersistFailure struct {
	RoundID string
	Err     error
}

const persistTimeout = 10 * time.Second

// Cache is a write-through game-state cache keyed by round id.
//
// Consistency contract: the in-memory state is authoritative for reads;
// persistence is best-effort and asynchronous; failures are delivered to
// the onFailure callback rather than silently dropped. Concurrent writers
// against the same round from separate processes remain last-write-wins at
// the store.
type Cache struct {
	writer    StateWriter
	onFailure func(PersistFailure)

	mu      sync.Mutex
	entries map[string]*cacheEntry

	wg sync.WaitGroup
}

type cacheEntry struct {
	state     State
	teamCount int
}

// NewCache builds a cache that persists through writer. onFailure may be
// nil when failed writes only need logging by the writer itself.
func NewCache(writer StateWriter, onFailure func(PersistFailure)) *Cache {
	if onFailure == nil {
		onFailure = func(PersistFailure) {}
	}
	return &Cache{
		writer:    writer,
		onFailure: onFailure,
		entries:   make(map[string]*cacheEntry),
	}
}

// Load seeds the cache with the persisted state for a round. Reloading an
// already-cached round is a no-op: the local copy stays authoritative.
func (c *Cache) Load(roundID string, s State, teamCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[roundID]; ok {
		return
	}
	c.entries[roundID] = &cacheEntry{state: s.clone(), teamCount: teamCount}
}

// Get returns the cached state for a round.
func (c *Cache) Get(roundID string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[roundID]
	if !ok {
		return State{}, false
	}
	return entry.state.clone(), true
}

// Apply runs the reducer against the cached state, stores the result as
// the new local truth, and kicks off an asynchronous persist of the delta.
// Events against an ended round are refused with ErrRoundEnded.
func (c *Cache) Apply(roundID string, ev Event) (State, error) {
	c.mu.Lock()
	entry, ok := c.entries[roundID]
	if !ok {
		c.mu.Unlock()
		return State{}, ErrNotLoaded
	}
	if entry.state.IsEnded {
		c.mu.Unlock()
		return State{}, ErrRoundEnded
	}

	next := Apply(entry.state, entry.teamCount, ev)
	entry.state = next
	snapshot := next.clone()
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := c.writer.UpdateGameState(ctx, roundID, Delta(snapshot, ev)); err != nil {
			c.onFailure(PersistFailure{RoundID: roundID, Err: err})
		}
	}()

	return snapshot, nil
}

// Flush blocks until all in-flight persists have completed. Intended for
// shutdown and tests.
func (c *Cache) Flush() {
	c.wg.Wait()
}

// Evict drops a round from the cache. The next read loads from the store.
func (c *Cache) Evict(roundID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, roundID)
}
