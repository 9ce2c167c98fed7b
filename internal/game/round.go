// Package game defines the core domain types and game-state transitions.
// It has zero external dependencies — everything here is pure Go.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MinCategories = 2
	MaxCategories = 8
	MinTeams      = 2
	MaxTeams      = 10
)

var (
	ErrTooFewCategories  = fmt.Errorf("a round needs at least %d categories", MinCategories)
	ErrTooManyCategories = fmt.Errorf("a round allows at most %d categories", MaxCategories)
	ErrTooFewTeams       = fmt.Errorf("a round needs at least %d teams", MinTeams)
	ErrTooManyTeams      = fmt.Errorf("a round allows at most %d teams", MaxTeams)
	ErrEmptyName         = errors.New("name must not be empty")
	ErrDuplicateTeamID   = errors.New("team ids must be unique within a round")
)

// Team is a scoring unit within a round.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Round is a single playable game instance: teams and categories plus the
// embedded mutable game state. Immutable after creation except through
// State mutation.
type Round struct {
	ID         string
	Name       string
	UserID     string
	Categories []string
	Teams      []Team
	CreatedAt  time.Time
	State      State
}

// NewRound validates the inputs and returns a round with a freshly
// initialized game state: turn index 0, all scores 0, nothing answered.
// Categories are deduplicated preserving order.
func NewRound(id, name, userID string, categories []string, teams []Team) (Round, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Round{}, ErrEmptyName
	}

	deduped := make([]string, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		deduped = append(deduped, c)
	}
	if len(deduped) < MinCategories {
		return Round{}, ErrTooFewCategories
	}
	if len(deduped) > MaxCategories {
		return Round{}, ErrTooManyCategories
	}

	if len(teams) < MinTeams {
		return Round{}, ErrTooFewTeams
	}
	if len(teams) > MaxTeams {
		return Round{}, ErrTooManyTeams
	}
	ids := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			return Round{}, fmt.Errorf("team %q: %w", t.ID, ErrEmptyName)
		}
		if _, ok := ids[t.ID]; ok {
			return Round{}, fmt.Errorf("team %q: %w", t.ID, ErrDuplicateTeamID)
		}
		ids[t.ID] = struct{}{}
	}

	return Round{
		ID:         id,
		Name:       name,
		UserID:     userID,
		Categories: deduped,
		Teams:      teams,
		CreatedAt:  time.Now().UTC(),
		State:      NewState(teams),
	}, nil
}

// CurrentTeam returns the team whose turn it is, or false when the turn
// index is out of bounds for the team list.
func (r Round) CurrentTeam() (Team, bool) {
	if r.State.CurrentTurnIdx < 0 || r.State.CurrentTurnIdx >= len(r.Teams) {
		return Team{}, false
	}
	return r.Teams[r.State.CurrentTurnIdx], true
}

// Winner returns the team with the highest score. Ties are broken by team
// order in the round. Returns false for a round with no teams.
func (r Round) Winner() (Team, bool) {
	if len(r.Teams) == 0 {
		return Team{}, false
	}
	best := r.Teams[0]
	bestScore := r.State.Scores[best.ID]
	for _, t := range r.Teams[1:] {
		if s := r.State.Scores[t.ID]; s > bestScore {
			best, bestScore = t, s
		}
	}
	return best, true
}
