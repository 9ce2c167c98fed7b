package server

import (
	"context"
	"errors"

	"github.com/quizboard/api/internal/game"
)

var ErrNotFound = errors.New("not found")

// RoundStore persists rounds with their embedded game state.
type RoundStore interface {
	CreateRound(ctx context.Context, r game.Round) error
	GetRound(ctx context.Context, id string) (game.Round, error)
	ListRoundsByOwner(ctx context.Context, userID string) ([]game.Round, error)

	// UpdateGameState merges a partial delta into the stored state. Only
	// non-nil fields are written; concurrent writers are last-write-wins.
	UpdateGameState(ctx context.Context, id string, upd game.StateUpdate) error
}

// User is an account record. PasswordHash never leaves the store layer.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
}
