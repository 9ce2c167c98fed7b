package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizboard/api/internal/game"
)

const (
	demoEmail    = "demo@quizboard.local"
	demoPassword = "demo-password"
)

// SeedDemo creates a demo account with one ready-to-play round so a fresh
// install has something to click on. Idempotent: does nothing once the demo
// user exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, users UserStore, rounds RoundStore, catalog *game.Catalog) error {
	if _, err := users.UserByEmail(ctx, demoEmail); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        demoEmail,
		Name:         "Demo",
		PasswordHash: string(hash),
	}
	if err := users.CreateUser(ctx, u); err != nil {
		return err
	}

	categories := make([]string, 0, game.MaxCategories)
	for _, c := range catalog.Categories() {
		categories = append(categories, c.ID)
		if len(categories) == game.MaxCategories {
			break
		}
	}

	round, err := game.NewRound(uuid.NewString(), "Demo Night", u.ID, categories, []game.Team{
		{ID: uuid.NewString(), Name: "Red"},
		{ID: uuid.NewString(), Name: "Blue"},
	})
	if err != nil {
		return err
	}
	if err := rounds.CreateRound(ctx, round); err != nil {
		return err
	}

	logger.Info("demo account seeded", "email", demoEmail, "round", round.ID)
	return nil
}
