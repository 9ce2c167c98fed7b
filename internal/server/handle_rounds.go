package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/quizboard/api/internal/game"
)

// TeamRequest is one team in a round creation request. ID is optional;
// a UUID is assigned when blank.
type TeamRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateRoundRequest is the request body for POST /api/rounds.
type CreateRoundRequest struct {
	Name       string        `json:"name"`
	Categories []string      `json:"categories"`
	Teams      []TeamRequest `json:"teams"`
}

// RoundResponse is the full round representation, state included.
type RoundResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Categories []string    `json:"categories"`
	Teams      []game.Team `json:"teams"`
	CreatedAt  time.Time   `json:"createdAt"`
	State      game.State  `json:"state"`
}

// RoundSummary is the list-view representation.
type RoundSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TeamCount int       `json:"teamCount"`
	CreatedAt time.Time `json:"createdAt"`
	IsEnded   bool      `json:"isEnded"`
}

func roundResponse(r game.Round) RoundResponse {
	return RoundResponse{
		ID:         r.ID,
		Name:       r.Name,
		Categories: r.Categories,
		Teams:      r.Teams,
		CreatedAt:  r.CreatedAt,
		State:      r.State,
	}
}

func handleCreateRound(rounds RoundStore, cache *game.Cache, catalog *game.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		var req CreateRoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		for _, cid := range req.Categories {
			if _, ok := catalog.CategoryName(cid); !ok {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", cid))
				return
			}
		}

		teams := make([]game.Team, 0, len(req.Teams))
		for _, t := range req.Teams {
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			teams = append(teams, game.Team{ID: t.ID, Name: t.Name})
		}

		round, err := game.NewRound(uuid.NewString(), req.Name, sess.UserID, req.Categories, teams)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := rounds.CreateRound(r.Context(), round); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		cache.Load(round.ID, round.State, len(round.Teams))

		writeJSON(w, http.StatusCreated, roundResponse(round))
	}
}

func handleListRounds(rounds RoundStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		list, err := rounds.ListRoundsByOwner(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]RoundSummary, 0, len(list))
		for _, round := range list {
			out = append(out, RoundSummary{
				ID:        round.ID,
				Name:      round.Name,
				TeamCount: len(round.Teams),
				CreatedAt: round.CreatedAt,
				IsEnded:   round.State.IsEnded,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// loadRound fetches a round and overlays the cached game state, seeding the
// cache from storage on first access. The cached copy is authoritative once
// loaded.
func loadRound(r *http.Request, rounds RoundStore, cache *game.Cache, roundID string) (game.Round, error) {
	round, err := rounds.GetRound(r.Context(), roundID)
	if err != nil {
		return game.Round{}, err
	}
	cache.Load(round.ID, round.State, len(round.Teams))
	if state, ok := cache.Get(round.ID); ok {
		round.State = state
	}
	return round, nil
}

func handleGetRound(rounds RoundStore, cache *game.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := loadRound(r, rounds, cache, roundIDParam(r))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "round not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, roundResponse(round))
	}
}

func handleRoundQR(rounds RoundStore, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roundID := roundIDParam(r)
		if _, err := rounds.GetRound(r.Context(), roundID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "round not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		png, err := qrcode.Encode(baseURL+"/rounds/"+roundID, qrcode.Medium, 256)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
