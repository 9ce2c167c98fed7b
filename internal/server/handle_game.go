package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizboard/api/internal/game"
)

func roundIDParam(r *http.Request) string {
	return chi.URLParam(r, "roundID")
}

// AnswerRequest is the request body for POST /api/rounds/{roundID}/answer.
// ChoiceIndex is set for choice questions, Text for free-text and range.
type AnswerRequest struct {
	QuestionID  string `json:"questionId"`
	ChoiceIndex *int   `json:"choiceIndex,omitempty"`
	Text        string `json:"text,omitempty"`
}

// AnswerResponse reports the outcome of an answer submission and the
// resulting game state.
type AnswerResponse struct {
	IsCorrect     bool       `json:"isCorrect"`
	Points        int        `json:"points"`
	Team          game.Team  `json:"team"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"`
	State         game.State `json:"state"`
}

// EndRoundResponse is returned after ending a round.
type EndRoundResponse struct {
	Winner game.Team  `json:"winner"`
	State  game.State `json:"state"`
}

func handleBoard(rounds RoundStore, cache *game.Cache, catalog *game.Catalog) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, game.BuildBoard(round, catalog))
	}
}

func handleAnswer(rounds RoundStore, cache *game.Cache, catalog *game.Catalog, broker *Broker) http.HandlerFunc {
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

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.QuestionID == "" {
			writeError(w, http.StatusBadRequest, "questionId is required")
			return
		}

		if round.State.IsEnded {
			writeError(w, http.StatusConflict, "round has ended")
			return
		}

		q, ok := catalog.Question(req.QuestionID)
		if !ok || !roundHasCategory(round, q.CategoryID) {
			writeError(w, http.StatusNotFound, "question not found in this round")
			return
		}

		if round.State.Answered(q.CategoryID, q.ID) {
			writeError(w, http.StatusConflict, "question already answered")
			return
		}

		team, ok := round.CurrentTeam()
		if !ok {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		isCorrect, err := q.Check(game.Submission{ChoiceIndex: req.ChoiceIndex, Text: req.Text})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var ev game.Event
		if isCorrect {
			ev = game.CorrectAnswer{
				TeamID:     team.ID,
				Points:     q.Points,
				CategoryID: q.CategoryID,
				QuestionID: q.ID,
			}
		} else {
			ev = game.IncorrectAnswer{CategoryID: q.CategoryID, QuestionID: q.ID}
		}

		state, err := cache.Apply(round.ID, ev)
		if errors.Is(err, game.ErrRoundEnded) {
			writeError(w, http.StatusConflict, "round has ended")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := AnswerResponse{
			IsCorrect: isCorrect,
			Points:    q.Points,
			Team:      team,
			State:     state,
		}
		if !isCorrect {
			resp.CorrectAnswer = q.CorrectAnswerText()
		}

		summary := &AnsweredSummary{
			CategoryID: q.CategoryID,
			QuestionID: q.ID,
			IsCorrect:  isCorrect,
		}
		if isCorrect {
			summary.TeamID = team.ID
			summary.Points = q.Points
		}
		broker.Publish(round.ID, SSEEvent{
			Type:     "state_updated",
			State:    &state,
			Answered: summary,
		})

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleEndRound(rounds RoundStore, cache *game.Cache, broker *Broker) http.HandlerFunc {
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

		state, err := cache.Apply(round.ID, game.EndGame{})
		if errors.Is(err, game.ErrRoundEnded) {
			writeError(w, http.StatusConflict, "round has already ended")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		round.State = state
		winner, _ := round.Winner()

		broker.Publish(round.ID, SSEEvent{
			Type:   "game_ended",
			State:  &state,
			Winner: &winner,
		})

		writeJSON(w, http.StatusOK, EndRoundResponse{Winner: winner, State: state})
	}
}

func roundHasCategory(r game.Round, categoryID string) bool {
	for _, cid := range r.Categories {
		if cid == categoryID {
			return true
		}
	}
	return false
}
