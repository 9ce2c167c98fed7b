package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizboard/api/internal/database"
	"github.com/quizboard/api/internal/game"
	"github.com/quizboard/api/internal/migrations"
)

func newTestServer(t *testing.T) (http.Handler, *SQLiteStore, *game.Cache) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// An in-memory sqlite database is per-connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	catalog, err := game.LoadEmbeddedCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	store := NewSQLiteStore(db)
	cache := game.NewCache(store, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	addRoutes(r, Env{
		Logger:   logger,
		Rounds:   store,
		Users:    store,
		Sessions: NewSQLiteSessionStore(db, time.Hour),
		Catalog:  catalog,
		Cache:    cache,
		Broker:   NewBroker(),
		DB:       db,
		BaseURL:  "http://localhost:8080",
	})
	return r, store, cache
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, h http.Handler) string {
	t.Helper()

	w := doRequest(t, h, http.MethodPost, "/api/auth/signup", "", SignupRequest{
		Email:    "host@example.com",
		Name:     "Host",
		Password: "letmein-please",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.Token
}

func createRound(t *testing.T, h http.Handler, token string) RoundResponse {
	t.Helper()

	w := doRequest(t, h, http.MethodPost, "/api/rounds", token, CreateRoundRequest{
		Name:       "Friday Night",
		Categories: []string{"geo", "hist"},
		Teams: []TeamRequest{
			{ID: "t1", Name: "Red"},
			{ID: "t2", Name: "Blue"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create round: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp RoundResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestBoardLayout(t *testing.T) {
	h, _, _ := newTestServer(t)
	token := signup(t, h)
	round := createRound(t, h, token)

	w := doRequest(t, h, http.MethodGet, "/api/rounds/"+round.ID+"/board", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var board game.Board
	json.NewDecoder(w.Body).Decode(&board)

	if len(board.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(board.Columns))
	}
	if board.Columns[0].Name != "Geography" {
		t.Errorf("expected first column Geography, got %q", board.Columns[0].Name)
	}
	if len(board.Rows) != len(game.PointRows) {
		t.Fatalf("expected %d rows, got %d", len(game.PointRows), len(board.Rows))
	}
	// First row, geo column: first 100-point question.
	cell := board.Rows[0][0]
	if !cell.Available || cell.QuestionID != "q1" || cell.Points != 100 {
		t.Errorf("unexpected first cell: %+v", cell)
	}
}

func TestAnswerCorrectScoresAndAdvancesTurn(t *testing.T) {
	h, store, cache := newTestServer(t)
	token := signup(t, h)
	round := createRound(t, h, token)

	idx := 1 // Nile
	w := doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID:  "q1",
		ChoiceIndex: &idx,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AnswerResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if !resp.IsCorrect {
		t.Fatalf("expected correct answer")
	}
	if resp.Team.ID != "t1" {
		t.Errorf("expected team t1 to answer, got %q", resp.Team.ID)
	}
	if got := resp.State.Scores["t1"]; got != 100 {
		t.Errorf("expected t1 score 100, got %d", got)
	}
	if resp.State.CurrentTurnIdx != 1 {
		t.Errorf("expected turn to pass to index 1, got %d", resp.State.CurrentTurnIdx)
	}
	if !resp.State.Answered("geo", "q1") {
		t.Errorf("expected geo-q1 marked answered")
	}

	// The write-through persist is asynchronous; drain it and check storage.
	cache.Flush()
	stored, err := store.GetRound(context.Background(), round.ID)
	if err != nil {
		t.Fatalf("get stored round: %v", err)
	}
	if got := stored.State.Scores["t1"]; got != 100 {
		t.Errorf("expected persisted t1 score 100, got %d", got)
	}
	if stored.State.CurrentTurnIdx != 1 {
		t.Errorf("expected persisted turn index 1, got %d", stored.State.CurrentTurnIdx)
	}
}

func TestAnswerIncorrectKeepsTurn(t *testing.T) {
	h, _, _ := newTestServer(t)
	token := signup(t, h)
	round := createRound(t, h, token)

	idx := 0 // wrong: correct is 1989
	w := doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID:  "q7",
		ChoiceIndex: &idx,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AnswerResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.IsCorrect {
		t.Fatalf("expected incorrect answer")
	}
	if resp.CorrectAnswer != "1989" {
		t.Errorf("expected correct answer 1989, got %q", resp.CorrectAnswer)
	}
	if resp.State.CurrentTurnIdx != 0 {
		t.Errorf("expected turn to stay at 0, got %d", resp.State.CurrentTurnIdx)
	}
	if got := resp.State.Scores["t1"]; got != 0 {
		t.Errorf("expected no points awarded, got %d", got)
	}
	if !resp.State.Answered("hist", "q7") {
		t.Errorf("expected hist-q7 marked answered after a miss")
	}

	// The cell is locked now.
	w = doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID:  "q7",
		ChoiceIndex: &idx,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for answered question, got %d", w.Code)
	}
}

func TestAnswerRangeWithinTolerance(t *testing.T) {
	h, _, _ := newTestServer(t)
	token := signup(t, h)
	round := createRound(t, h, token)

	// Burj Khalifa is 828 m with tolerance 10.
	w := doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID: "q5",
		Text:       "820",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AnswerResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.IsCorrect {
		t.Fatalf("expected 820 to be within tolerance of 828")
	}
	if got := resp.State.Scores["t1"]; got != 500 {
		t.Errorf("expected 500 points, got %d", got)
	}
}

func TestAnswerValidation(t *testing.T) {
	h, _, _ := newTestServer(t)
	token := signup(t, h)
	round := createRound(t, h, token)

	// Choice question without a choice index.
	w := doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID: "q1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing choice, got %d", w.Code)
	}

	// Range question with a non-numeric answer.
	w = doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID: "q5",
		Text:       "very tall",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric answer, got %d", w.Code)
	}

	// Question from a category outside the round.
	idx := 2
	w = doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID:  "q13",
		ChoiceIndex: &idx,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-round question, got %d", w.Code)
	}
}

func TestEndRound(t *testing.T) {
	h, _, _ := newTestServer(t)
	token := signup(t, h)
	round := createRound(t, h, token)

	// Give t1 a lead.
	idx := 1
	doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID:  "q1",
		ChoiceIndex: &idx,
	})

	w := doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/end", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp EndRoundResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Winner.ID != "t1" {
		t.Errorf("expected t1 to win, got %q", resp.Winner.ID)
	}
	if !resp.State.IsEnded {
		t.Errorf("expected ended state")
	}

	// Further answers are refused.
	w = doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/answer", token, AnswerRequest{
		QuestionID:  "q7",
		ChoiceIndex: &idx,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 after end, got %d", w.Code)
	}

	// Ending twice is refused.
	w = doRequest(t, h, http.MethodPost, "/api/rounds/"+round.ID+"/end", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double end, got %d", w.Code)
	}
}
