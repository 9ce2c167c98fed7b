package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizboard/api/internal/game"
)

// SQLiteStore implements RoundStore and UserStore against the rounds and
// users tables. Round rows keep teams, scores, and answered questions as
// JSON-encoded columns.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateRound(ctx context.Context, r game.Round) error {
	categories, err := json.Marshal(r.Categories)
	if err != nil {
		return err
	}
	teams, err := json.Marshal(r.Teams)
	if err != nil {
		return err
	}
	scores, err := json.Marshal(r.State.Scores)
	if err != nil {
		return err
	}
	answered, err := json.Marshal(r.State.AnsweredQuestions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rounds (id, name, user_id, categories, teams, created_at,
			current_turn_idx, scores, answered_questions, is_ended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Name, r.UserID, string(categories), string(teams),
		r.CreatedAt.Format(time.RFC3339Nano),
		r.State.CurrentTurnIdx, string(scores), string(answered), boolToInt(r.State.IsEnded))
	return err
}

func (s *SQLiteStore) GetRound(ctx context.Context, id string) (game.Round, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, user_id, categories, teams, created_at,
			current_turn_idx, scores, answered_questions, is_ended
		FROM rounds WHERE id = ?
	`, id)

	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Round{}, ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) ListRoundsByOwner(ctx context.Context, userID string) ([]game.Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, user_id, categories, teams, created_at,
			current_turn_idx, scores, answered_questions, is_ended
		FROM rounds WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []game.Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// UpdateGameState builds the SET clause from the non-nil delta fields only,
// so an end-game write cannot clobber a concurrent score write and vice
// versa. There is no compare-and-swap: the last writer wins per field.
func (s *SQLiteStore) UpdateGameState(ctx context.Context, id string, upd game.StateUpdate) error {
	var sets []string
	var args []any

	if upd.CurrentTurnIdx != nil {
		sets = append(sets, "current_turn_idx = ?")
		args = append(args, *upd.CurrentTurnIdx)
	}
	if upd.Scores != nil {
		scores, err := json.Marshal(upd.Scores)
		if err != nil {
			return err
		}
		sets = append(sets, "scores = ?")
		args = append(args, string(scores))
	}
	if upd.AnsweredQuestions != nil {
		answered, err := json.Marshal(upd.AnsweredQuestions)
		if err != nil {
			return err
		}
		sets = append(sets, "answered_questions = ?")
		args = append(args, string(answered))
	}
	if upd.IsEnded != nil {
		sets = append(sets, "is_ended = ?")
		args = append(args, boolToInt(*upd.IsEnded))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE rounds SET %s WHERE id = ?`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (game.Round, error) {
	var r game.Round
	var categories, teams, createdAt, scores, answered string
	var isEnded int

	err := row.Scan(&r.ID, &r.Name, &r.UserID, &categories, &teams, &createdAt,
		&r.State.CurrentTurnIdx, &scores, &answered, &isEnded)
	if err != nil {
		return game.Round{}, err
	}

	if err := json.Unmarshal([]byte(categories), &r.Categories); err != nil {
		return game.Round{}, fmt.Errorf("round %s: decoding categories: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(teams), &r.Teams); err != nil {
		return game.Round{}, fmt.Errorf("round %s: decoding teams: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(scores), &r.State.Scores); err != nil {
		return game.Round{}, fmt.Errorf("round %s: decoding scores: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(answered), &r.State.AnsweredQuestions); err != nil {
		return game.Round{}, fmt.Errorf("round %s: decoding answered questions: %w", r.ID, err)
	}
	if r.State.AnsweredQuestions == nil {
		r.State.AnsweredQuestions = []string{}
	}
	r.State.IsEnded = isEnded != 0
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return r, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.Name, u.PasswordHash)
	return err
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
