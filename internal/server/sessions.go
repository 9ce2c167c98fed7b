package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var errNoSession = errors.New("no valid session")

// Session is the explicit per-request auth context resolved from a bearer
// token. Created on login/signup, destroyed on logout.
type Session struct {
	Token  string
	UserID string
}

// SessionStore owns the session lifecycle: Create on login, Get per
// request, Delete on logout. Expired sessions resolve to errNoSession.
type SessionStore interface {
	Create(ctx context.Context, userID string) (Session, error)
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// SQLiteSessionStore keeps sessions in the sessions table.
type SQLiteSessionStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewSQLiteSessionStore(db *sql.DB, ttl time.Duration) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db, ttl: ttl}
}

func (s *SQLiteSessionStore) Create(ctx context.Context, userID string) (Session, error) {
	token := uuid.NewString()
	expires := time.Now().UTC().Add(s.ttl).Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)
	`, token, userID, expires)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, UserID: userID}, nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, token string) (Session, error) {
	var sess Session
	var expiresAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at FROM sessions WHERE id = ?
	`, token).Scan(&sess.Token, &sess.UserID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, errNoSession
	}
	if err != nil {
		return Session{}, err
	}

	expires, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || time.Now().After(expires) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token)
		return Session{}, errNoSession
	}
	return sess, nil
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token)
	return err
}

// RedisSessionStore keeps sessions in Redis with a TTL, for deployments
// where the API is scaled past a single SQLite file.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (Session, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("storing session: %w", err)
	}
	return Session{Token: token, UserID: userID}, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (Session, error) {
	userID, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, errNoSession
	}
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, UserID: userID}, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
