package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clinic-portal/internal/models"
	"clinic-portal/pkg/response"
)

// Store keeps the upstream credential, user id and role for each logged-in
// session in redis, keyed by an opaque session id handed to the browser. This
// replaces keeping the JWT and role in browser storage.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

type record struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

func NewRedisStore(redisAddr string, ttl time.Duration) (*Store, error) {
	const op = "session.NewRedisStore"

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing redis client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Create stores a new session and returns its id.
func (s *Store) Create(ctx context.Context, userID int64, role models.Role, token string) (string, error) {
	const op = "session.Store.Create"

	id := uuid.NewString()

	data, err := json.Marshal(record{UserID: userID, Role: string(role), Token: token})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// Get resolves a session id. Unknown or expired ids yield ErrAuthExpired.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	const op = "session.Store.Get"

	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrAuthExpired)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	role, ok := models.ParseRole(rec.Role)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, response.ErrAuthExpired)
	}

	return &models.Session{
		ID:     id,
		UserID: rec.UserID,
		Role:   role,
		Token:  rec.Token,
	}, nil
}

// Delete terminates a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "session.Store.Delete"

	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
