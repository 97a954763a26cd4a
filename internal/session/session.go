package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusrun/pkg/types"

	"github.com/go-redis/redis/v8"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const tokenKeyPrefix = "campusrun:session:"

// Store keeps session tokens in redis with an explicit TTL, keyed by an
// opaque token the browser carries in an encrypted cookie. Replaces any
// in-process token state so the server can restart (or scale out)
// without logging everyone out.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Connect parses a redis URL, connects, and pings.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// Create mints a new session token for the user.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token, err := gonanoid.New(32)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	err = s.client.Set(ctx, tokenKeyPrefix+token, userID, s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}

	return token, nil
}

// UserID resolves a token back to its user. Unknown or expired tokens
// yield ErrNotAuthenticated.
func (s *Store) UserID(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", types.ErrNotAuthenticated
		}
		return "", fmt.Errorf("lookup session token: %w", err)
	}

	return userID, nil
}

// Destroy drops the token. Destroying an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	err := s.client.Del(ctx, tokenKeyPrefix+token).Err()
	return err
}
