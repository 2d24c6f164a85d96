package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

const connectTimeout = 5 * time.Second

const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// RedisConfig captures the settings for the Redis-backed credential store.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStore persists credentials under three prefixed keys. Useful when the
// gateway runs in an ephemeral container and losing the session on every
// restart is not acceptable.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

func NewRedisStore(client *redis.Client, prefix string, log zerolog.Logger) *RedisStore {
	if prefix == "" {
		prefix = "projectman"
	}
	return &RedisStore{client: client, prefix: prefix, log: log}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *RedisStore) Load(ctx context.Context) (ports.Credentials, error) {
	values, err := s.client.MGet(ctx, s.key(keyAccessToken), s.key(keyRefreshToken), s.key(keyUser)).Result()
	if err != nil {
		return ports.Credentials{}, fmt.Errorf("redis mget: %w", err)
	}

	var creds ports.Credentials
	if v, ok := values[0].(string); ok {
		creds.AccessToken = v
	}
	if v, ok := values[1].(string); ok {
		creds.RefreshToken = v
	}
	if v, ok := values[2].(string); ok && v != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(v), &u); err != nil || u.Username == "" || !u.Role.Valid() {
			s.log.Warn().Msg("persisted user record unreadable, treating as signed out")
		} else {
			creds.User = &u
		}
	}
	return creds, nil
}

func (s *RedisStore) SaveTokens(ctx context.Context, access, refresh string) error {
	if err := s.client.Set(ctx, s.key(keyAccessToken), access, 0).Err(); err != nil {
		return fmt.Errorf("redis set access token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(keyRefreshToken), refresh, 0).Err(); err != nil {
		return fmt.Errorf("redis set refresh token: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveAccessToken(ctx context.Context, access string) error {
	if err := s.client.Set(ctx, s.key(keyAccessToken), access, 0).Err(); err != nil {
		return fmt.Errorf("redis set access token: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveUser(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(keyUser), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	return nil
}

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

func (s *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyRefreshToken)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(keyAccessToken), s.key(keyRefreshToken), s.key(keyUser)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	v, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", name, err)
	}
	return v, nil
}
