package prefs

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"fx-signal-bot/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

// Redis stores chat pair selections under "prefs:pair:<chatID>", so
// selections survive restarts and are shared between bot instances.
type Redis struct {
	client *goredis.Client
}

// NewRedis creates a Redis-backed pair store and pings the server.
func NewRedis(addr, password string) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[prefs] connected to redis at %s", addr)
	return &Redis{client: client}, nil
}

// Client returns the underlying Redis client for health checks.
func (s *Redis) Client() *goredis.Client { return s.client }

func (s *Redis) Get(ctx context.Context, chatID int64) (model.Pair, bool, error) {
	val, err := s.client.Get(ctx, key(chatID)).Result()
	if err == goredis.Nil {
		return model.Pair{}, false, nil
	}
	if err != nil {
		return model.Pair{}, false, fmt.Errorf("prefs get: %w", err)
	}
	p, err := model.ParsePair(val)
	if err != nil {
		// Stored value predates a format change, treat as unset.
		return model.Pair{}, false, nil
	}
	return p, true, nil
}

func (s *Redis) Set(ctx context.Context, chatID int64, p model.Pair) error {
	if err := s.client.Set(ctx, key(chatID), p.String(), 0).Err(); err != nil {
		return fmt.Errorf("prefs set: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Redis) Close() error {
	return s.client.Close()
}

func key(chatID int64) string {
	return "prefs:pair:" + strconv.FormatInt(chatID, 10)
}
