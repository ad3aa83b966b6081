package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultHistoryKey is the slot name the session history lives under.
const DefaultHistoryKey = "hbrothers_chat_sessions"

const redisOpTimeout = 5 * time.Second

// RedisStore keeps the session history under a single Redis string key,
// read and written wholesale.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(addr, password string, db int, key string) *RedisStore {
	if key == "" {
		key = DefaultHistoryKey
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load() ([]Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history slot %s: %w", s.key, err)
	}

	var sessions []Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("history slot %s holds corrupt JSON: %w", s.key, err)
	}
	return sessions, nil
}

func (s *RedisStore) Save(sessions []Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal session history: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write history slot %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
