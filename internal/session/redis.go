package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"medquiz/internal/models"
)

// trialTTL bounds how long an abandoned trial session lingers in Redis
const trialTTL = 24 * time.Hour

// RedisStore keeps trial answers in a Redis list per session, so trial
// state survives process restarts and multiple instances
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func trialKey(key string) string {
	return fmt.Sprintf("trial:%s:answers", key)
}

func (s *RedisStore) Append(ctx context.Context, key string, answer models.TrialAnswer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("failed to marshal trial answer: %w", err)
	}

	redisKey := trialKey(key)
	if err := s.rdb.RPush(ctx, redisKey, data).Err(); err != nil {
		return fmt.Errorf("failed to append trial answer: %w", err)
	}

	// Refresh TTL on every write; the list disappears with the session
	return s.rdb.Expire(ctx, redisKey, trialTTL).Err()
}

func (s *RedisStore) List(ctx context.Context, key string) ([]models.TrialAnswer, error) {
	raw, err := s.rdb.LRange(ctx, trialKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list trial answers: %w", err)
	}

	answers := make([]models.TrialAnswer, 0, len(raw))
	for _, item := range raw {
		var answer models.TrialAnswer
		if err := json.Unmarshal([]byte(item), &answer); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trial answer: %w", err)
		}
		answers = append(answers, answer)
	}

	return answers, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, trialKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear trial session: %w", err)
	}
	return nil
}
