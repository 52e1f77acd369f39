package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	models "github.com/tripventure/flightdraft/internal"
)

const draftKeyPrefix = "booking:draft:"

// RedisStore persists one draft per session as a JSON value with a TTL
// matching the browsing-session lifetime of the draft.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewBookingDraft(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var draft models.BookingDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisStore) MergePatch(ctx context.Context, sessionID string, patch models.DraftPatch) (*models.BookingDraft, error) {
	draft, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Apply(patch)

	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encoding draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("writing draft: %w", err)
	}
	return draft, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}
