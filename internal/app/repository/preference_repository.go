package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// PreferenceRepository 운영자별 필터 설정(지사/지점/영업사원 선택) 저장소.
// 마지막으로 쓰던 필터를 다음 세션에서 복원하는 용도.
type PreferenceRepository interface {
	Get(ctx context.Context, userID string) (*model.FilterState, error)
	Save(ctx context.Context, userID string, state model.FilterState) error
	Delete(ctx context.Context, userID string) error
}

type memoryPreferenceRepository struct {
	mu     sync.RWMutex
	states map[string]model.FilterState
}

func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{states: make(map[string]model.FilterState)}
}

func (r *memoryPreferenceRepository) Get(ctx context.Context, userID string) (*model.FilterState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := state.Clone()
	return &out, nil
}

func (r *memoryPreferenceRepository) Save(ctx context.Context, userID string, state model.FilterState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[userID] = state.Clone()
	return nil
}

func (r *memoryPreferenceRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.states[userID]; !ok {
		return ErrNotFound
	}
	delete(r.states, userID)
	return nil
}

type redisPreferenceRepository struct {
	client *redis.Client
}

func NewRedisPreferenceRepository(client *redis.Client) PreferenceRepository {
	return &redisPreferenceRepository{client: client}
}

func preferenceKey(userID string) string {
	return fmt.Sprintf("salesmap:preference:%s", userID)
}

func (r *redisPreferenceRepository) Get(ctx context.Context, userID string) (*model.FilterState, error) {
	raw, err := r.client.Get(ctx, preferenceKey(userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to read filter preference from Redis", err, map[string]interface{}{
			"userID": userID,
		})
		return nil, err
	}

	var state model.FilterState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filter preference: %w", err)
	}
	return &state, nil
}

func (r *redisPreferenceRepository) Save(ctx context.Context, userID string, state model.FilterState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal filter preference: %w", err)
	}

	if err := r.client.Set(ctx, preferenceKey(userID), data, 0).Err(); err != nil {
		logger.Error("Failed to save filter preference to Redis", err, map[string]interface{}{
			"userID": userID,
		})
		return err
	}

	logger.Debug("Filter preference saved", map[string]interface{}{
		"userID": userID,
	})
	return nil
}

func (r *redisPreferenceRepository) Delete(ctx context.Context, userID string) error {
	n, err := r.client.Del(ctx, preferenceKey(userID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
