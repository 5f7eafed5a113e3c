package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

const historyKey = "salesmap:edit-history"

// redisHistoryRepository 수정 기록을 Redis 리스트로 보관한다.
// LPUSH로 머리에 넣고 LTRIM으로 상한을 유지하므로 여러 서버 인스턴스가
// 같은 로그를 공유할 수 있다.
type redisHistoryRepository struct {
	client     *redis.Client
	maxEntries int
}

func NewRedisHistoryRepository(client *redis.Client, maxEntries int) EditHistoryRepository {
	return &redisHistoryRepository{client: client, maxEntries: maxEntries}
}

func (r *redisHistoryRepository) Append(ctx context.Context, record model.EditRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal edit record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	if r.maxEntries > 0 {
		pipe.LTrim(ctx, historyKey, 0, int64(r.maxEntries-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to append edit record to Redis", err, map[string]interface{}{
			"recordID": record.ID,
		})
		return err
	}

	logger.Debug("Edit record appended to Redis", map[string]interface{}{
		"recordID":   record.ID,
		"storeID":    record.StoreID,
		"maxEntries": r.maxEntries,
	})
	return nil
}

func (r *redisHistoryRepository) List(ctx context.Context, limit int) ([]model.EditRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raws, err := r.client.LRange(ctx, historyKey, 0, stop).Result()
	if err != nil {
		logger.Error("Failed to read edit history from Redis", err, nil)
		return nil, err
	}

	records := make([]model.EditRecord, 0, len(raws))
	for _, raw := range raws {
		var rec model.EditRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			// 손상된 항목은 건너뛰고 나머지는 살린다
			logger.Warn("Skipping malformed edit record", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *redisHistoryRepository) ListByStore(ctx context.Context, storeID string) ([]model.EditRecord, error) {
	all, err := r.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	var out []model.EditRecord
	for _, rec := range all {
		if rec.MatchesStore(storeID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *redisHistoryRepository) Count(ctx context.Context) (int, error) {
	n, err := r.client.LLen(ctx, historyKey).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
