package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// ErrNotFound 저장된 레코드가 없을 때
var ErrNotFound = errors.New("record not found")

// EditHistoryRepository 담당자 수정 기록 저장소.
// 기록은 최신이 앞에 오는 append-only 로그이며, 보관 상한을 넘으면
// 가장 오래된 항목부터 버린다. 기존 항목은 절대 수정하지 않는다.
type EditHistoryRepository interface {
	// Append 기록을 맨 앞에 추가하고 상한 초과분을 잘라낸다.
	Append(ctx context.Context, record model.EditRecord) error
	// List 최신순으로 최대 limit건 반환 (limit <= 0이면 전체)
	List(ctx context.Context, limit int) ([]model.EditRecord, error)
	// ListByStore 특정 거래처의 기록만 최신순으로 반환
	ListByStore(ctx context.Context, storeID string) ([]model.EditRecord, error)
	// Count 보관 중인 기록 수
	Count(ctx context.Context) (int, error)
}

// memoryHistoryRepository Redis 미사용 환경(로컬 개발, 단일 인스턴스)의
// 인메모리 구현. 프로세스 재시작 시 기록은 사라진다.
type memoryHistoryRepository struct {
	mu         sync.RWMutex
	records    []model.EditRecord
	maxEntries int
}

func NewMemoryHistoryRepository(maxEntries int) EditHistoryRepository {
	return &memoryHistoryRepository{maxEntries: maxEntries}
}

func (r *memoryHistoryRepository) Append(ctx context.Context, record model.EditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 최신 기록이 인덱스 0
	r.records = append([]model.EditRecord{record}, r.records...)
	if r.maxEntries > 0 && len(r.records) > r.maxEntries {
		evicted := len(r.records) - r.maxEntries
		r.records = r.records[:r.maxEntries]
		logger.Debug("Evicted oldest edit records", map[string]interface{}{
			"evicted":    evicted,
			"maxEntries": r.maxEntries,
		})
	}
	return nil
}

func (r *memoryHistoryRepository) List(ctx context.Context, limit int) ([]model.EditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.EditRecord, n)
	copy(out, r.records[:n])
	return out, nil
}

func (r *memoryHistoryRepository) ListByStore(ctx context.Context, storeID string) ([]model.EditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.EditRecord
	for _, rec := range r.records {
		if rec.MatchesStore(storeID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryHistoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}
