package service

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/superae99/salesmap-backend/internal/app/identity"
	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/storage"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// DatasetService 조인된 거래처 데이터의 단일 진실 공급원.
//
// 원본 구현은 joined/filtered/raw 세 컬렉션에 같은 레코드의 복사본을 들고
// 수동으로 동기화했다. 여기서는 파생 ID로 인덱싱된 레코드 목록 하나만 두고
// 조회 시 복사본을 내어준다. 수정이 모든 투영에 반영된다는 관찰 가능한
// 의미는 동일하고, 복사본 동기화 누락 버그만 사라진다.
type DatasetService interface {
	// Refresh 저장소에서 다시 읽어 조인을 재수행한다.
	Refresh(ctx context.Context) error
	// Records 조인된 전체 데이터의 복사본 (입력 순서 유지)
	Records(ctx context.Context) ([]model.StoreRecord, error)
	// Roster 영업사원 로스터의 복사본
	Roster(ctx context.Context) ([]model.SalespersonRecord, error)
	// FindByID 파생 ID로 거래처 1건 조회
	FindByID(ctx context.Context, storeID string) (model.StoreRecord, error)
	// ReplaceRecord 같은 파생 ID를 가진 모든 복사본을 교체한다.
	// 대상이 없으면 ErrStoreNotFound.
	ReplaceRecord(ctx context.Context, updated model.StoreRecord) error
	// Persist 현재 상태를 저장소에 기록하고 백엔드 식별자를 반환한다.
	Persist(ctx context.Context, message string) (string, error)
	// Stats 마지막 조인의 매칭 통계
	Stats() JoinStats
	// StorageName 사용 중인 저장 백엔드 이름
	StorageName() string
}

type datasetService struct {
	gateway    storage.Gateway
	joiner     JoinService
	resolver   identity.Resolver
	rosterPath string

	mu      sync.RWMutex
	loaded  bool
	records []model.StoreRecord
	index   map[string][]int // 파생 ID → 레코드 위치 (중복 ID 허용)
	roster  []model.SalespersonRecord
	stats   JoinStats
}

func NewDatasetService(gateway storage.Gateway, joiner JoinService, resolver identity.Resolver, rosterPath string) DatasetService {
	return &datasetService{
		gateway:    gateway,
		joiner:     joiner,
		resolver:   resolver,
		rosterPath: rosterPath,
	}
}

func (s *datasetService) Refresh(ctx context.Context) error {
	stores, err := s.gateway.Load(ctx)
	if err != nil {
		logger.Error("Failed to load store dataset", err, map[string]interface{}{
			"backend": s.gateway.Name(),
		})
		return err
	}

	roster := s.loadRoster(stores)

	joined, stats, err := s.joiner.Join(stores, roster)
	if err != nil {
		return err
	}

	index := make(map[string][]int, len(joined))
	for i := range joined {
		id := s.resolver.StoreID(&joined[i])
		index[id] = append(index[id], i)
	}

	s.mu.Lock()
	s.records = joined
	s.index = index
	s.roster = roster
	s.stats = stats
	s.loaded = true
	s.mu.Unlock()

	logger.Info("Dataset workspace refreshed", map[string]interface{}{
		"backend": s.gateway.Name(),
		"records": len(joined),
		"roster":  len(roster),
	})
	return nil
}

// loadRoster 로스터 파일이 있으면 읽고, 없으면 데이터셋에 박힌
// salesInfo를 사번 기준으로 중복 제거해서 유도한다.
func (s *datasetService) loadRoster(stores []model.StoreRecord) []model.SalespersonRecord {
	if s.rosterPath != "" {
		data, err := os.ReadFile(s.rosterPath)
		if err == nil {
			var roster []model.SalespersonRecord
			if err := json.Unmarshal(data, &roster); err == nil {
				for i := range roster {
					roster[i].NormalizeAdminCode()
				}
				return roster
			}
			logger.Warn("Roster file is not valid JSON, deriving from dataset", map[string]interface{}{
				"path": s.rosterPath,
			})
		} else if !os.IsNotExist(err) {
			logger.Warn("Failed to read roster file, deriving from dataset", map[string]interface{}{
				"path":  s.rosterPath,
				"error": err.Error(),
			})
		}
	}

	seen := make(map[string]struct{})
	var roster []model.SalespersonRecord
	for _, store := range stores {
		if store.SalesInfo == nil {
			continue
		}
		key := store.SalesInfo.EmployeeNumber.Norm()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		person := *store.SalesInfo
		person.NormalizeAdminCode()
		roster = append(roster, person)
	}
	return roster
}

func (s *datasetService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *datasetService) Records(ctx context.Context) ([]model.StoreRecord, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.StoreRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *datasetService) Roster(ctx context.Context) ([]model.SalespersonRecord, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SalespersonRecord, len(s.roster))
	copy(out, s.roster)
	return out, nil
}

func (s *datasetService) FindByID(ctx context.Context, storeID string) (model.StoreRecord, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return model.StoreRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	positions, ok := s.index[storeID]
	if !ok || len(positions) == 0 {
		return model.StoreRecord{}, ErrStoreNotFound
	}
	return s.records[positions[0]].Clone(), nil
}

func (s *datasetService) ReplaceRecord(ctx context.Context, updated model.StoreRecord) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	id := s.resolver.StoreID(&updated)

	s.mu.Lock()
	defer s.mu.Unlock()

	positions, ok := s.index[id]
	if !ok || len(positions) == 0 {
		return ErrStoreNotFound
	}

	for _, pos := range positions {
		s.records[pos] = updated.Clone()
	}

	logger.Debug("Record replaced in workspace", map[string]interface{}{
		"storeId": id,
		"copies":  len(positions),
	})
	return nil
}

func (s *datasetService) Persist(ctx context.Context, message string) (string, error) {
	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return "", ErrDataNotReady
	}
	snapshot := make([]model.StoreRecord, len(s.records))
	for i, r := range s.records {
		snapshot[i] = r.Clone()
	}
	s.mu.RUnlock()

	return s.gateway.Save(ctx, snapshot, message)
}

func (s *datasetService) Stats() JoinStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *datasetService) StorageName() string {
	return s.gateway.Name()
}
