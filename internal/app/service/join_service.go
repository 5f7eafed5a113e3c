package service

import (
	"errors"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

var (
	ErrStoreNotFound         = errors.New("거래처를 찾을 수 없습니다")
	ErrNoChanges             = errors.New("변경할 내용이 없습니다")
	ErrInvalidEmployeeNumber = errors.New("사번은 숫자여야 합니다")
	ErrDataNotReady          = errors.New("데이터가 아직 준비되지 않았습니다")
	ErrPreferenceNotFound    = errors.New("저장된 필터 설정이 없습니다")
	ErrInvalidCredentials    = errors.New("아이디 또는 비밀번호가 올바르지 않습니다")
	ErrInvalidDataset        = errors.New("데이터 형식이 올바르지 않습니다")
)

// JoinStats 조인 결과 관측치. 매칭률이 낮은 것은 경고일 뿐 조인 실패가
// 아니다. 로스터에 없는 사번을 단 거래처도 지도에는 떠야 한다.
type JoinStats struct {
	Total   int
	Matched int
}

// MatchRate 0~1. 전체가 0건이면 1을 반환한다 (빈 데이터는 경고 대상이 아님).
func (s JoinStats) MatchRate() float64 {
	if s.Total == 0 {
		return 1
	}
	return float64(s.Matched) / float64(s.Total)
}

// JoinService 거래처 주소 데이터와 영업사원 로스터를 담당 사번으로 조인한다.
type JoinService interface {
	// Join 거래처별로 로스터를 찾아 salesInfo를 붙인다.
	// 출력 길이는 항상 입력 거래처 수와 같고 순서도 유지된다.
	Join(stores []model.StoreRecord, roster []model.SalespersonRecord) ([]model.StoreRecord, JoinStats, error)
}

type joinService struct{}

func NewJoinService() JoinService {
	return &joinService{}
}

const lowMatchRateThreshold = 0.5

func (s *joinService) Join(stores []model.StoreRecord, roster []model.SalespersonRecord) ([]model.StoreRecord, JoinStats, error) {
	if stores == nil || roster == nil {
		return nil, JoinStats{}, ErrInvalidDataset
	}

	logger.Debug("Joining store data with salesperson roster", map[string]interface{}{
		"stores": len(stores),
		"roster": len(roster),
	})

	// 사번 → 로스터 첫 매칭 항목. 같은 사번이 중복되면 첫 항목이 이긴다.
	byNumber := make(map[string]model.SalespersonRecord, len(roster))
	for _, person := range roster {
		key := person.EmployeeNumber.Norm()
		if key == "" {
			continue
		}
		if _, exists := byNumber[key]; !exists {
			byNumber[key] = person
		}
	}

	joined := make([]model.StoreRecord, len(stores))
	stats := JoinStats{Total: len(stores)}

	for i, store := range stores {
		record := store.Clone()
		record.SalesInfo = nil

		if key := store.EmployeeNumber.Norm(); key != "" {
			if person, ok := byNumber[key]; ok {
				info := person
				record.SalesInfo = &info
				stats.Matched++
			}
		}
		joined[i] = record
	}

	rate := stats.MatchRate()
	logger.Info("Store-roster join complete", map[string]interface{}{
		"total":     stats.Total,
		"matched":   stats.Matched,
		"unmatched": stats.Total - stats.Matched,
		"matchRate": rate,
	})
	if stats.Total > 0 && rate < lowMatchRateThreshold {
		logger.Warn("Join match rate below threshold", map[string]interface{}{
			"matchRate": rate,
			"threshold": lowMatchRateThreshold,
		})
	}

	return joined, stats, nil
}
