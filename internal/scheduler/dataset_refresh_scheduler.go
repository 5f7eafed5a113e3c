package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// DatasetRefreshScheduler 데이터셋 주기 재적재 스케줄러.
// 저장소(GitHub/S3)에 서버 밖에서 커밋된 변경을 장시간 떠 있는
// 프로세스가 주워 담게 한다.
type DatasetRefreshScheduler struct {
	cron           *cron.Cron
	datasetService service.DatasetService
	spec           string
}

// NewDatasetRefreshScheduler spec은 cron 표현식 (예: "*/30 * * * *")
func NewDatasetRefreshScheduler(datasetService service.DatasetService, spec string) *DatasetRefreshScheduler {
	return &DatasetRefreshScheduler{
		cron:           cron.New(),
		datasetService: datasetService,
		spec:           spec,
	}
}

// Start 스케줄러 시작. spec이 비어 있으면 아무 것도 하지 않는다.
func (s *DatasetRefreshScheduler) Start() error {
	if s.spec == "" {
		logger.Info("Dataset refresh scheduler disabled (no cron spec)", nil)
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled dataset refresh", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := s.datasetService.Refresh(ctx); err != nil {
			logger.Error("Scheduled dataset refresh failed", err, map[string]interface{}{
				"backend": s.datasetService.StorageName(),
			})
			return
		}

		stats := s.datasetService.Stats()
		logger.Info("Scheduled dataset refresh complete", map[string]interface{}{
			"records":   stats.Total,
			"matched":   stats.Matched,
			"matchRate": stats.MatchRate(),
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for dataset refresh", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Dataset refresh scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop 스케줄러 중지
func (s *DatasetRefreshScheduler) Stop() {
	logger.Info("Stopping dataset refresh scheduler...", nil)
	s.cron.Stop()
	logger.Info("Dataset refresh scheduler stopped", nil)
}
