package service

import (
	"context"
	"errors"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/repository"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// PreferenceService 운영자의 필터 설정 저장/복원.
// 명시적인 저장/복원 요청에만 반응한다. 데이터 로드 시 자동 저장은 없다.
type PreferenceService interface {
	Restore(ctx context.Context, operatorID string) (*model.FilterState, error)
	Save(ctx context.Context, operatorID string, state model.FilterState) error
	Clear(ctx context.Context, operatorID string) error
}

type preferenceService struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo}
}

func (s *preferenceService) Restore(ctx context.Context, operatorID string) (*model.FilterState, error) {
	state, err := s.repo.Get(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPreferenceNotFound
		}
		return nil, err
	}
	return state, nil
}

func (s *preferenceService) Save(ctx context.Context, operatorID string, state model.FilterState) error {
	if err := s.repo.Save(ctx, operatorID, state); err != nil {
		return err
	}
	logger.Info("Filter preference saved", map[string]interface{}{
		"operatorID":  operatorID,
		"branch":      state.Branch,
		"office":      state.Office,
		"salespeople": len(state.Salespeople),
	})
	return nil
}

func (s *preferenceService) Clear(ctx context.Context, operatorID string) error {
	err := s.repo.Delete(ctx, operatorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPreferenceNotFound
	}
	return err
}
