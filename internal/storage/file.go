package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// FileStorage 로컬 JSON 파일 백엔드 (개발 환경 및 폴백)
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Name() string { return "file" }

func (s *FileStorage) Load(ctx context.Context) ([]model.StoreRecord, error) {
	logger.Debug("Loading store data from local file", map[string]interface{}{
		"path": s.path,
	})

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: err}
	}

	var records []model.StoreRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	logger.Info("Store data loaded from local file", map[string]interface{}{
		"path":  s.path,
		"count": len(records),
	})
	return records, nil
}

func (s *FileStorage) Save(ctx context.Context, records []model.StoreRecord, message string) (string, error) {
	logger.Debug("Saving store data to local file", map[string]interface{}{
		"path":    s.path,
		"count":   len(records),
		"message": message,
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &SaveError{Backend: s.Name(), Err: err}
		}
	}

	// 쓰다가 중단되어도 기존 파일이 깨지지 않도록 임시 파일 후 rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}

	logger.Info("Store data saved to local file", map[string]interface{}{
		"path":  s.path,
		"count": len(records),
	})
	return s.path, nil
}
