package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	appconfig "github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/github"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// GitHubStorage 버전 관리되는 원격 저장소 백엔드.
// 데이터 파일의 blob SHA를 기억해 두었다가 저장 시 함께 보낸다.
// 다른 세션이 먼저 커밋했으면 SHA가 달라져 저장이 거부된다.
// 이때는 SaveError로 전파하고 재시도하지 않는다 (last-write-wins가 아니라
// 먼저 쓴 쪽이 이기는 지점은 백엔드의 SHA 검사뿐이다).
type GitHubStorage struct {
	client   *github.Client
	dataPath string

	mu      sync.Mutex
	lastSHA string // 마지막 Load에서 확인한 blob SHA
}

func NewGitHubStorage(cfg appconfig.GitHubConfig) (*GitHubStorage, error) {
	client, err := github.NewClient(github.Config{
		Token:   cfg.Token,
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return &GitHubStorage{
		client:   client,
		dataPath: cfg.DataPath,
	}, nil
}

func (s *GitHubStorage) Name() string { return "github" }

func (s *GitHubStorage) Load(ctx context.Context) ([]model.StoreRecord, error) {
	logger.Debug("Loading store data from GitHub", map[string]interface{}{
		"path": s.dataPath,
	})

	raw, sha, err := s.client.GetFile(ctx, s.dataPath)
	if err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: err}
	}

	var records []model.StoreRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	s.mu.Lock()
	s.lastSHA = sha
	s.mu.Unlock()

	logger.Info("Store data loaded from GitHub", map[string]interface{}{
		"path":  s.dataPath,
		"count": len(records),
		"sha":   sha,
	})
	return records, nil
}

func (s *GitHubStorage) Save(ctx context.Context, records []model.StoreRecord, message string) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}

	// 저장 직전에 최신 SHA를 다시 확인한다 (원본 구현과 동일한 순서).
	// 확인과 저장 사이의 경합은 백엔드가 SHA 불일치로 거부한다.
	_, sha, err := s.client.GetFile(ctx, s.dataPath)
	if err != nil {
		s.mu.Lock()
		sha = s.lastSHA
		s.mu.Unlock()
		if sha == "" {
			return "", &SaveError{Backend: s.Name(), Err: err}
		}
		logger.Warn("Failed to refresh blob SHA, using last known", map[string]interface{}{
			"error": err.Error(),
		})
	}

	commitSHA, err := s.client.PutFile(ctx, s.dataPath, data, message, sha)
	if err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}

	s.mu.Lock()
	s.lastSHA = ""
	s.mu.Unlock()

	logger.Info("Store data committed to GitHub", map[string]interface{}{
		"path":    s.dataPath,
		"count":   len(records),
		"commit":  commitSHA,
		"message": message,
	})
	return commitSHA, nil
}
