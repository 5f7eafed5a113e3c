package storage

import (
	"context"
	"fmt"

	"github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/model"
)

// Gateway 거래처 JSON 배열의 읽기/쓰기 계약.
// 코어는 이 두 메서드만 알고, 백엔드 선택(로컬 파일 / GitHub / S3)은
// 전적으로 NewGateway 팩토리의 몫이다.
type Gateway interface {
	// Load 전체 거래처 배열을 읽는다. 실패 시 *LoadError.
	Load(ctx context.Context) ([]model.StoreRecord, error)
	// Save 전체 배열을 기록하고 백엔드 식별자(커밋 SHA, 파일 경로 등)를
	// 반환한다. 실패 시 *SaveError. 재시도는 하지 않는다.
	Save(ctx context.Context, records []model.StoreRecord, message string) (string, error)
	// Name 백엔드 이름 ("file" | "github" | "s3")
	Name() string
}

// LoadError 저장소에서 데이터를 읽지 못했을 때
type LoadError struct {
	Backend string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("데이터 로드 실패 (%s): %v", e.Backend, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError 저장소 기록이 거부되었을 때 (버전 충돌 포함)
type SaveError struct {
	Backend string
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("데이터 저장 실패 (%s): %v", e.Backend, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// NewGateway 설정에 따라 백엔드를 선택한다.
// STORAGE_BACKEND 미지정 시 원본과 같은 규칙: GITHUB_TOKEN이 있으면
// github, 없으면 로컬 파일.
func NewGateway(cfg *config.Config) (Gateway, error) {
	switch backend := cfg.ResolveBackend(); backend {
	case "file":
		return NewFileStorage(cfg.Storage.DataPath), nil
	case "github":
		return NewGitHubStorage(cfg.GitHub)
	case "s3":
		return NewS3Storage(cfg.S3), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
}
