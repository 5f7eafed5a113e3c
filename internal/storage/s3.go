package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/pkg/logger"
)

// S3Storage 데이터 스냅샷을 단일 오브젝트로 보관하는 백엔드.
// GitHub처럼 커밋 이력은 없지만 (버킷 버저닝을 켜면 그쪽에서 해결)
// 대용량 파일을 저장소 커밋 없이 운영하고 싶을 때 선택한다.
type S3Storage struct {
	client *s3.Client
	bucket string
	key    string
}

func NewS3Storage(cfg appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		key:    cfg.Key,
	}
}

func (s *S3Storage) Name() string { return "s3" }

func (s *S3Storage) Load(ctx context.Context) ([]model.StoreRecord, error) {
	logger.Debug("Loading store data from S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    s.key,
	})

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: err}
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: err}
	}

	var records []model.StoreRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &LoadError{Backend: s.Name(), Err: err}
	}

	logger.Info("Store data loaded from S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    s.key,
		"count":  len(records),
	})
	return records, nil
}

func (s *S3Storage) Save(ctx context.Context, records []model.StoreRecord, message string) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"commit-message": message,
		},
	})
	if err != nil {
		return "", &SaveError{Backend: s.Name(), Err: err}
	}

	versionID := s.key
	if out.VersionId != nil {
		versionID = *out.VersionId
	}

	logger.Info("Store data saved to S3", map[string]interface{}{
		"bucket":  s.bucket,
		"key":     s.key,
		"count":   len(records),
		"version": versionID,
	})
	return versionID, nil
}
