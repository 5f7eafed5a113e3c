package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	GitHub    GitHubConfig
	S3        S3Config
	Redis     RedisConfig
	Auth      AuthConfig
	History   HistoryConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// StorageConfig 데이터 저장 백엔드 선택
// Backend: "file" | "github" | "s3" (빈 값이면 GITHUB_TOKEN 유무로 자동 선택)
type StorageConfig struct {
	Backend    string
	DataPath   string // 로컬 파일 백엔드: 거래처 JSON 경로
	RosterPath string // 영업사원 로스터 JSON 경로 (빈 값이면 salesInfo에서 유도)
}

type GitHubConfig struct {
	Token    string
	Owner    string
	Repo     string
	DataPath string // 저장소 내 데이터 파일 경로
	BaseURL  string
}

type S3Config struct {
	Region          string
	Bucket          string
	Key             string // 데이터 스냅샷 오브젝트 키
	AccessKeyID     string
	SecretAccessKey string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig 운영자 계정 (환경변수 기반 단일 계정)
type AuthConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	OperatorID        string
	OperatorPWHash    string // bcrypt 해시
}

type HistoryConfig struct {
	MaxEntries int // 서버측 수정 기록 보관 상한
}

type SchedulerConfig struct {
	RefreshSpec string // 데이터 재적재 cron 표현식 (빈 값이면 비활성)
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Storage: StorageConfig{
			Backend:    getEnv("STORAGE_BACKEND", ""),
			DataPath:   getEnv("DATA_PATH", "data/output_address.json"),
			RosterPath: getEnv("ROSTER_PATH", "data/juso_output_file.json"),
		},
		GitHub: GitHubConfig{
			Token:    getEnv("GITHUB_TOKEN", ""),
			Owner:    getEnv("GITHUB_OWNER", "superae99"),
			Repo:     getEnv("GITHUB_REPO", "Map"),
			DataPath: getEnv("GITHUB_DATA_PATH", "data/output_address.json"),
			BaseURL:  getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", "salesmap-data"),
			Key:             getEnv("AWS_S3_DATA_KEY", "data/output_address.json"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry: parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "8h")),
			OperatorID:        getEnv("OPERATOR_ID", "admin"),
			OperatorPWHash:    getEnv("OPERATOR_PASSWORD_HASH", ""),
		},
		History: HistoryConfig{
			MaxEntries: parseInt(getEnv("EDIT_HISTORY_MAX", "1000"), 1000),
		},
		Scheduler: SchedulerConfig{
			RefreshSpec: getEnv("DATA_REFRESH_CRON", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	if config.History.MaxEntries < 1 {
		return nil, fmt.Errorf("EDIT_HISTORY_MAX must be positive, got %d", config.History.MaxEntries)
	}

	return config, nil
}

// ResolveBackend STORAGE_BACKEND이 비어있으면 원본 운영 방식대로
// GITHUB_TOKEN 유무로 github/file을 선택한다.
func (c *Config) ResolveBackend() string {
	if c.Storage.Backend != "" {
		return c.Storage.Backend
	}
	if c.GitHub.Token != "" {
		return "github"
	}
	return "file"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 8h", s)
		return 8 * time.Hour
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
