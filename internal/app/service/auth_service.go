package service

import (
	"context"
	"time"

	"github.com/superae99/salesmap-backend/config"
	"github.com/superae99/salesmap-backend/pkg/logger"
	"github.com/superae99/salesmap-backend/pkg/redis"
	"github.com/superae99/salesmap-backend/pkg/util"
)

const operatorRole = "operator"

// LoginResult 발급된 토큰과 만료 정보
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // 초 단위
}

// AuthService 환경변수로 설정된 단일 운영자 계정의 로그인/로그아웃.
// 사용자 테이블은 없다. 이 도구의 쓰기 권한자는 운영자 한 명이다.
type AuthService interface {
	Login(ctx context.Context, operatorID, password string) (*LoginResult, error)
	// Logout 토큰을 남은 유효기간 동안 블랙리스트에 올린다.
	// Redis가 없으면 아무 일도 하지 않는다 (토큰은 만료로만 무효화).
	Logout(ctx context.Context, token string) error
}

type authService struct {
	cfg config.AuthConfig
}

func NewAuthService(cfg config.AuthConfig) AuthService {
	if cfg.OperatorPWHash == "" {
		logger.Warn("Operator password hash is not configured, login is disabled", nil)
	}
	return &authService{cfg: cfg}
}

func (s *authService) Login(ctx context.Context, operatorID, password string) (*LoginResult, error) {
	if s.cfg.OperatorPWHash == "" || operatorID != s.cfg.OperatorID {
		logger.Warn("Login attempt rejected", map[string]interface{}{
			"operatorID": operatorID,
		})
		return nil, ErrInvalidCredentials
	}

	if !util.VerifyPassword(s.cfg.OperatorPWHash, password) {
		logger.Warn("Login attempt with wrong password", map[string]interface{}{
			"operatorID": operatorID,
		})
		return nil, ErrInvalidCredentials
	}

	token, err := util.GenerateToken(operatorID, operatorRole, s.cfg.JWTSecret, s.cfg.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info("Operator logged in", map[string]interface{}{
		"operatorID": operatorID,
	})
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.AccessTokenExpiry / time.Second),
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if redis.GetClient() == nil {
		logger.Debug("Redis unavailable, skipping token blacklist", nil)
		return nil
	}

	claims, err := util.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		// 이미 만료되었거나 깨진 토큰은 폐기할 것이 없다
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return redis.BlacklistToken(ctx, token, remaining)
}
