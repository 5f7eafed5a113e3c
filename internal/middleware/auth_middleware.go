package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/superae99/salesmap-backend/internal/errors"
	"github.com/superae99/salesmap-backend/pkg/redis"
	"github.com/superae99/salesmap-backend/pkg/util"
)

// Context keys for operator information
const (
	OperatorIDKey   = "operator_id"
	OperatorRoleKey = "operator_role"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the operator token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "인증 형식이 올바르지 않습니다")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// 웹소켓 핸드셰이크는 헤더를 못 쓰므로 쿼리 파라미터 허용
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "로그인이 필요합니다")
				c.Abort()
				return
			}
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "로그인이 만료되었습니다")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "유효하지 않은 인증 토큰입니다")
			}
			c.Abort()
			return
		}

		// 로그아웃으로 폐기된 토큰인지 확인 (Redis 미사용 시 건너뜀)
		if redis.GetClient() != nil {
			revoked, err := redis.IsTokenBlacklisted(c.Request.Context(), token)
			if err == nil && revoked {
				log.Warn("Revoked token used", map[string]interface{}{
					"path":       c.Request.URL.Path,
					"operatorID": claims.OperatorID,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "폐기된 토큰입니다. 다시 로그인해주세요")
				c.Abort()
				return
			}
		}

		c.Set(OperatorIDKey, claims.OperatorID)
		c.Set(OperatorRoleKey, claims.Role)

		log.Debug("Operator authenticated successfully", map[string]interface{}{
			"operatorID": claims.OperatorID,
			"role":       claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthenticate sets operator info when a valid token is present,
// and continues as an anonymous viewer otherwise.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Debug("Token validation failed - continuing as viewer", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		c.Set(OperatorIDKey, claims.OperatorID)
		c.Set(OperatorRoleKey, claims.Role)
		c.Next()
	}
}

// OperatorID returns the authenticated operator id, or "" for anonymous viewers
func OperatorID(c *gin.Context) string {
	return c.GetString(OperatorIDKey)
}
