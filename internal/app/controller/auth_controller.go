package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/errors"
	"github.com/superae99/salesmap-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login 운영자 로그인
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "아이디와 비밀번호를 입력해주세요")
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req.OperatorID, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "아이디 또는 비밀번호가 올바르지 않습니다")
			return
		}
		log.Error("Login failed", err, nil)
		info := errors.ParseError(err, "auth")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout 현재 토큰 폐기
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		errors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		log.Error("Logout failed", err, nil)
		info := errors.ParseError(err, "auth")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "로그아웃되었습니다",
	})
}
