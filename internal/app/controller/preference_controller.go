package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/errors"
	"github.com/superae99/salesmap-backend/internal/middleware"
)

// PreferenceController 운영자의 필터 설정 저장/복원/삭제.
// 저장은 명시적 요청으로만 일어난다.
type PreferenceController struct {
	preferenceService service.PreferenceService
}

func NewPreferenceController(preferenceService service.PreferenceService) *PreferenceController {
	return &PreferenceController{preferenceService: preferenceService}
}

func (ctrl *PreferenceController) GetPreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	state, err := ctrl.preferenceService.Restore(c.Request.Context(), middleware.OperatorID(c))
	if err != nil {
		if err == service.ErrPreferenceNotFound {
			errors.NotFound(c, errors.PreferenceNotFound, "저장된 필터 설정이 없습니다")
			return
		}
		log.Error("Failed to restore preferences", err, nil)
		info := errors.ParseError(err, "preference")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (ctrl *PreferenceController) SavePreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var state model.FilterState
	if err := c.ShouldBindJSON(&state); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "필터 설정 형식이 올바르지 않습니다")
		return
	}

	if err := ctrl.preferenceService.Save(c.Request.Context(), middleware.OperatorID(c), state); err != nil {
		log.Error("Failed to save preferences", err, nil)
		info := errors.ParseError(err, "preference")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "필터 설정이 저장되었습니다",
	})
}

func (ctrl *PreferenceController) DeletePreferences(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	err := ctrl.preferenceService.Clear(c.Request.Context(), middleware.OperatorID(c))
	if err != nil {
		if err == service.ErrPreferenceNotFound {
			errors.NotFound(c, errors.PreferenceNotFound, "저장된 필터 설정이 없습니다")
			return
		}
		log.Error("Failed to delete preferences", err, nil)
		info := errors.ParseError(err, "preference")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "필터 설정이 삭제되었습니다",
	})
}
