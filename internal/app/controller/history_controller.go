package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/errors"
	"github.com/superae99/salesmap-backend/internal/middleware"
)

type HistoryController struct {
	historyService service.HistoryService
}

func NewHistoryController(historyService service.HistoryService) *HistoryController {
	return &HistoryController{historyService: historyService}
}

// GetHistory 수정 기록 조회 (store_id로 거래처별 필터, limit으로 건수 제한)
func (ctrl *HistoryController) GetHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID := c.Query("store_id")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errors.BadRequest(c, errors.ValidationInvalidFormat, "limit은 0 이상의 정수여야 합니다")
			return
		}
		limit = n
	}

	records, err := ctrl.historyService.List(c.Request.Context(), storeID, limit)
	if err != nil {
		log.Error("Failed to list edit history", err, map[string]interface{}{
			"store_id": storeID,
		})
		info := errors.ParseError(err, "history")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": records,
		"count":   len(records),
	})
}

// ExportHistory 수정 기록 내보내기. format=csv(기본)|xlsx
func (ctrl *HistoryController) ExportHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	format := c.DefaultQuery("format", "csv")
	stamp := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		data, err := ctrl.historyService.ExportCSV(c.Request.Context())
		if err != nil {
			log.Error("CSV export failed", err, nil)
			info := errors.ParseError(err, "export")
			errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
			return
		}
		filename := fmt.Sprintf("edit_history_%s.csv", stamp)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)

	case "xlsx":
		data, err := ctrl.historyService.ExportXLSX(c.Request.Context())
		if err != nil {
			log.Error("XLSX export failed", err, nil)
			info := errors.ParseError(err, "export")
			errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
			return
		}
		filename := fmt.Sprintf("edit_history_%s.xlsx", stamp)
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	default:
		errors.BadRequest(c, errors.ValidationInvalidInput, "지원하지 않는 형식입니다: "+format)
	}
}
