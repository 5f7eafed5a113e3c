package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/superae99/salesmap-backend/internal/app/model"
	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/errors"
	"github.com/superae99/salesmap-backend/internal/middleware"
)

type DatasetController struct {
	datasetService service.DatasetService
	facetService   service.FacetService
}

func NewDatasetController(datasetService service.DatasetService, facetService service.FacetService) *DatasetController {
	return &DatasetController{
		datasetService: datasetService,
		facetService:   facetService,
	}
}

// GetData 데이터셋 조회. type=address(기본)는 조인된 거래처 배열,
// type=sales는 영업사원 로스터를 반환한다.
func (ctrl *DatasetController) GetData(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	dataType := c.DefaultQuery("type", "address")

	switch dataType {
	case "sales":
		roster, err := ctrl.datasetService.Roster(c.Request.Context())
		if err != nil {
			log.Error("Failed to load roster", err, nil)
			info := errors.ParseError(err, "data")
			errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
			return
		}
		log.Info("Roster served", map[string]interface{}{"count": len(roster)})
		c.JSON(http.StatusOK, roster)

	case "address", "":
		records, err := ctrl.datasetService.Records(c.Request.Context())
		if err != nil {
			log.Error("Failed to load dataset", err, nil)
			info := errors.ParseError(err, "data")
			errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
			return
		}
		log.Info("Dataset served", map[string]interface{}{"count": len(records)})
		c.JSON(http.StatusOK, records)

	default:
		errors.BadRequest(c, errors.ValidationInvalidInput, "지원하지 않는 데이터 형식입니다: "+dataType)
	}
}

// GetFilters 현재 선택 상태 기준 필터 선택지.
// branch/office 쿼리로 상위 선택을 전달하고, selected(쉼표 구분)로
// 기존 담당자 다중 선택을 주면 유효한 값만 남겨 돌려준다.
func (ctrl *DatasetController) GetFilters(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	state := model.FilterState{
		Branch: c.Query("branch"),
		Office: c.Query("office"),
	}

	records, err := ctrl.datasetService.Records(c.Request.Context())
	if err != nil {
		log.Error("Failed to load dataset for filters", err, nil)
		info := errors.ParseError(err, "data")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	opts := ctrl.facetService.Derive(records, state)

	response := gin.H{
		"branches":    opts.Branches,
		"offices":     opts.Offices,
		"salespeople": opts.Salespeople,
	}

	if selected := c.Query("selected"); selected != "" {
		previous := strings.Split(selected, ",")
		for i := range previous {
			previous[i] = strings.TrimSpace(previous[i])
		}
		retained := ctrl.facetService.ReconcileSelection(previous, opts.Salespeople)
		if retained == nil {
			retained = []string{}
		}
		response["selected"] = retained
	}

	c.JSON(http.StatusOK, response)
}

// GetFiltered 필터를 통과한 거래처 목록 (지도 작업용 하위 집합)
func (ctrl *DatasetController) GetFiltered(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	state := model.FilterState{
		Branch: c.Query("branch"),
		Office: c.Query("office"),
	}
	if selected := c.Query("salespeople"); selected != "" {
		for _, name := range strings.Split(selected, ",") {
			if name = strings.TrimSpace(name); name != "" {
				state.Salespeople = append(state.Salespeople, name)
			}
		}
	}

	records, err := ctrl.datasetService.Records(c.Request.Context())
	if err != nil {
		log.Error("Failed to load dataset for filtering", err, nil)
		info := errors.ParseError(err, "data")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	filtered := ctrl.facetService.ApplyFilter(records, state)

	log.Info("Filtered dataset served", map[string]interface{}{
		"total":    len(records),
		"filtered": len(filtered),
		"branch":   state.Branch,
		"office":   state.Office,
	})
	c.JSON(http.StatusOK, gin.H{
		"items": filtered,
		"count": len(filtered),
	})
}

// Refresh 저장소에서 데이터를 다시 읽는다 (운영자 전용)
func (ctrl *DatasetController) Refresh(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.datasetService.Refresh(c.Request.Context()); err != nil {
		log.Error("Manual dataset refresh failed", err, nil)
		info := errors.ParseError(err, "data")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	stats := ctrl.datasetService.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"total":     stats.Total,
		"matched":   stats.Matched,
		"matchRate": stats.MatchRate(),
	})
}
