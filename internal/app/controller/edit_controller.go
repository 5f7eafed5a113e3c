package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superae99/salesmap-backend/internal/app/service"
	"github.com/superae99/salesmap-backend/internal/errors"
	"github.com/superae99/salesmap-backend/internal/middleware"
)

type EditController struct {
	editService    service.EditService
	datasetService service.DatasetService
}

func NewEditController(editService service.EditService, datasetService service.DatasetService) *EditController {
	return &EditController{
		editService:    editService,
		datasetService: datasetService,
	}
}

// UpdateSalespersonRequest 필드명은 기존 클라이언트의 요청 본문과 동일
type UpdateSalespersonRequest struct {
	StoreID        string `json:"storeId" binding:"required"`
	NewSalesNumber string `json:"newSalesNumber"`
	NewSalesperson string `json:"newSalesperson"`
	EditReason     string `json:"editReason"`
	EditNote       string `json:"editNote"`
}

// UpdateSalesperson 거래처 담당자 수정.
// 메모리 반영은 항상 완료되며, 외부 저장 결과는 storage 필드로 전달한다.
func (ctrl *EditController) UpdateSalesperson(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateSalespersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update request body", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "storeId는 필수입니다")
		return
	}

	result, err := ctrl.editService.Edit(c.Request.Context(), service.EditInput{
		StoreID:            req.StoreID,
		NewEmployeeNumber:  req.NewSalesNumber,
		NewSalespersonName: req.NewSalesperson,
		Reason:             req.EditReason,
		Note:               req.EditNote,
		Actor:              middleware.OperatorID(c),
	})
	if err != nil {
		switch err {
		case service.ErrNoChanges:
			errors.BadRequest(c, errors.ValidationNoChange, "변경할 내용이 없습니다")
		case service.ErrInvalidEmployeeNumber:
			errors.BadRequest(c, errors.EditInvalidNumber, "사번은 숫자여야 합니다")
		case service.ErrStoreNotFound:
			errors.NotFound(c, errors.StoreNotFound, "거래처를 찾을 수 없습니다")
		default:
			log.Error("Edit failed", err, map[string]interface{}{
				"storeId": req.StoreID,
			})
			info := errors.ParseError(err, "edit")
			errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	storage := gin.H{
		"backend": ctrl.datasetService.StorageName(),
		"saved":   result.Persisted,
	}
	if result.Persisted {
		storage["ref"] = result.StorageRef
	} else if result.PersistErr != nil {
		info := errors.ParseError(result.PersistErr, "edit")
		storage["error"] = info.Message
	}

	message := "담당자가 수정되었습니다"
	if !result.Persisted {
		// 낙관적 수정: 메모리에는 반영됐지만 외부 저장은 실패
		message = "담당자가 수정되었지만 저장소 반영에 실패했습니다"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"updatedItem": result.UpdatedRecord,
		"editRecord":  result.EditRecord,
		"storage":     storage,
	})
}
