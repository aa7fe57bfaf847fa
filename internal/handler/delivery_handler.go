package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/service"
)

// DeliveryHandler exposes the scheduled-delivery sweep as an HTTP trigger
type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// ProcessScheduled godoc
// @Summary      예약 편지 배달 처리
// @Description  배달 예정일이 지난 예약 편지를 전달 상태로 전환합니다
// @Tags         letters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=service.SweepResult}
// @Failure      500  {object}  common.APIResponse
// @Router       /letters/process-scheduled [post]
func (h *DeliveryHandler) ProcessScheduled(c *gin.Context) {
	result, err := h.deliveryService.ProcessDue(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "예약 편지 처리에 실패했습니다", err)
		return
	}

	common.SuccessResponse(c, result, nil)
}
