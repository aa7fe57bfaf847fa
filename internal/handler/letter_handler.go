package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/middleware"
	"github.com/reindeer-letter/letter-backend/internal/service"
	"github.com/reindeer-letter/letter-backend/pkg/ginutil"
)

// LetterHandler handles HTTP requests for letters and drafts
type LetterHandler struct {
	service service.LetterService
}

// NewLetterHandler creates a new LetterHandler
func NewLetterHandler(service service.LetterService) *LetterHandler {
	return &LetterHandler{service: service}
}

// Create godoc
// @Summary      편지 보내기
// @Description  새 편지를 작성하여 보냅니다. 예약일이 미래면 해당 날짜까지 전달이 보류됩니다
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        request  body  domain.CreateLetterRequest  true  "편지 작성 요청"
// @Success      201  {object}  common.APIResponse{data=domain.LetterResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /letters [post]
func (h *LetterHandler) Create(c *gin.Context) {
	var req domain.CreateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	// Anonymous senders are allowed: sender_id stays NULL without a token
	var senderID *uint64
	if id := middleware.GetUserID(c); id != 0 {
		senderID = &id
	}

	letter, err := h.service.Create(&req, senderID)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	c.JSON(201, common.APIResponse{Data: letter})
}

// Get godoc
// @Summary      편지 열람
// @Description  수신자가 편지 내용을 열람합니다. 첫 열람 시 읽음 처리됩니다
// @Tags         letters
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "편지 ID"
// @Success      200  {object}  common.APIResponse{data=domain.LetterResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /letters/{id} [get]
func (h *LetterHandler) Get(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid letter ID", err)
		return
	}

	letter, err := h.service.Get(id, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, letter, nil)
}

// ListReceived godoc
// @Summary      받은 편지함
// @Description  받은 편지 목록을 페이지네이션하여 조회합니다
// @Tags         letters
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "페이지 번호 (기본값: 1)"  default(1)
// @Param        limit     query  int     false  "페이지당 항목 수 (기본값: 10)"  default(10)
// @Param        category  query  string  false  "카테고리 필터 (TEXT 또는 VOICE)"
// @Success      200  {object}  common.APIResponse{data=[]domain.LetterListItem}
// @Router       /letters [get]
func (h *LetterHandler) ListReceived(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 10)
	category := domain.Category(c.Query("category"))

	items, meta, err := h.service.ListReceived(middleware.GetUserID(c), page, limit, category)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, items, meta)
}

// ListSelf godoc
// @Summary      나에게 쓴 편지
// @Description  자기 자신에게 쓴 편지 목록을 조회합니다
// @Tags         letters
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "페이지 번호"  default(1)
// @Param        limit  query  int  false  "페이지당 항목 수"  default(10)
// @Success      200  {object}  common.APIResponse{data=[]domain.LetterListItem}
// @Router       /letters/self [get]
func (h *LetterHandler) ListSelf(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 10)

	items, meta, err := h.service.ListSelf(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, items, meta)
}

// SaveDraft godoc
// @Summary      임시저장
// @Description  편지를 임시저장합니다. draft_id 쿼리가 있으면 기존 임시저장을 덮어씁니다
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        draft_id  query  int                      false  "갱신할 임시저장 ID"
// @Param        request   body   domain.SaveDraftRequest  true   "임시저장 요청"
// @Success      200  {object}  common.APIResponse{data=service.DraftSaveResult}
// @Failure      404  {object}  common.APIResponse
// @Router       /letters/drafts [post]
func (h *LetterHandler) SaveDraft(c *gin.Context) {
	var req domain.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	var draftID *uint64
	if raw := c.Query("draft_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			common.ErrorResponse(c, 400, "Invalid draft ID", err)
			return
		}
		draftID = &id
	}

	result, err := h.service.SaveDraft(&req, middleware.GetUserID(c), draftID)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// GetDraft godoc
// @Summary      임시저장 조회
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "임시저장 ID"
// @Success      200  {object}  common.APIResponse{data=domain.LetterResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /letters/drafts/{id} [get]
func (h *LetterHandler) GetDraft(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid draft ID", err)
		return
	}

	draft, err := h.service.GetDraft(id, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, draft, nil)
}

// ListDrafts godoc
// @Summary      임시저장 목록
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "페이지 번호"  default(1)
// @Param        limit  query  int  false  "페이지당 항목 수"  default(10)
// @Success      200  {object}  common.APIResponse{data=[]domain.LetterResponse}
// @Router       /letters/drafts [get]
func (h *LetterHandler) ListDrafts(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 10)

	drafts, meta, err := h.service.ListDrafts(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, drafts, meta)
}

// UpdateDraft godoc
// @Summary      임시저장 수정
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                      true  "임시저장 ID"
// @Param        request  body  domain.SaveDraftRequest  true  "수정 요청"
// @Success      200  {object}  common.APIResponse{data=domain.LetterResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /letters/drafts/{id} [patch]
func (h *LetterHandler) UpdateDraft(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid draft ID", err)
		return
	}

	var req domain.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	draft, err := h.service.UpdateDraft(id, &req, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, draft, nil)
}

// SendDraft godoc
// @Summary      임시저장 보내기
// @Description  임시저장한 편지를 보냅니다. 동일한 편지 ID로 전송됩니다
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                         true  "임시저장 ID"
// @Param        request  body  domain.CreateLetterRequest  true  "전송 요청"
// @Success      200  {object}  common.APIResponse{data=domain.LetterResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /letters/drafts/{id}/send [post]
func (h *LetterHandler) SendDraft(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid draft ID", err)
		return
	}

	var req domain.CreateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	letter, err := h.service.SendDraft(id, &req, middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, letter, nil)
}

// DeleteDraft godoc
// @Summary      임시저장 삭제
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "임시저장 ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /letters/drafts/{id} [delete]
func (h *LetterHandler) DeleteDraft(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid draft ID", err)
		return
	}

	if err := h.service.DeleteDraft(id, middleware.GetUserID(c)); err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
