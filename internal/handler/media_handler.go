package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/service"
	"github.com/reindeer-letter/letter-backend/pkg/storage"
)

// MediaHandler handles media upload and BGM listing endpoints
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadImage godoc
// @Summary      편지 이미지 업로드
// @Description  jpg/jpeg/png, 최대 5MB
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "이미지 파일"
// @Success      200  {object}  common.APIResponse{data=storage.UploadResult}
// @Failure      400  {object}  common.APIResponse
// @Router       /media/images [post]
func (h *MediaHandler) UploadImage(c *gin.Context) {
	h.upload(c, h.mediaService.UploadImage)
}

// UploadVoice godoc
// @Summary      음성 편지 업로드
// @Description  mp3/wav/m4a/mp4, 최대 10MB
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "음성 파일"
// @Success      200  {object}  common.APIResponse{data=storage.UploadResult}
// @Failure      400  {object}  common.APIResponse
// @Router       /media/voices [post]
func (h *MediaHandler) UploadVoice(c *gin.Context) {
	h.upload(c, h.mediaService.UploadVoice)
}

// ListBgm godoc
// @Summary      배경음악 목록
// @Description  편지에 넣을 수 있는 배경음악 목록을 조회합니다
// @Tags         media
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]service.Bgm}
// @Router       /media/bgm [get]
func (h *MediaHandler) ListBgm(c *gin.Context) {
	list, err := h.mediaService.ListBgm(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list BGM", err)
		return
	}

	common.SuccessResponse(c, list, nil)
}

type uploadFunc func(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error)

func (h *MediaHandler) upload(c *gin.Context, fn uploadFunc) {
	file, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "File is required", err)
		return
	}

	src, err := file.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Cannot read file", err)
		return
	}
	defer func() { _ = src.Close() }()

	contentType := file.Header.Get("Content-Type")
	result, err := fn(c.Request.Context(), file.Filename, contentType, src, file.Size)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, result, nil)
}
