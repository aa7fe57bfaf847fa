package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/config"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/middleware"
	"github.com/reindeer-letter/letter-backend/internal/service"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	config  *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  cfg,
	}
}

// EmailRequest carries a bare email for availability and verification endpoints
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// NicknameRequest carries a bare nickname for the availability check
type NicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,max=20"`
}

// Register godoc
// @Summary      회원가입
// @Description  이메일 인증을 완료한 이메일로 계정을 생성합니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RegisterRequest  true  "회원가입 요청"
// @Success      201  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	user, err := h.service.Register(&req)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	c.JSON(201, common.APIResponse{Data: user})
}

// Login godoc
// @Summary      로그인
// @Description  refresh_token은 httpOnly Cookie로, access_token은 body로 반환합니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.LoginRequest  true  "로그인 요청"
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	response, err := h.service.Login(&req)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), "Invalid credentials", err)
		return
	}

	h.setRefreshTokenCookie(c, response.RefreshToken)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"access_token": response.AccessToken,
			"user":         response.User,
		},
	})
}

// Refresh godoc
// @Summary      토큰 재발급
// @Description  Cookie의 refresh_token으로 새 토큰 쌍을 발급합니다
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		common.ErrorResponse(c, 400, "Refresh token not found in cookie", nil)
		return
	}

	pair, err := h.service.Refresh(refreshToken)
	if err != nil {
		h.clearRefreshTokenCookie(c)
		common.ErrorResponse(c, common.StatusFromError(err), "Invalid refresh token", err)
		return
	}

	h.setRefreshTokenCookie(c, pair.RefreshToken)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{"access_token": pair.AccessToken},
	})
}

// Logout godoc
// @Summary      로그아웃
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(middleware.GetUserID(c)); err != nil {
		common.ErrorResponse(c, 500, "Logout failed", err)
		return
	}

	h.clearRefreshTokenCookie(c)
	common.SuccessResponse(c, gin.H{"logged_out": true}, nil)
}

// Me godoc
// @Summary      내 정보 조회
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.UserResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, user, nil)
}

// CheckEmail godoc
// @Summary      이메일 중복 확인
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  EmailRequest  true  "확인할 이메일"
// @Success      200  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /auth/check-email [post]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.CheckEmail(req.Email); err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, gin.H{"available": true}, nil)
}

// CheckNickname godoc
// @Summary      닉네임 중복 확인
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  NicknameRequest  true  "확인할 닉네임"
// @Success      200  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /auth/check-nickname [post]
func (h *AuthHandler) CheckNickname(c *gin.Context) {
	var req NicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.CheckNickname(req.Nickname); err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, gin.H{"available": true}, nil)
}

// SendVerificationCode godoc
// @Summary      인증 코드 발송
// @Description  회원가입 전 이메일로 6자리 인증 코드를 발송합니다
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  EmailRequest  true  "인증할 이메일"
// @Success      200  {object}  common.APIResponse
// @Router       /auth/email/send-code [post]
func (h *AuthHandler) SendVerificationCode(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.SendVerificationCode(req.Email); err != nil {
		common.ErrorResponse(c, 500, "Failed to send verification code", err)
		return
	}

	common.SuccessResponse(c, gin.H{"sent": true}, nil)
}

// VerifyEmail godoc
// @Summary      인증 코드 확인
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.VerifyEmailRequest  true  "이메일과 인증 코드"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Router       /auth/email/verify [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req domain.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.VerifyEmail(req.Email, req.Code); err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error(), err)
		return
	}

	common.SuccessResponse(c, gin.H{"verified": true}, nil)
}

func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	secure := h.config.Server.Env == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, int(h.config.JWT.RefreshExpiry.Seconds()), "/", "", secure, true)
}

func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	secure := h.config.Server.Env == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", secure, true)
}
