package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/common"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/service"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler handles OAuth2 social login endpoints
type OAuthHandler struct {
	oauthService *service.OAuthService
}

// NewOAuthHandler creates a new OAuthHandler
func NewOAuthHandler(oauthService *service.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService}
}

// Redirect godoc
// @Summary      소셜 로그인 시작
// @Description  OAuth 제공자 인증 페이지로 리다이렉트합니다
// @Tags         oauth
// @Param        provider  path  string  true  "제공자 (google 또는 kakao)"
// @Success      307
// @Failure      400  {object}  common.APIResponse
// @Router       /auth/oauth/{provider} [get]
func (h *OAuthHandler) Redirect(c *gin.Context) {
	provider := domain.OAuthProvider(c.Param("provider"))

	// Random state for CSRF protection, verified on callback
	state, err := h.oauthService.GenerateState()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate state", err)
		return
	}
	c.SetCookie(oauthStateCookie, state, 600, "/", "", true, true)

	authURL, err := h.oauthService.GetAuthURL(provider, state)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback godoc
// @Summary      소셜 로그인 콜백
// @Description  제공자 콜백을 처리하고 토큰 쌍을 발급합니다
// @Tags         oauth
// @Produce      json
// @Param        provider  path   string  true  "제공자 (google 또는 kakao)"
// @Param        code      query  string  true  "인가 코드"
// @Param        state     query  string  true  "CSRF state"
// @Success      200  {object}  common.APIResponse{data=domain.LoginResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /auth/oauth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := domain.OAuthProvider(c.Param("provider"))

	state := c.Query("state")
	savedState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != savedState {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid OAuth state", nil)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", true, true)

	code := c.Query("code")
	if code == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Missing authorization code", nil)
		return
	}

	result, err := h.oauthService.HandleCallback(c.Request.Context(), provider, code)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "OAuth login failed", err)
		return
	}

	common.SuccessResponse(c, result, nil)
}
