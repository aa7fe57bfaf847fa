package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/reindeer-letter/letter-backend/internal/handler"
	"github.com/reindeer-letter/letter-backend/internal/middleware"
	"github.com/reindeer-letter/letter-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	oauthHandler *handler.OAuthHandler,
	letterHandler *handler.LetterHandler,
	deliveryHandler *handler.DeliveryHandler,
	mediaHandler *handler.MediaHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWTAuth(jwtManager), authHandler.Logout)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// 회원가입 플로우: 중복 확인 및 이메일 인증
	auth.POST("/check-email", authHandler.CheckEmail)
	auth.POST("/check-nickname", authHandler.CheckNickname)
	auth.POST("/email/send-code", authHandler.SendVerificationCode)
	auth.POST("/email/verify", authHandler.VerifyEmail)

	// Social login
	oauth := auth.Group("/oauth")
	oauth.GET("/:provider", oauthHandler.Redirect)
	oauth.GET("/:provider/callback", oauthHandler.Callback)

	// Letters
	letters := api.Group("/letters")
	{
		// 비로그인 사용자도 편지를 보낼 수 있음 (익명 편지)
		letters.POST("", middleware.OptionalJWTAuth(jwtManager), letterHandler.Create)

		letters.GET("", middleware.JWTAuth(jwtManager), letterHandler.ListReceived)
		letters.GET("/self", middleware.JWTAuth(jwtManager), letterHandler.ListSelf)

		// 예약 편지 배달 트리거 (외부 크론/수동 호출용)
		letters.POST("/process-scheduled", middleware.JWTAuth(jwtManager), deliveryHandler.ProcessScheduled)

		// 임시저장 (정적 경로가 /:id 보다 먼저 등록되어야 함)
		drafts := letters.Group("/drafts", middleware.JWTAuth(jwtManager))
		{
			drafts.POST("", letterHandler.SaveDraft)
			drafts.GET("", letterHandler.ListDrafts)
			drafts.GET("/:id", letterHandler.GetDraft)
			drafts.PATCH("/:id", letterHandler.UpdateDraft)
			drafts.POST("/:id/send", letterHandler.SendDraft)
			drafts.DELETE("/:id", letterHandler.DeleteDraft)
		}

		letters.GET("/:id", middleware.JWTAuth(jwtManager), letterHandler.Get)
	}

	// Media
	media := api.Group("/media")
	media.GET("/bgm", mediaHandler.ListBgm)
	media.POST("/images", middleware.JWTAuth(jwtManager), mediaHandler.UploadImage)
	media.POST("/voices", middleware.JWTAuth(jwtManager), mediaHandler.UploadVoice)
}
