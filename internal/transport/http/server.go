package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/bootstrap"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/handler"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/middleware"
)

// multipartMemory keeps small uploads in memory; larger ones spill to disk.
const multipartMemory = 8 << 20

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = multipartMemory
	router.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery())

	checks := make(map[string]handler.HealthCheck)
	for name, check := range app.HealthChecks() {
		checks[name] = check
	}
	healthHandler := handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env, app.StartedAt, checks)
	router.GET("/healthz", healthHandler.Check)

	// The limiter interface must stay nil when redis is off.
	var limiter middleware.Limiter
	if app.RateLimiter != nil {
		limiter = app.RateLimiter
	}

	secret := app.Config.Auth.JWTSecret
	authHandler := handler.NewAuthHandler(app.Auth)
	chatHandler := handler.NewChatHandler(app.Chat, app.Attachments)
	documentHandler := handler.NewDocumentHandler(app.Documents)
	lawyerHandler := handler.NewLawyerHandler(app.Lawyers)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", middleware.RateLimit(limiter, "auth"), authHandler.Register)
	authGroup.POST("/login", middleware.RateLimit(limiter, "auth"), authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(secret), authHandler.Me)

	owned := v1.Group("", middleware.AuthOptional(secret), middleware.ResolveOwner())

	docs := owned.Group("/documents")
	docs.POST("", middleware.RateLimit(limiter, "upload"), documentHandler.Upload)
	docs.GET("", documentHandler.List)
	docs.GET("/:id", documentHandler.Get)
	docs.GET("/:id/report", documentHandler.Report)

	chat := owned.Group("/chat/sessions")
	chat.POST("", chatHandler.CreateSession)
	chat.GET("", chatHandler.ListSessions)
	chat.GET("/:id", chatHandler.GetSession)
	chat.DELETE("/:id", chatHandler.DeleteSession)
	chat.POST("/:id/messages", middleware.RateLimit(limiter, "chat"), chatHandler.SendMessage)
	chat.GET("/:id/messages", chatHandler.GetHistory)
	chat.POST("/:id/document", middleware.RateLimit(limiter, "upload"), chatHandler.AttachDocument)
	chat.POST("/:id/images", middleware.RateLimit(limiter, "upload"), chatHandler.UploadImage)
	chat.GET("/:id/images", chatHandler.ListImages)
	chat.POST("/:id/images/:seq/ocr", middleware.RateLimit(limiter, "upload"), chatHandler.ExtractImageText)

	lawyers := v1.Group("/lawyers")
	lawyers.GET("", lawyerHandler.List)
	lawyers.GET("/:id", lawyerHandler.Get)
	lawyers.GET("/:id/reviews", lawyerHandler.ListReviews)
	protected := lawyers.Group("", middleware.AuthJWT(secret))
	protected.POST("", lawyerHandler.Create)
	protected.PUT("/:id", lawyerHandler.Update)
	protected.DELETE("/:id", lawyerHandler.Delete)
	protected.POST("/:id/reviews", lawyerHandler.AddReview)
	v1.GET("/languages", lawyerHandler.Languages)

	return router
}
