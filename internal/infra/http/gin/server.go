package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"bizbay/internal/infra/config"
	"bizbay/internal/infra/obs"
)

type Handlers struct {
	Chat      ChatHTTP
	Auth      AuthHTTP
	Service   ServiceHTTP
	Upload    UploadHTTP
	RateLimit gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.RateLimit != nil {
		router.Use(h.RateLimit)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")
	if h.Auth != nil {
		api.POST("/auth/set-token", h.Auth.SetToken)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Chat != nil {
		api.GET("/conversations", h.Chat.ListConversations)
		api.POST("/conversations", h.Chat.CreateConversation)
		api.GET("/conversations/unread-count", h.Chat.UnreadCount)
		api.GET("/conversations/:id", h.Chat.GetConversation)
		api.GET("/conversations/:id/messages", h.Chat.ListMessages)
		api.POST("/conversations/:id/messages", h.Chat.SendMessage)
	}
	if h.Service != nil {
		api.POST("/create-service", h.Service.CreateService)
		api.POST("/admin/services/:id/verify", h.Service.VerifyService)
	}
	if h.Upload != nil {
		api.POST("/uploads/revenue-proof", h.Upload.UploadRevenueProof)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
