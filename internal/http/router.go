// Package http wires gin routers for each service binary. Handlers are
// nil-guarded so a binary only mounts the groups it constructed.
package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/http/handlers"
	"github.com/soa-tours/platform/internal/http/middleware"
	"github.com/soa-tours/platform/internal/pkg/logger"
)

type RouterConfig struct {
	ServiceName  string
	Mode         string
	JWTSecretKey string
	ExtraOrigins []string
	DB           *gorm.DB
	Log          *logger.Logger

	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	FollowHandler    *handlers.FollowHandler
	BlogHandler      *handlers.BlogHandler
	TourHandler      *handlers.TourHandler
	PositionHandler  *handlers.PositionHandler
	ExecutionHandler *handlers.ExecutionHandler
	CommerceHandler  *handlers.CommerceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(cfg.Log))
	router.Use(middleware.CORS(cfg.ExtraOrigins))

	router.GET("/health", handlers.Health(cfg.ServiceName, cfg.DB))

	api := router.Group("/api")
	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTSecretKey, cfg.Log))

	if h := cfg.AuthHandler; h != nil {
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/refresh", h.Refresh)
		authed.POST("/auth/logout", h.Logout)
	}
	if h := cfg.UserHandler; h != nil {
		authed.GET("/users", h.List)
		authed.GET("/users/:id", h.GetByID)
		authed.GET("/profile", h.GetMyProfile)
		authed.PUT("/profile", h.UpdateMyProfile)
		authed.GET("/profiles", h.ListProfiles)
	}
	if h := cfg.FollowHandler; h != nil {
		authed.POST("/follow/:id", h.Follow)
		authed.DELETE("/follow/:id", h.Unfollow)
		authed.GET("/follow/:id", h.IsFollowing)
		authed.GET("/following", h.Following)
		authed.GET("/followers", h.Followers)
		// Service-to-service, reached only inside the cluster network.
		api.GET("/internal/can-comment", h.CanComment)
	}
	if h := cfg.BlogHandler; h != nil {
		api.GET("/blogs", h.List)
		api.GET("/blogs/:id", h.GetByID)
		authed.POST("/blogs", h.Create)
		authed.PUT("/blogs/:id", h.Update)
		authed.DELETE("/blogs/:id", h.Delete)
		authed.POST("/blogs/:id/like", h.Like)
		authed.DELETE("/blogs/:id/like", h.Unlike)
		authed.POST("/blogs/:id/comments", h.AddComment)
	}
	if h := cfg.TourHandler; h != nil {
		api.GET("/tours", h.List)
		api.GET("/tours/:id", h.GetByID)
		guides := authed.Group("")
		guides.Use(middleware.RequireRole("guide"))
		guides.POST("/tours", h.Create)
		guides.PUT("/tours/:id", h.Update)
		guides.POST("/tours/:id/publish", h.Publish)
		guides.POST("/tours/:id/archive", h.Archive)
		guides.POST("/tours/:id/keypoints", h.AddKeypoint)
		guides.PUT("/tours/:id/keypoints/:order", h.UpdateKeypoint)
		guides.DELETE("/tours/:id/keypoints/:order", h.RemoveKeypoint)
		guides.PUT("/tours/:id/transport-times", h.SetTransportTime)
		authed.POST("/tours/:id/reviews", h.AddReview)
	}
	if h := cfg.PositionHandler; h != nil {
		authed.GET("/position", h.Get)
		authed.PUT("/position", h.Set)
		authed.DELETE("/position", h.Clear)
		authed.GET("/positions", h.List)
	}
	if h := cfg.ExecutionHandler; h != nil {
		authed.POST("/executions", h.Start)
		authed.GET("/executions", h.List)
		authed.GET("/executions/:id", h.GetByID)
		authed.POST("/executions/check", h.Check)
		authed.POST("/executions/:id/abandon", h.Abandon)
		authed.GET("/executions/nearby", h.Nearby)
	}
	if h := cfg.CommerceHandler; h != nil {
		authed.GET("/cart", h.GetCart)
		authed.POST("/cart/items", h.AddToCart)
		authed.DELETE("/cart/items/:tour_id", h.RemoveFromCart)
		authed.POST("/cart/checkout", h.Checkout)
		authed.GET("/purchases", h.Purchases)
		authed.GET("/purchases/:tour_id", h.CheckPurchase)
	}
	return router
}
