package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/cache"
	"github.com/postline/postline/config"
	"github.com/postline/postline/controllers"
	"github.com/postline/postline/middleware"
	"github.com/postline/postline/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, pages cache.PageCache) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if utils.Logger != nil {
		r.Use(utils.Ginzap(utils.Logger))
		r.Use(utils.RecoveryWithZap(utils.Logger))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	feedController := controllers.NewFeedController(db, pages)
	postController := controllers.NewPostController(db)
	followController := controllers.NewFollowController(db)
	statsController := controllers.NewStatsController(db)

	auth := r.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)
	auth.GET("/me", middleware.LoginRequired(), authController.Me)

	// Public feed views. OptionalAuth lets profile and detail pages tailor
	// follow state and edit permission to the viewer.
	r.GET("/", feedController.Index)
	r.GET("/group/:slug/", feedController.GroupPosts)
	r.GET("/profile/:username/", middleware.OptionalAuth(), feedController.Profile)
	r.GET("/posts/:id/", middleware.OptionalAuth(), postController.GetPost)
	r.GET("/stats", statsController.GetStats)

	// Protected browser flows: unauthenticated access redirects to login.
	protected := r.Group("")
	protected.Use(middleware.LoginRequired())
	protected.GET("/follow/", feedController.FollowIndex)
	protected.POST("/profile/:username/follow/", followController.Follow)
	protected.POST("/profile/:username/unfollow/", followController.Unfollow)
	protected.POST("/cache/clear", feedController.ClearCache)

	writes := r.Group("")
	writes.Use(middleware.LoginRequired(), middleware.RateLimitMiddleware())
	writes.GET("/create/", postController.CreateForm)
	writes.POST("/create/", postController.CreatePost)
	writes.GET("/posts/:id/edit/", postController.EditForm)
	writes.POST("/posts/:id/edit/", postController.UpdatePost)
	writes.POST("/posts/:id/comment", postController.AddComment)

	// Unknown routes render a generic not-found page with status 404.
	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}
