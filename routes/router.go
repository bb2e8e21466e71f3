package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/controllers"
	"github.com/cppla/blogapi/middleware"
	"github.com/cppla/blogapi/repository"
	"github.com/cppla/blogapi/schemas"
	"github.com/cppla/blogapi/utils"
)

// SetupRouter wires routes, middlewares, and controllers around the given
// store handle. reg may be nil, in which case no metrics are exposed.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, reg *prometheus.Registry) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	schemas.SetupBinding()

	r := gin.New()
	r.Use(middleware.RequestID())

	accessLog, err := utils.NewRollingFileLogger(utils.RollingFile{
		Path:       cfg.GinPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}, cfg.LogLevel)
	if err == nil {
		r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(accessLog, true))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	if cfg.MetricsEnabled && reg != nil {
		r.Use(middleware.NewMetrics(reg).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	postController := controllers.NewPostController(postRepo, commentRepo, cfg.SanitizeHTML)
	commentController := controllers.NewCommentController(postRepo, commentRepo, cfg.SanitizeHTML)
	statsController := controllers.NewStatsController(postRepo, commentRepo, func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	writes := middleware.RateLimit(cfg.RateLimitPerMinute)

	r.GET("/health", statsController.Health)
	r.GET("/stats", statsController.GetStats)

	posts := r.Group("/posts")
	posts.POST("", writes, postController.CreatePost)
	posts.GET("", postController.ListPosts)
	posts.GET("/summary", postController.ListPostSummaries)
	posts.GET("/:id", postController.GetPost)
	posts.PUT("/:id", writes, postController.UpdatePost)
	posts.DELETE("/:id", writes, postController.DeletePost)
	posts.GET("/:id/stats", postController.GetPostStats)
	posts.POST("/:id/comments", writes, commentController.CreateComment)
	posts.GET("/:id/comments", commentController.ListComments)

	comments := r.Group("/comments")
	comments.GET("/:id", commentController.GetComment)
	comments.PUT("/:id", writes, commentController.UpdateComment)
	comments.DELETE("/:id", writes, commentController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
