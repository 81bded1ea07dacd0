package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/config"
	"github.com/kovaikural/kural/controllers"
	"github.com/kovaikural/kural/middleware"
	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/services"
	"github.com/kovaikural/kural/utils"
)

// SetupRouter wires middlewares, controllers, and routes.
func SetupRouter(db *gorm.DB, hub *services.Hub) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	r := gin.New()

	accessLogger, err := utils.NewRollingFileLogger(
		cfg.GinPath, "info",
		cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress,
	)
	if err != nil {
		accessLogger = utils.Logger
	}
	r.Use(utils.Ginzap(accessLogger, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(utils.Logger, true))

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// Credentials may not be combined with a wildcard origin.
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute))

	r.Static("/uploads", cfg.UploadDir)

	notifier := services.NewNotifier(db, hub)
	voteService := services.NewVoteService(db, notifier)

	health := controllers.NewHealthController(db)
	auth := controllers.NewAuthController(db)
	users := controllers.NewUserController(db, notifier)
	posts := controllers.NewPostController(db, notifier, voteService)
	comments := controllers.NewCommentController(db, notifier, voteService)
	categories := controllers.NewCategoryController(db)
	notifications := controllers.NewNotificationController(db, hub)
	reports := controllers.NewReportController(db)
	search := controllers.NewSearchController(db)
	admin := controllers.NewAdminController(db)

	api := r.Group("/api/v1")
	{
		api.GET("/health", health.Health)

		api.POST("/auth/register", auth.Register)
		api.POST("/auth/login", auth.Login)

		api.GET("/posts", posts.ListPosts)
		api.GET("/posts/:id", posts.GetPost)
		api.GET("/posts/:id/comments", comments.ListComments)

		api.GET("/categories", categories.List)
		api.GET("/categories/:slug", categories.GetBySlug)

		api.GET("/users/:id", users.GetPublicProfile)
		api.GET("/users/handle/:handle", users.GetProfileByHandle)
		api.GET("/users/:id/saved", users.GetSavedPosts)
		api.GET("/users/:id/tagged", users.GetTaggedPosts)
		api.GET("/users/:id/comments", users.GetCommentsByUser)
		api.GET("/users/:id/moderated", users.GetModeratedCategories)

		api.GET("/search", search.Search)
	}

	protected := r.Group("/api/v1")
	protected.Use(middleware.AuthRequired())
	{
		protected.POST("/auth/logout", auth.Logout)
		protected.GET("/auth/me", auth.Me)

		protected.PUT("/users/me", users.UpdateProfile)
		protected.POST("/users/me/password", users.ChangePassword)
		protected.POST("/users/me/save/:postId", users.SavePost)
		protected.POST("/users/me/unsave/:postId", users.UnsavePost)
		protected.GET("/users/suggestions", users.GetSuggestions)
		protected.POST("/users/:id/follow", users.Follow)
		protected.POST("/users/:id/unfollow", users.Unfollow)

		protected.POST("/upload", posts.UploadImage)
		protected.POST("/posts", posts.CreatePost)
		protected.DELETE("/posts/:id", posts.DeletePost)
		protected.POST("/posts/:id/vote", posts.Vote)
		protected.POST("/posts/:id/comments", comments.CreateComment)
		protected.POST("/comments/:id/vote", comments.Vote)
		protected.DELETE("/comments/:id", comments.DeleteComment)

		protected.POST("/categories", categories.Create)
		protected.PUT("/categories/:id", categories.Update)
		protected.POST("/categories/:id/join", categories.Join)
		protected.POST("/categories/:id/leave", categories.Leave)

		protected.GET("/notifications", notifications.List)
		protected.GET("/notifications/unread-count", notifications.UnreadCount)
		protected.POST("/notifications/mark-read", notifications.MarkRead)

		protected.POST("/reports", reports.Create)
		protected.GET("/reports/category/:categoryId", reports.ListForCategory)
		protected.PUT("/reports/:id", reports.UpdateStatus)
		protected.DELETE("/reports/:reportId/content", reports.DeleteContent)
	}

	// SSE stream accepts the token in the query string because EventSource
	// cannot set request headers.
	stream := r.Group("/api/v1")
	stream.Use(middleware.AuthRequiredQuery())
	{
		stream.GET("/notifications/stream", notifications.Stream)
	}

	adminGroup := r.Group("/api/v1")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireRoles(models.RoleAdmin))
	{
		adminGroup.GET("/reports/all", reports.ListAll)
		adminGroup.GET("/admin/analytics", admin.Analytics)
		adminGroup.POST("/admin/users/:id/promote", admin.PromoteUser)
		adminGroup.GET("/admin/users", admin.ListUsers)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.Error(c, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
