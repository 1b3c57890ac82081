package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/handlers"
	"github.com/taskboard-dev/taskboard/internal/middleware"
)

func New(cfg config.Config) *gin.Engine {
	handlers.Configure(cfg)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// Uploaded files are served directly; they stay available even when
	// the database is down.
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/config", handlers.RuntimeConfig)

		auth := api.Group("/auth", middleware.RequireDB())
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/verify", middleware.RequireAuth(), handlers.Verify)
			auth.POST("/logout", handlers.Logout)
		}

		// Task and event CRUD is auth-optional: a valid token wins,
		// otherwise the query/body user id or the default sentinel scopes
		// the request.
		data := api.Group("", middleware.RequireDB(), middleware.OptionalAuth())
		{
			data.GET("/tasks", handlers.ListTasks)
			data.POST("/tasks", handlers.CreateTask)
			data.GET("/tasks/stats/:userId", handlers.TaskStats)
			data.GET("/tasks/date-range/:userId", handlers.TasksInRange)
			data.GET("/tasks/:id", handlers.GetTask)
			data.PUT("/tasks/:id", handlers.UpdateTask)
			data.DELETE("/tasks/:id", handlers.DeleteTask)

			data.GET("/tasks/:id/attachments", handlers.ListAttachments)
			data.POST("/tasks/:id/attachments/:fileId", handlers.AddAttachment)
			data.DELETE("/tasks/:id/attachments/:fileId", handlers.RemoveAttachment)

			data.GET("/events", handlers.ListEvents)
			data.POST("/events", handlers.CreateEvent)
			data.GET("/events/date/:userId", handlers.EventsByDate)
			data.GET("/events/:id", handlers.GetEvent)
			data.PUT("/events/:id", handlers.UpdateEvent)
			data.DELETE("/events/:id", handlers.DeleteEvent)

			data.POST("/upload", handlers.UploadFile)
		}
	}

	return r
}
