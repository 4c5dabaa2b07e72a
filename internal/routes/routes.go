package routes

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sling/backend/internal/cache"
	"github.com/sling/backend/internal/controllers"
	"github.com/sling/backend/internal/gameinfo"
	"github.com/sling/backend/internal/middleware"
	"github.com/sling/backend/internal/services"
)

// nameCacheTTL reads NAME_CACHE_TTL_SECONDS, defaulting to five minutes.
func nameCacheTTL() time.Duration {
	if raw := os.Getenv("NAME_CACHE_TTL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 5 * time.Minute
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	// Initialize services
	resolver := gameinfo.NewClient(os.Getenv("GAMEINFO_URL"))
	nameCache := cache.NewRedisNameCache(rdb, nameCacheTTL())
	names := services.NewNameDirectory(nameCache, resolver)

	eventService := services.NewEventService(db, names)
	petitionService := services.NewPetitionService(db, eventService, names)
	banService := services.NewBanService(db, rdb, eventService)
	reportService := services.NewReportService(db)

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	eventController := controllers.NewEventController(eventService)
	petitionController := controllers.NewPetitionController(petitionService)
	banController := controllers.NewBanController(banService)
	faqController := controllers.NewFAQController(db)
	reportController := controllers.NewReportController(reportService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
		}

		// Public FAQ
		api.GET("/faqs", faqController.List)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/refresh", authController.RefreshToken)

			// Users
			users := protected.Group("/users")
			{
				users.GET("/me", userController.GetCurrentUser)
			}

			// Player petitions
			petitions := protected.Group("/petitions")
			{
				petitions.POST("", petitionController.Submit)
				petitions.GET("", petitionController.ListMine)
				petitions.GET("/:id", petitionController.View)
				petitions.POST("/:id/reply", petitionController.Reply)
			}

			// Agent console; everything here needs the support privilege
			support := protected.Group("/")
			support.Use(middleware.RequireSupport())
			{
				events := support.Group("/events")
				{
					events.POST("/search", eventController.SearchEvents)
					events.POST("/load", eventController.LoadEvents)
					events.POST("", eventController.RecordEvent)
					events.GET("/:id", eventController.GetEvent)
					events.PUT("/:id/status", eventController.UpdateStatus)
					events.POST("/:id/claim", eventController.Claim)
					events.PUT("/:id/waiting", eventController.SetWaiting)
					events.POST("/:id/messages", eventController.PostMessage)
				}

				bans := support.Group("/bans")
				{
					bans.POST("", banController.Issue)
					bans.DELETE("/:id", banController.Lift)
					bans.GET("/account/:account", banController.History)
					bans.GET("/account/:account/status", banController.Status)
				}

				reports := support.Group("/reports")
				{
					reports.GET("/by-status", reportController.ByStatus)
					reports.GET("/by-type", reportController.ByType)
					reports.GET("/agent-closed", reportController.AgentClosed)
				}

				support.GET("/agents", userController.ListAgents)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAnyRole()) // ADMIN passes implicitly
			{
				admin.PUT("/users/:id/role", userController.UpdateRole)
				admin.POST("/faqs", faqController.Create)
				admin.PUT("/faqs/:id", faqController.Update)
				admin.DELETE("/faqs/:id", faqController.Delete)
			}
		}
	}
}
