package routes

import (
	"github.com/david801380511/timeflow/controllers"
	"github.com/david801380511/timeflow/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "TimeFlow API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Notification inbox
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadCount)
				notifications.POST("/:id/read", controllers.MarkNotificationRead)
				notifications.POST("/:id/dismiss", controllers.DismissNotification)
				notifications.POST("/mark-all-read", controllers.MarkAllNotificationsRead)
				notifications.DELETE("/:id", controllers.DeleteNotification)
			}

			// Notification rules
			rules := protected.Group("/notification-rules")
			{
				rules.GET("", controllers.GetNotificationRules)
				rules.POST("", controllers.CreateNotificationRule)
				rules.PUT("/:id", controllers.UpdateNotificationRule)
				rules.DELETE("/:id", controllers.DeleteNotificationRule)
			}

			// Notification preferences
			protected.GET("/notification-preferences", controllers.GetNotificationPreferences)
			protected.PUT("/notification-preferences", controllers.UpdateNotificationPreferences)
		}
	}
}
