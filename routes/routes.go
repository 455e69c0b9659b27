package routes

import (
	"internship-management-api/controllers"
	"internship-management-api/middleware"
	"internship-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Internship Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.POST("/refresh", controllers.RefreshToken)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Common lookups
			protected.GET("/specialties", controllers.GetSpecialties)

			// Logbook
			logbook := protected.Group("/logbook")
			{
				logbook.GET("", controllers.GetLogbookEntries)
				logbook.GET("/:id", controllers.GetLogbookEntry)

				// Interns submit and resubmit their own entries
				logbook.POST("", middleware.RequireRole(models.RoleIntern), controllers.CreateLogbookEntry)
				logbook.POST("/:id/resubmit", middleware.RequireRole(models.RoleIntern), controllers.ResubmitLogbookEntry)

				// Supervisors and admins review
				logbook.POST("/:id/review", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), controllers.ReviewLogbookEntry)
			}

			// Tasks and their assignments
			tasks := protected.Group("/tasks")
			{
				tasks.GET("", controllers.GetTasks)
				tasks.GET("/:id", controllers.GetTask)

				tasks.POST("", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), controllers.CreateTask)
				tasks.PUT("/:id", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), controllers.UpdateTask)
				tasks.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteTask)
				tasks.POST("/:id/assign", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), controllers.AssignIntern)

				// Per-intern assignment status
				tasks.PATCH("/:id/assignments/:intern_id", controllers.UpdateAssignmentStatus)
				tasks.POST("/:id/assignments/:intern_id/reopen", middleware.RequireRole(models.RoleSupervisor, models.RoleAdmin), controllers.ReopenAssignment)
				tasks.POST("/:id/assignments/:intern_id/pause", controllers.PauseAssignment)

				// Collaboration layer
				tasks.GET("/:id/comments", controllers.GetComments)
				tasks.POST("/:id/comments", controllers.AddComment)

				tasks.GET("/:id/attachments", controllers.GetAttachments)
				tasks.POST("/:id/attachments", controllers.UploadAttachment)
			}

			protected.PUT("/comments/:comment_id", controllers.EditComment)
			protected.DELETE("/comments/:comment_id", controllers.DeleteComment)

			protected.GET("/attachments/:attachment_id/download", controllers.DownloadAttachment)
			protected.DELETE("/attachments/:attachment_id", controllers.DeleteAttachment)

			// Intern's own assignment list
			protected.GET("/my-assignments", middleware.RequireRole(models.RoleIntern), controllers.GetMyAssignments)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Admin CRUD
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.GetUsers)
				admin.POST("/users", controllers.CreateUser)
				admin.PUT("/users/:id", controllers.UpdateUser)
				admin.DELETE("/users/:id", controllers.DeleteUser)

				admin.POST("/specialties", controllers.CreateSpecialty)
				admin.PUT("/specialties/:id", controllers.UpdateSpecialty)
				admin.DELETE("/specialties/:id", controllers.DeleteSpecialty)
			}
		}
	}

	// 404 catch-all
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
