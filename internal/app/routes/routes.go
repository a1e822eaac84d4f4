package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/trainingops/trainingops/internal/app/controllers"
	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	inviteController *controllers.InviteController,
	clientController *controllers.ClientController,
	engagementController *controllers.EngagementController,
	eventController *controllers.EventController,
	instructorController *controllers.InstructorController,
	geoController *controllers.GeoController,
	wsHandler *realtime.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh-token", authController.RefreshToken)
	}

	// Registration is reachable without a session; the invite token gates it
	register := v1.Group("/register")
	{
		register.GET("/:token", inviteController.CheckInvite)
		register.POST("/:token", inviteController.Register)
	}

	// Geo lookups back the public registration form
	geo := v1.Group("/geo")
	{
		geo.GET("/comuni", geoController.SearchComuni)
		geo.GET("/province", geoController.GetProvinces)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/change-password", authController.ChangePassword)

		// Instructor self-service. Admin accounts have no instructor profile,
		// so these reject them with 403.
		me := authenticated.Group("/me")
		{
			me.GET("/engagements", engagementController.GetMyEngagements)
			me.GET("/engagements/:id/events", eventController.GetMyEngagementEvents)
			me.GET("/events", eventController.GetMyEvents)
		}

		// Calendar export and the websocket feed check engagement access per
		// role themselves.
		authenticated.GET("/engagements/:id/calendar.ics", engagementController.ExportICal)
		authenticated.GET("/engagements/:id/calendar/ws", wsHandler.HandleConnection)

		// --- Admin routes ---
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			invites := admin.Group("/invites")
			{
				invites.POST("", inviteController.CreateInvite)
				invites.GET("", inviteController.GetAllInvites)
				invites.DELETE("/:id", inviteController.RevokeInvite)
			}

			clients := admin.Group("/clients")
			{
				clients.POST("", clientController.CreateClient)
				clients.GET("", clientController.GetAllClients)
				clients.GET("/:id", clientController.GetClientByID)
				clients.PUT("/:id", clientController.UpdateClient)
				clients.DELETE("/:id", clientController.DeleteClient)
			}

			engagements := admin.Group("/engagements")
			{
				engagements.POST("", engagementController.CreateEngagement)
				engagements.GET("", engagementController.GetAllEngagements)
				engagements.GET("/:id", engagementController.GetEngagementByID)
				engagements.PUT("/:id", engagementController.UpdateEngagement)
				engagements.DELETE("/:id", engagementController.DeleteEngagement)
				engagements.GET("/:id/stats", engagementController.GetStats)

				engagements.GET("/:id/events", eventController.ListEvents)
				engagements.POST("/:id/events", eventController.CreateEvent)
				engagements.POST("/:id/events/range", eventController.CreateEventRange)
				engagements.POST("/:id/events/assign", eventController.BulkAssign)
				engagements.PUT("/:id/events/bulk", eventController.BulkUpdate)
				engagements.DELETE("/:id/events/bulk", eventController.BulkDelete)
			}

			events := admin.Group("/events")
			{
				events.GET("/:id", eventController.GetEventByID)
				events.PUT("/:id", eventController.UpdateEvent)
			}

			instructors := admin.Group("/instructors")
			{
				instructors.POST("", instructorController.CreateInstructor)
				instructors.GET("", instructorController.GetAllInstructors)
				instructors.GET("/:id", instructorController.GetInstructorByID)
				instructors.PUT("/:id", instructorController.UpdateInstructor)
				instructors.DELETE("/:id", instructorController.DeleteInstructor)

				instructors.POST("/:id/cv", instructorController.UploadCV)
				instructors.GET("/:id/cv", instructorController.DownloadCV)
				instructors.DELETE("/:id/cv", instructorController.DeleteCV)

				instructors.PUT("/:id/user-status", instructorController.SetUserStatus)
				instructors.PUT("/:id/reset-password", instructorController.ResetPassword)
			}

			admin.DELETE("/geo/cache", geoController.InvalidateCache)
		}
	}
}
