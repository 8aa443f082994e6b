// internal/app/router.go
package app

import (
	activityHandler "crm-service/internal/handlers/activity"
	authHandler "crm-service/internal/handlers/auth"
	contactHandler "crm-service/internal/handlers/contact"
	prospectHandler "crm-service/internal/handlers/prospect"
	wsHandler "crm-service/internal/handlers/ws"
	"crm-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	ContactHandler  *contactHandler.ContactHandler
	ProspectHandler *prospectHandler.ProspectHandler
	ActivityHandler *activityHandler.ActivityHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Activity Feed (WebSocket) ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/otp/request", h.AuthHandler.RequestOTP)
		auth.POST("/otp/verify", h.AuthHandler.VerifyOTP)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Contacts ====================
	contacts := api.Group("/contacts")
	contacts.Use(h.AuthMiddleware.Auth())
	{
		contacts.GET("", h.ContactHandler.ListContacts)
		contacts.POST("", h.ContactHandler.CreateContact)
		contacts.GET("/:id", h.ContactHandler.GetContact)
		contacts.PUT("/:id", h.ContactHandler.UpdateContact)
		contacts.DELETE("/:id", h.ContactHandler.DeleteContact)
	}

	// ==================== Prospects ====================
	prospects := api.Group("/prospects")
	prospects.Use(h.AuthMiddleware.Auth())
	{
		prospects.GET("", h.ProspectHandler.ListProspects)
		prospects.POST("", h.ProspectHandler.CreateProspect)
		prospects.GET("/:id", h.ProspectHandler.GetProspect)
		prospects.PUT("/:id", h.ProspectHandler.UpdateProspect)
		prospects.DELETE("/:id", h.ProspectHandler.DeleteProspect)
	}

	// ==================== Activities ====================
	activities := api.Group("/activities")
	activities.Use(h.AuthMiddleware.Auth())
	{
		activities.GET("", h.ActivityHandler.ListActivities)
	}
}
