package realtime

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/trainingops/trainingops/internal/app/models"
)

// EngagementAccess answers whether a user may watch an engagement's calendar.
type EngagementAccess interface {
	CanAccessEngagement(ctx context.Context, userID int64, role models.RoleType, engagementID int64) (bool, error)
}

// Handler upgrades HTTP requests to WebSocket subscriptions.
type Handler struct {
	hub    *Hub
	access EngagementAccess
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, access EngagementAccess, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		access: access,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to calendar changes for an engagement
// @Description Upgrades the HTTP connection to a WebSocket pushing real-time calendar change notifications
// @Tags engagements, websocket
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} gin.H "Invalid engagement ID"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} gin.H "Forbidden: user has no events in this engagement"
// @Router /engagements/{id}/calendar/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	engagementID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid engagement ID"})
		return
	}

	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	role := models.RoleInstructor
	if roleValue, exists := c.Get("userRole"); exists {
		if r, ok := roleValue.(models.RoleType); ok {
			role = r
		}
	}

	allowed, err := h.access.CanAccessEngagement(c, userID, role, engagementID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("engagementID", engagementID).
			Int64("userID", userID).
			Msg("Failed to check engagement access")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check engagement access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this engagement"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("engagementID", engagementID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:          h.hub,
		conn:         conn,
		send:         make(chan []byte, 64),
		userID:       userID,
		engagementID: engagementID,
		logger:       h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("engagementID", engagementID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Realtime subscription established")
}
