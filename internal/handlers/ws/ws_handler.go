// internal/handlers/ws/ws_handler.go
package ws

import (
	"net/http"

	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/auth"
	"crm-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades authenticated connections onto the live
// activity feed. Browsers cannot set an Authorization header on a
// websocket handshake, so the credential arrives as a query parameter.
type WebSocketHandler struct {
	hub         *ws.Hub
	authService *service.AuthService
	logger      *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, authService *service.AuthService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		logger:      logger,
	}
}

func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		response.Error(c, http.StatusUnauthorized, "missing token", nil)
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), tokenString)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID, h.logger)
	client.Start()
}
