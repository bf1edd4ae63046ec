// FILE: internal/handler/dashboard_ws_handler.go
// Websocket entry point for the live dashboard. The handshake authenticates
// with the same JWT the REST API uses (query param for browsers, header for
// tooling), then hands the connection to the hub.
package handler

import (
	"context"
	"os"

	"datacloud-analytics-be/internal/pkg/logger"
	internalWS "datacloud-analytics-be/internal/websocket"
	"datacloud-analytics-be/pkg/events"
	pktNats "datacloud-analytics-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type DashboardWsHandler struct {
	hub        *internalWS.Hub
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewDashboardWsHandler(hub *internalWS.Hub, sub *pktNats.Subscriber, log logger.ILogger) *DashboardWsHandler {
	return &DashboardWsHandler{
		hub:        hub,
		subscriber: sub,
		logger:     log,
	}
}

func (h *DashboardWsHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws/dashboard", h.ServeWs)
}

// StartBusBridge re-broadcasts durable alert events from the NATS stream to
// local websocket clients. Instances that did not run the evaluation still
// push the alert to their connected dashboards.
func (h *DashboardWsHandler) StartBusBridge() {
	if h.subscriber == nil {
		return
	}
	err := h.subscriber.Subscribe("events."+events.TypeAlertTriggered, "dashboard-ws-bridge",
		func(ctx context.Context, event events.Event) error {
			h.hub.Broadcast(internalWS.MessageAlert, event.Payload())
			return nil
		})
	if err != nil {
		h.logger.Warn("DashboardWs", "Failed to start bus bridge", map[string]interface{}{"error": err.Error()})
	}
}

func (h *DashboardWsHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("DashboardWs", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("DashboardWs", "Dashboard session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("DashboardWs", "Dashboard session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
