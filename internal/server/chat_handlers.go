package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"innovalley/internal/middleware"
	"innovalley/internal/models"
	"innovalley/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const wsReadTimeout = 5 * time.Minute

// Ask handles POST /ask
func (s *Server) Ask(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	reply, err := s.chatService.Reply(c.UserContext(), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	observability.ChatMessagesTotal.WithLabelValues("http").Inc()
	return c.JSON(models.ChatReply{Reply: reply})
}

// WebSocketUpgrade rejects plain HTTP requests under /ws.
func (s *Server) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WebSocketChatHandler handles GET /ws/ask. Every text frame is answered
// with one JSON frame: a ChatReply, or an ErrorResponse for blank input.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()
		defer func() { _ = conn.Close() }()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					middleware.Logger.WarnContext(ctx, "chat socket closed",
						slog.String("error", err.Error()))
				}
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			var out any
			reply, err := s.chatService.Reply(ctx, string(msg))
			if err != nil {
				out = models.ErrorResponse{Error: err.Error(), Code: models.ErrorCode(err)}
			} else {
				observability.ChatMessagesTotal.WithLabelValues("websocket").Inc()
				out = models.ChatReply{Reply: reply}
			}

			payload, _ := json.Marshal(out)
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	})
}
