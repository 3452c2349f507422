package handler

import (
	"context"
	"log/slog"
	"net/http"

	"agrimarket/internal/delivery/api/middleware"
	"agrimarket/internal/delivery/api/response"
	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/infra/realtime"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ChatHandlerParams holds dependencies for ChatHandler, injected by Fx.
type ChatHandlerParams struct {
	fx.In

	ChatUC usecase.ChatUsecase
	Hub    *realtime.Hub
	Logger *slog.Logger
}

// ChatHandler serves the buyer-seller conversation of an order group.
type ChatHandler struct {
	chatUC usecase.ChatUsecase
	hub    *realtime.Hub
	logger *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler
func NewChatHandler(params ChatHandlerParams) *ChatHandler {
	return &ChatHandler{
		chatUC: params.ChatUC,
		hub:    params.Hub,
		logger: params.Logger,
	}
}

// PostMessageRequest represents a message posted to the group in the path.
type PostMessageRequest struct {
	ReceiverID *uuid.UUID `json:"receiverId,omitempty"`
	Text       string     `json:"text" validate:"required"`
}

// ListMessages returns the group's conversation, oldest first.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	messages, err := h.chatUC.ListMessages(c.Request().Context(), userID, c.Param("orderId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, messages)
}

// PostMessage sends a message to the group named in the path.
func (h *ChatHandler) PostMessage(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid message input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	return h.send(c, userID, &usecase.SendMessageInput{
		OrderGroupID: c.Param("orderId"),
		ReceiverID:   req.ReceiverID,
		Text:         req.Text,
	})
}

// SendMessage sends a message to the group named in the body.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req usecase.SendMessageInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid message input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	return h.send(c, userID, &req)
}

func (h *ChatHandler) send(c echo.Context, userID uuid.UUID, input *usecase.SendMessageInput) error {
	message, err := h.chatUC.SendMessage(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, message)
}

// Stream upgrades to a websocket subscribed to the group. Text frames sent by
// the client are stored and broadcast like posted messages.
func (h *ChatHandler) Stream(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	groupID := c.Param("orderId")
	if err := h.chatUC.Authorize(c.Request().Context(), userID, groupID); err != nil {
		return response.HandleAppError(c, err)
	}

	onInbound := func(ctx context.Context, room string, senderID uuid.UUID, text string) error {
		_, err := h.chatUC.SendMessage(ctx, senderID, &usecase.SendMessageInput{OrderGroupID: room, Text: text})

		return err
	}

	if err := h.hub.Serve(c.Response(), c.Request(), groupID, userID, onInbound); err != nil {
		// The upgrader has already answered the request.
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
			Debug("Chat stream upgrade failed", slog.Any("error", err))
	}

	return nil
}
