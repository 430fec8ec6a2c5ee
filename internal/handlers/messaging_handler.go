package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type MessagingHandler struct {
	BaseHandler
	messagingService services.MessagingService
}

func NewMessagingHandler(messagingService services.MessagingService, logger utils.Logger) *MessagingHandler {
	return &MessagingHandler{
		BaseHandler:      NewBaseHandler(logger),
		messagingService: messagingService,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage sends a direct message from the caller
// @Summary Send a message
// @Tags messaging
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "Message data"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Receiver not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /messages [post]
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	h.LogRequest(c, "Sending message")

	senderID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	message, err := h.messagingService.SendMessage(c.Request.Context(), &services.SendMessageRequest{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// GetConversation returns the exchange between the caller and another user
// @Summary Get a conversation
// @Description Full message history between the caller and another user, oldest first
// @Tags messaging
// @Produce json
// @Param user_id path string true "Other user ID"
// @Success 200 {object} map[string]interface{} "Conversation response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /conversations/{user_id} [get]
func (h *MessagingHandler) GetConversation(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.messagingService.GetConversation(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// MarkMessageRead marks a received message as read
// @Summary Mark message read
// @Tags messaging
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} models.Message
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the recipient"
// @Failure 404 {object} ErrorResponse "Message not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /messages/{id}/read [put]
func (h *MessagingHandler) MarkMessageRead(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	message, err := h.messagingService.MarkMessageRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

// ListNotifications lists the caller's notifications, newest first
// @Summary List notifications
// @Tags messaging
// @Produce json
// @Success 200 {object} map[string]interface{} "Notification list response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications [get]
func (h *MessagingHandler) ListNotifications(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.messagingService.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// UnreadNotificationCount returns the caller's unread badge count
// @Summary Get unread notification count
// @Tags messaging
// @Produce json
// @Success 200 {object} map[string]interface{} "Unread count response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/unread-count [get]
func (h *MessagingHandler) UnreadNotificationCount(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	count, err := h.messagingService.UnreadNotificationCount(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkNotificationRead marks one of the caller's notifications as read
// @Summary Mark notification read
// @Tags messaging
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Notification not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /notifications/{id}/read [put]
func (h *MessagingHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	notification, err := h.messagingService.MarkNotificationRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}
