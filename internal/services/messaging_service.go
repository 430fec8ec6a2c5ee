package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
	"github.com/scholalink/school-service/internal/validator"
)

// ===== REQUEST DTOs =====

type SendMessageRequest struct {
	SenderID   string `json:"sender_id" validate:"required"`
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=1,max=5000"`
}

type MessageSentEvent struct {
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

// ===== SERVICE INTERFACE =====

type MessagingService interface {
	SendMessage(ctx context.Context, req *SendMessageRequest) (*models.Message, error)
	// GetConversation returns the full exchange between two users,
	// oldest first.
	GetConversation(ctx context.Context, userA, userB string) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, userID, messageID string) (*models.Message, error)

	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
	UnreadNotificationCount(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) (*models.Notification, error)
}

// ===== SERVICE IMPLEMENTATION =====

type messagingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMessagingService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) MessagingService {
	return &messagingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *messagingService) SendMessage(ctx context.Context, req *SendMessageRequest) (*models.Message, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}
	if req.SenderID == req.ReceiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidationFailed)
	}

	for _, id := range []string{req.SenderID, req.ReceiverID} {
		if _, err := s.repo.User().GetByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
	}

	message := &models.Message{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Timestamp:  time.Now().UTC(),
		Read:       false,
	}
	if err := s.repo.Message().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	event := events.NewEvent(events.EventMessageSent, &MessageSentEvent{
		MessageID:  message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
	})
	if err := s.publisher.Publish(ctx, events.TopicMessaging, event); err != nil {
		s.logger.Error("Failed to publish message event", "error", err, "message_id", message.ID)
	}

	s.logger.Info("Sent message", "message_id", message.ID, "sender_id", message.SenderID, "receiver_id", message.ReceiverID)
	return message, nil
}

func (s *messagingService) GetConversation(ctx context.Context, userA, userB string) ([]*models.Message, error) {
	messages, err := s.repo.Message().ListConversation(ctx, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	return messages, nil
}

func (s *messagingService) MarkMessageRead(ctx context.Context, userID, messageID string) (*models.Message, error) {
	message, err := s.repo.Message().GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: message %s", ErrNotFound, messageID)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	// Only the recipient may mark a message read.
	if message.ReceiverID != userID {
		return nil, ErrForbidden
	}

	message.Read = true
	if err := s.repo.Message().Update(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return message, nil
}

func (s *messagingService) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	notifications, err := s.repo.Notification().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *messagingService) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.Notification().CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (s *messagingService) MarkNotificationRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	notification, err := s.repo.Notification().GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: notification %s", ErrNotFound, notificationID)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if notification.UserID != userID {
		return nil, ErrForbidden
	}

	notification.Read = true
	if err := s.repo.Notification().Update(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return notification, nil
}
