package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

type messageRepository struct{ r *repository }

func (m *messageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	defer m.r.lock()()
	message, ok := m.r.s.messages[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *message
	return &c, nil
}

func (m *messageRepository) ListConversation(ctx context.Context, userA, userB string) ([]*models.Message, error) {
	defer m.r.lock()()
	return m.listLocked(func(msg *models.Message) bool {
		return (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA)
	}), nil
}

func (m *messageRepository) ListByUser(ctx context.Context, userID string) ([]*models.Message, error) {
	defer m.r.lock()()
	return m.listLocked(func(msg *models.Message) bool {
		return msg.SenderID == userID || msg.ReceiverID == userID
	}), nil
}

func (m *messageRepository) listLocked(match func(*models.Message) bool) []*models.Message {
	messages := make([]*models.Message, 0)
	for _, message := range m.r.s.messages {
		if match(message) {
			c := *message
			messages = append(messages, &c)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages
}

func (m *messageRepository) Create(ctx context.Context, message *models.Message) error {
	defer m.r.lock()()
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	c := *message
	m.r.s.messages[message.ID] = &c
	return nil
}

func (m *messageRepository) Update(ctx context.Context, message *models.Message) error {
	defer m.r.lock()()
	if _, ok := m.r.s.messages[message.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *message
	m.r.s.messages[message.ID] = &c
	return nil
}

type notificationRepository struct{ r *repository }

func (n *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	defer n.r.lock()()
	notification, ok := n.r.s.notifications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *notification
	return &c, nil
}

func (n *notificationRepository) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	defer n.r.lock()()
	notifications := make([]*models.Notification, 0)
	for _, notification := range n.r.s.notifications {
		if notification.UserID == userID {
			c := *notification
			notifications = append(notifications, &c)
		}
	}
	// Bell dropdown shows the most recent first.
	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].Date.Equal(notifications[j].Date) {
			return notifications[i].Date.After(notifications[j].Date)
		}
		return notifications[i].ID < notifications[j].ID
	})
	return notifications, nil
}

func (n *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	defer n.r.lock()()
	count := 0
	for _, notification := range n.r.s.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (n *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	defer n.r.lock()()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	c := *notification
	n.r.s.notifications[notification.ID] = &c
	return nil
}

func (n *notificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	defer n.r.lock()()
	if _, ok := n.r.s.notifications[notification.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *notification
	n.r.s.notifications[notification.ID] = &c
	return nil
}
