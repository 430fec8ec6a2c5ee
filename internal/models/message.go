package models

import "time"

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}

type NotificationType string

const (
	NotificationGrade      NotificationType = "GRADE"
	NotificationAssignment NotificationType = "ASSIGNMENT"
	NotificationSystem     NotificationType = "SYSTEM"
)

type Notification struct {
	ID      string           `json:"id"`
	UserID  string           `json:"user_id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    time.Time        `json:"date"`
	Read    bool             `json:"read"`
	Type    NotificationType `json:"type"`
}
