package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationBookingRequest   = "booking_request"
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingCompleted = "booking_completed"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationBookingNoShow    = "booking_no_show"
	NotificationSessionReminder  = "session_reminder"
	NotificationSessionFollowUp  = "session_follow_up"
)

const EntityTypeBooking = "booking"

// Notification is only ever created by the dispatcher or a job, never
// directly by a client. IsRead is the one field that changes afterwards.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReceiverID uuid.UUID  `gorm:"not null;index" json:"receiver_id"`
	SenderID   *uuid.UUID `json:"sender_id,omitempty"`
	Type       string     `gorm:"size:40;not null" json:"type"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Message    string     `gorm:"type:text" json:"message"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	EntityType *string    `gorm:"size:40" json:"entity_type,omitempty"`
	IsRead     bool       `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
