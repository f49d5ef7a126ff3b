package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
)

// ActiveBookingStatuses are the statuses that occupy a teacher's time slot
// for conflict detection.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

type Booking struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID        uuid.UUID `gorm:"not null;index" json:"student_id"`
	TeacherProfileID uuid.UUID `gorm:"not null;index" json:"teacher_profile_id"`
	StartTime        time.Time `gorm:"not null" json:"start_time"`
	EndTime          time.Time `gorm:"not null" json:"end_time"`
	Status           string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	Notes        *string `gorm:"type:text" json:"notes,omitempty"`
	TeacherNotes *string `gorm:"type:text" json:"teacher_notes,omitempty"`
	MeetingLink  *string `gorm:"size:255" json:"meeting_link,omitempty"`

	CancelReason *string    `gorm:"size:255" json:"cancel_reason,omitempty"`
	CanceledBy   *uuid.UUID `json:"canceled_by,omitempty"`

	Student        User           `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	TeacherProfile TeacherProfile `gorm:"foreignkey:TeacherProfileID" json:"teacher_profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidBookingStatus reports whether s is one of the canonical statuses.
func IsValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// IsTerminalBookingStatus reports whether a booking in status s admits no
// further transitions.
func IsTerminalBookingStatus(s string) bool {
	switch s {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// NormalizeBookingStatus maps legacy client spellings onto the canonical
// lowercase statuses. "scheduled" is an old synonym for "confirmed".
func NormalizeBookingStatus(s string) string {
	switch s {
	case "scheduled", "SCHEDULED":
		return BookingStatusConfirmed
	case "PENDING":
		return BookingStatusPending
	case "CONFIRMED":
		return BookingStatusConfirmed
	case "COMPLETED":
		return BookingStatusCompleted
	case "CANCELLED":
		return BookingStatusCancelled
	case "NO_SHOW":
		return BookingStatusNoShow
	}
	return s
}
