package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID        uuid.UUID `gorm:"not null;unique" json:"booking_id"`
	StudentID        uuid.UUID `gorm:"not null" json:"student_id"`
	TeacherProfileID uuid.UUID `gorm:"not null" json:"teacher_profile_id"`
	Rating           int       `gorm:"not null" json:"rating"`
	Comment          string    `gorm:"type:text" json:"comment"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`
	Student User    `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
