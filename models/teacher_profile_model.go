package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type TeacherProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"not null;unique" json:"user_id"`
	Headline       *string   `gorm:"size:255" json:"headline"`
	Bio            *string   `gorm:"type:text" json:"bio"`
	HourlyRate     float64   `gorm:"type:numeric(10,2);default:0.00" json:"hourly_rate"`
	ApprovalStatus string    `gorm:"size:20;not null;default:'pending'" json:"approval_status"`
	AvgRating      float32   `gorm:"default:0" json:"avg_rating"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
