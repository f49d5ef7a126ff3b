package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken is returned by CreateIfFree when an active booking
	// overlaps the requested interval.
	ErrSlotTaken = errors.New("time slot already taken")
	// ErrStaleUpdate is returned by UpdateFields when the booking no longer
	// holds the status the caller based its decision on.
	ErrStaleUpdate = errors.New("booking was modified concurrently")
)

// BookingFilter narrows a booking listing. Zero values mean "no filter".
// Scoping by role happens in the query service, not here.
type BookingFilter struct {
	StudentID        uuid.UUID
	TeacherProfileID uuid.UUID
	Status           string
	FromDate         time.Time
	ToDate           time.Time
	Page             int
	Limit            int
}

type BookingRepository interface {
	FindByID(id uuid.UUID) (*models.Booking, error)
	// HasOverlap reports whether an active booking for the teacher overlaps
	// [start, end). Touching endpoints do not overlap.
	HasOverlap(teacherProfileID uuid.UUID, start, end time.Time) (bool, error)
	// CreateIfFree atomically re-checks the interval and inserts the
	// booking. The overlap check and the insert happen under the same
	// guard, so two concurrent calls for overlapping intervals cannot both
	// succeed.
	CreateIfFree(b *models.Booking) error
	// UpdateFields applies fields to the booking iff its status still
	// equals expectedStatus, and returns the updated row.
	UpdateFields(id uuid.UUID, expectedStatus string, fields map[string]interface{}) (*models.Booking, error)
	List(f BookingFilter) ([]models.Booking, int64, error)
}

type TeacherProfileRepository interface {
	FindByID(id uuid.UUID) (*models.TeacherProfile, error)
	FindByUserID(userID uuid.UUID) (*models.TeacherProfile, error)
}

type UserRepository interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

type NotificationRepository interface {
	Create(n *models.Notification) error
}

// Overlaps is the shared interval predicate: half-open [start, end)
// intervals conflict iff each starts before the other ends.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
