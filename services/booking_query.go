package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ListBookingsInput struct {
	Page  int
	Limit int

	Status string
	// UserID filters by student; admin only.
	UserID uuid.UUID
	// TeacherProfileID is honored for admins and silently overridden for
	// teachers with their own profile.
	TeacherProfileID uuid.UUID
	FromDate         time.Time
	ToDate           time.Time
}

type BookingPage struct {
	Data       []models.Booking `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// BookingQueryService is the role-scoped read model over bookings.
type BookingQueryService struct {
	bookings repository.BookingRepository
	profiles repository.TeacherProfileRepository
}

func NewBookingQueryService(
	bookings repository.BookingRepository,
	profiles repository.TeacherProfileRepository,
) *BookingQueryService {
	return &BookingQueryService{bookings: bookings, profiles: profiles}
}

func (s *BookingQueryService) List(actor Actor, in ListBookingsInput) (*BookingPage, *Error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := repository.BookingFilter{
		Page:     page,
		Limit:    limit,
		FromDate: in.FromDate,
		ToDate:   in.ToDate,
	}
	if in.Status != "" {
		status := models.NormalizeBookingStatus(in.Status)
		if !models.IsValidBookingStatus(status) {
			return nil, newError(KindValidation, "Unknown booking status: "+in.Status)
		}
		filter.Status = status
	}

	switch {
	case actor.IsAdmin():
		filter.StudentID = in.UserID
		filter.TeacherProfileID = in.TeacherProfileID
	case actor.Role == models.RoleTeacher:
		// Teachers only ever see their own profile's bookings; a filter for
		// another teacher is overridden, not rejected.
		profile, err := s.profiles.FindByUserID(actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &BookingPage{Data: []models.Booking{}, Page: page, Limit: limit}, nil
			}
			return nil, newError(KindInternal, "Failed to load teacher profile")
		}
		filter.TeacherProfileID = profile.ID
	default:
		filter.StudentID = actor.UserID
	}

	data, total, err := s.bookings.List(filter)
	if err != nil {
		return nil, newError(KindInternal, "Failed to list bookings")
	}
	if data == nil {
		data = []models.Booking{}
	}
	return &BookingPage{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}
