package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/repository"
)

// DefaultCancelReason is substituted when a cancellation arrives without a
// reason. Cancelling without one is accepted, never rejected.
const DefaultCancelReason = "No reason provided"

// BookingService orchestrates the booking lifecycle: conflict checking on
// create, the transition table on update, persistence, and notification
// dispatch.
type BookingService struct {
	bookings   repository.BookingRepository
	profiles   repository.TeacherProfileRepository
	dispatcher *Dispatcher
	query      *BookingQueryService

	// now is swappable in tests.
	now func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	profiles repository.TeacherProfileRepository,
	dispatcher *Dispatcher,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		profiles:   profiles,
		dispatcher: dispatcher,
		query:      NewBookingQueryService(bookings, profiles),
		now:        time.Now,
	}
}

type CreateBookingInput struct {
	// StudentID may only be set by an admin booking on a student's behalf;
	// everyone else books for themselves.
	StudentID        uuid.UUID
	TeacherProfileID uuid.UUID
	StartTime        time.Time
	EndTime          time.Time
	Notes            *string
}

func (s *BookingService) Create(actor Actor, in CreateBookingInput) (*models.Booking, *Error) {
	if actor.Role != models.RoleStudent && !actor.IsAdmin() {
		return nil, newError(KindForbidden, "Only students can book sessions")
	}

	studentID := actor.UserID
	if in.StudentID != uuid.Nil && in.StudentID != actor.UserID {
		if !actor.IsAdmin() {
			return nil, newError(KindForbidden, "Only admins can book on behalf of a student")
		}
		studentID = in.StudentID
	}

	profile, err := s.profiles.FindByID(in.TeacherProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Teacher profile not found")
		}
		return nil, newError(KindInternal, "Failed to load teacher profile")
	}
	if profile.ApprovalStatus != models.ApprovalApproved {
		return nil, newError(KindNotFound, "Teacher profile not found")
	}

	if !in.StartTime.Before(in.EndTime) {
		return nil, newError(KindInvalidTimeRange, "Start time must be before end time")
	}
	if !in.StartTime.After(s.now()) {
		return nil, newError(KindInvalidTimeRange, "Start time must be in the future")
	}

	// Early rejection only; CreateIfFree re-checks under the store's guard.
	taken, err := s.bookings.HasOverlap(in.TeacherProfileID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, newError(KindInternal, "Failed to check availability")
	}
	if taken {
		return nil, newError(KindSlotUnavailable, "The teacher is not available for the requested time slot")
	}

	booking := &models.Booking{
		StudentID:        studentID,
		TeacherProfileID: in.TeacherProfileID,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Status:           models.BookingStatusPending,
		Notes:            in.Notes,
	}
	if err := s.bookings.CreateIfFree(booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, newError(KindSlotUnavailable, "The teacher is not available for the requested time slot")
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(KindNotFound, "Teacher profile not found")
		}
		return nil, newError(KindInternal, "Failed to create booking")
	}

	created, err := s.bookings.FindByID(booking.ID)
	if err != nil {
		return nil, newError(KindInternal, "Failed to load created booking")
	}

	if _, err := s.dispatcher.BookingRequested(created); err != nil {
		log.Printf("Failed to dispatch booking request notification for %s: %v", created.ID, err)
	}
	return created, nil
}

func (s *BookingService) Get(actor Actor, id uuid.UUID) (*models.Booking, *Error) {
	booking, err := s.bookings.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Booking not found")
		}
		return nil, newError(KindInternal, "Failed to load booking")
	}
	if !actor.IsAdmin() && actor.UserID != booking.StudentID && actor.UserID != booking.TeacherProfile.UserID {
		return nil, newError(KindForbidden, "You are not a participant on this booking")
	}
	return booking, nil
}

type BookingPatch struct {
	Status       *string
	TeacherNotes *string
	CancelReason *string
	MeetingLink  *string
}

func (s *BookingService) Update(actor Actor, id uuid.UUID, patch BookingPatch) (*models.Booking, *Error) {
	booking, err := s.bookings.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "Booking not found")
		}
		return nil, newError(KindInternal, "Failed to load booking")
	}

	tActor := TransitionActor{
		Role:               actor.Role,
		IsStudentOnBooking: booking.StudentID == actor.UserID,
		IsTeacherOnBooking: booking.TeacherProfile.UserID == actor.UserID,
	}
	if !actor.IsAdmin() && !tActor.IsStudentOnBooking && !tActor.IsTeacherOnBooking {
		return nil, newError(KindForbidden, "You are not a participant on this booking")
	}

	fields := map[string]interface{}{}
	statusChanged := false
	effectiveStatus := booking.Status

	if patch.Status != nil {
		requested := models.NormalizeBookingStatus(*patch.Status)
		if !models.IsValidBookingStatus(requested) {
			return nil, newError(KindValidation, "Unknown booking status: "+*patch.Status)
		}
		decision := CanTransition(booking.Status, requested, tActor)
		if !decision.Allowed {
			return nil, newError(KindTransitionDenied, decision.Reason)
		}
		if !decision.NoOp {
			statusChanged = true
			effectiveStatus = requested
			fields["status"] = requested
			if requested == models.BookingStatusCancelled {
				reason := DefaultCancelReason
				if patch.CancelReason != nil && *patch.CancelReason != "" {
					reason = *patch.CancelReason
				}
				fields["cancel_reason"] = reason
				fields["canceled_by"] = actor.UserID
			}
		}
	}

	if patch.TeacherNotes != nil {
		if !CanSetTeacherNotes(tActor) {
			return nil, newError(KindTransitionDenied, "Only the teacher on this booking or an admin may set teacher notes")
		}
		fields["teacher_notes"] = *patch.TeacherNotes
	}

	if patch.MeetingLink != nil {
		if !CanSetMeetingLink(tActor, effectiveStatus) {
			return nil, newError(KindTransitionDenied, "Meeting links can only be set by the teacher or an admin on a confirmed booking")
		}
		fields["meeting_link"] = *patch.MeetingLink
	}

	if len(fields) == 0 {
		// No-op request, including re-asserting the current status.
		return booking, nil
	}

	updated, err := s.bookings.UpdateFields(booking.ID, booking.Status, fields)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleUpdate):
			return nil, newError(KindConflict, "Booking was modified by another request, please retry")
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(KindNotFound, "Booking not found")
		}
		return nil, newError(KindInternal, "Failed to update booking")
	}

	if statusChanged {
		if _, err := s.dispatcher.StatusChanged(updated, updated.Status, actor); err != nil {
			log.Printf("Failed to dispatch status notification for booking %s: %v", updated.ID, err)
		}
	}
	return updated, nil
}

// Cancel is sugar over Update with status set to cancelled.
func (s *BookingService) Cancel(actor Actor, id uuid.UUID, reason string) (*models.Booking, *Error) {
	cancelled := models.BookingStatusCancelled
	patch := BookingPatch{Status: &cancelled}
	if reason != "" {
		patch.CancelReason = &reason
	}
	return s.Update(actor, id, patch)
}

func (s *BookingService) List(actor Actor, in ListBookingsInput) (*BookingPage, *Error) {
	return s.query.List(actor, in)
}
