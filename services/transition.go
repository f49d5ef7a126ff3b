package services

import "github.com/mwangiedu/tutor_marketplace/models"

// TransitionActor is the caller seen relative to one booking.
type TransitionActor struct {
	Role               string
	IsStudentOnBooking bool
	IsTeacherOnBooking bool
}

func (a TransitionActor) isTeacherOrAdmin() bool {
	return a.IsTeacherOnBooking || a.Role == models.RoleAdmin
}

// Decision is the outcome of consulting the transition table.
type Decision struct {
	Allowed bool
	// NoOp marks a re-request of the current status: allowed, nothing
	// written, no notification.
	NoOp   bool
	Reason string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanTransition decides whether actor may move a booking from current to
// requested. It is a pure function of its arguments.
func CanTransition(current, requested string, actor TransitionActor) Decision {
	if requested == current {
		return Decision{Allowed: true, NoOp: true}
	}
	if models.IsTerminalBookingStatus(current) {
		return deny("a " + current + " booking cannot change status")
	}

	switch requested {
	case models.BookingStatusConfirmed, models.BookingStatusCompleted, models.BookingStatusNoShow:
		if actor.isTeacherOrAdmin() {
			return allow()
		}
		return deny("only the teacher on this booking or an admin may set status to " + requested)
	case models.BookingStatusCancelled:
		if actor.IsStudentOnBooking || actor.isTeacherOrAdmin() {
			return allow()
		}
		return deny("only a participant on this booking or an admin may cancel it")
	case models.BookingStatusPending:
		return deny("bookings cannot be moved back to pending")
	}
	return deny("unknown status: " + requested)
}

// CanSetTeacherNotes gates writes to the teacher_notes field.
func CanSetTeacherNotes(actor TransitionActor) bool {
	return actor.isTeacherOrAdmin()
}

// CanSetMeetingLink gates writes to meeting_link. effectiveStatus is the
// status the booking holds after this request, so setting the link in the
// same request that confirms is allowed.
func CanSetMeetingLink(actor TransitionActor, effectiveStatus string) bool {
	return actor.isTeacherOrAdmin() && effectiveStatus == models.BookingStatusConfirmed
}
