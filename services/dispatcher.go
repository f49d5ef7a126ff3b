package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/repository"
	"github.com/mwangiedu/tutor_marketplace/utils"
)

// AdminNotifyTarget selects who hears about admin-initiated status changes.
const (
	AdminNotifyStudent = "student"
	AdminNotifyTeacher = "teacher"
)

// Dispatcher turns completed booking transitions into persisted Notification
// rows, plus a best-effort email. It runs strictly after the status write
// has committed; a dispatch failure never rolls the booking back.
type Dispatcher struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository

	// adminNotify is AdminNotifyStudent or AdminNotifyTeacher.
	adminNotify string

	// sendEmail is fire-and-forget; nil disables email entirely.
	sendEmail func(toName, toEmail, subject, htmlContent string)
}

func NewDispatcher(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	adminNotify string,
	sendEmail func(toName, toEmail, subject, htmlContent string),
) *Dispatcher {
	if adminNotify != AdminNotifyTeacher {
		adminNotify = AdminNotifyStudent
	}
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		adminNotify:   adminNotify,
		sendEmail:     sendEmail,
	}
}

// BookingRequested notifies the teacher that a new pending booking exists.
// The booking must carry its TeacherProfile association.
func (d *Dispatcher) BookingRequested(b *models.Booking) (*models.Notification, error) {
	receiver, err := d.users.FindByID(b.TeacherProfile.UserID)
	if err != nil {
		return nil, fmt.Errorf("look up receiver: %w", err)
	}
	when := utils.FormatSessionTime(b.StartTime, receiver.TimeZone)
	return d.persist(
		receiver,
		&b.StudentID,
		b,
		models.NotificationBookingRequest,
		"New Booking Request",
		fmt.Sprintf("You have a new session request for %s.", when),
	)
}

// StatusChanged notifies the counterparty of the actor who moved the booking
// into newStatus. When the actor is an admin the receiver follows the
// configured admin policy.
func (d *Dispatcher) StatusChanged(b *models.Booking, newStatus string, actor Actor) (*models.Notification, error) {
	receiverID := d.receiverFor(b, actor)
	receiver, err := d.users.FindByID(receiverID)
	if err != nil {
		return nil, fmt.Errorf("look up receiver: %w", err)
	}

	when := utils.FormatSessionTime(b.StartTime, receiver.TimeZone)
	var notifType, title, message string
	switch newStatus {
	case models.BookingStatusConfirmed:
		notifType = models.NotificationBookingConfirmed
		title = "Booking Confirmed"
		message = fmt.Sprintf("Your session on %s has been confirmed.", when)
	case models.BookingStatusCompleted:
		notifType = models.NotificationBookingCompleted
		title = "Session Completed"
		message = fmt.Sprintf("Your session on %s was marked as completed.", when)
	case models.BookingStatusCancelled:
		notifType = models.NotificationBookingCancelled
		title = "Booking Cancelled"
		reason := "No reason provided"
		if b.CancelReason != nil && *b.CancelReason != "" {
			reason = *b.CancelReason
		}
		message = fmt.Sprintf("Your session on %s was cancelled. Reason: %s", when, reason)
	case models.BookingStatusNoShow:
		notifType = models.NotificationBookingNoShow
		title = "Session Marked as No-Show"
		message = fmt.Sprintf("The session on %s was marked as a no-show.", when)
	default:
		return nil, fmt.Errorf("no notification template for status %q", newStatus)
	}

	senderID := actor.UserID
	return d.persist(receiver, &senderID, b, notifType, title, message)
}

func (d *Dispatcher) receiverFor(b *models.Booking, actor Actor) uuid.UUID {
	teacherUserID := b.TeacherProfile.UserID
	switch actor.UserID {
	case b.StudentID:
		return teacherUserID
	case teacherUserID:
		return b.StudentID
	}
	if d.adminNotify == AdminNotifyTeacher {
		return teacherUserID
	}
	return b.StudentID
}

func (d *Dispatcher) persist(receiver *models.User, senderID *uuid.UUID, b *models.Booking, notifType, title, message string) (*models.Notification, error) {
	entityType := models.EntityTypeBooking
	entityID := b.ID
	notification := &models.Notification{
		ReceiverID: receiver.ID,
		SenderID:   senderID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		EntityID:   &entityID,
		EntityType: &entityType,
	}
	if err := d.notifications.Create(notification); err != nil {
		return nil, err
	}

	if d.sendEmail != nil {
		go d.sendEmail(receiver.FullName, receiver.Email, title, "<h1>"+title+"</h1><p>"+message+"</p>")
	}
	return notification, nil
}
