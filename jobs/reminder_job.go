package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/notifications"
	"github.com/mwangiedu/tutor_marketplace/utils"
)

// SendSessionReminders runs every 5 minutes; the 5 minute window keeps each
// booking from being reminded twice.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking

	err := database.DB.
		Preload("Student").
		Preload("TeacherProfile.User").
		Where("status = ? AND start_time BETWEEN ? AND ?", models.BookingStatusConfirmed, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		link := "your dashboard"
		if booking.MeetingLink != nil {
			link = *booking.MeetingLink
		}

		remind(booking, booking.Student, link)
		remind(booking, booking.TeacherProfile.User, link)
	}
}

func remind(booking models.Booking, receiver models.User, link string) {
	when := utils.FormatSessionTime(booking.StartTime, receiver.TimeZone)
	entityType := models.EntityTypeBooking
	entityID := booking.ID

	notification := models.Notification{
		ReceiverID: receiver.ID,
		Type:       models.NotificationSessionReminder,
		Title:      "Session Starting Soon",
		Message:    fmt.Sprintf("Your session at %s starts in one hour.", when),
		EntityID:   &entityID,
		EntityType: &entityType,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create reminder notification for %s: %v", receiver.ID, err)
	}

	go notifications.SendEmail(
		receiver.FullName,
		receiver.Email,
		"Reminder: Your Session Starts in 1 Hour!",
		fmt.Sprintf("<h1>Session Reminder</h1><p>Your session is scheduled to start in one hour at %s.</p><p><b>Where to join:</b> %s</p>", when, link),
	)
}
