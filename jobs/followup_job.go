package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/mwangiedu/tutor_marketplace/database"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/utils"
)

// CheckForUnclosedSessions nudges teachers about confirmed sessions that
// ended over a day ago without being marked completed or no_show. It only
// notifies; the status change itself stays with the teacher or an admin.
// Runs hourly, so the one hour window avoids duplicate nudges.
func CheckForUnclosedSessions() {
	log.Println("Running job: CheckForUnclosedSessions...")

	now := time.Now()
	upperBound := now.Add(-24 * time.Hour)
	lowerBound := now.Add(-25 * time.Hour)

	var unclosedBookings []models.Booking

	err := database.DB.
		Preload("TeacherProfile.User").
		Where("status = ? AND end_time BETWEEN ? AND ?", models.BookingStatusConfirmed, lowerBound, upperBound).
		Find(&unclosedBookings).Error
	if err != nil {
		log.Printf("Error checking for unclosed sessions: %v", err)
		return
	}

	if len(unclosedBookings) == 0 {
		log.Println("No unclosed sessions found.")
		return
	}

	for _, booking := range unclosedBookings {
		teacher := booking.TeacherProfile.User
		when := utils.FormatSessionTime(booking.StartTime, teacher.TimeZone)
		entityType := models.EntityTypeBooking
		entityID := booking.ID

		notification := models.Notification{
			ReceiverID: teacher.ID,
			Type:       models.NotificationSessionFollowUp,
			Title:      "Please Close Out Your Session",
			Message:    fmt.Sprintf("Your session on %s is still marked as confirmed. Please mark it completed or as a no-show.", when),
			EntityID:   &entityID,
			EntityType: &entityType,
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to create follow-up notification for booking %s: %v", booking.ID, err)
		}
	}

	log.Printf("Nudged teachers about %d unclosed session(s).", len(unclosedBookings))
}
