package services

import (
	"testing"

	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherAdminNotifyTeacherPolicy(t *testing.T) {
	env := newTestEnv(t)

	// Rewire the service with the teacher-facing admin policy.
	dispatcher := NewDispatcher(env.store.Notifications(), env.store.Users(), AdminNotifyTeacher, nil)
	env.service = NewBookingService(env.store.Bookings(), env.store.TeacherProfiles(), dispatcher)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Update(env.admin, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)

	notifs := env.store.NotificationsSnapshot()
	last := notifs[len(notifs)-1]
	assert.Equal(t, env.teacher.UserID, last.ReceiverID)
}

func TestDispatcherUnknownPolicyFallsBackToStudent(t *testing.T) {
	store := repository.NewMemoryStore()
	dispatcher := NewDispatcher(store.Notifications(), store.Users(), "everyone", nil)
	assert.Equal(t, AdminNotifyStudent, dispatcher.adminNotify)
}

func TestDispatcherFormatsTimeInReceiverZone(t *testing.T) {
	env := newTestEnv(t)

	nairobi := "Africa/Nairobi"
	env.store.AddUser(models.User{
		ID:       env.teacher.UserID,
		FullName: "Tess Teacher",
		Email:    "tess@example.com",
		Role:     models.RoleTeacher,
		TimeZone: &nairobi,
	})

	env.mustCreate(t, env.student, 10, 11)

	notifs := env.store.NotificationsSnapshot()
	require.Len(t, notifs, 1)
	// 10:00 UTC is 13:00 in Nairobi (UTC+3, no DST).
	assert.Contains(t, notifs[0].Message, "13:00")
}
