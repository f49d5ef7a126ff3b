package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
	"github.com/mwangiedu/tutor_marketplace/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *repository.MemoryStore
	service *BookingService

	student      Actor
	otherStudent Actor
	teacher      Actor
	otherTeacher Actor
	admin        Actor

	teacherProfileID uuid.UUID
	pendingProfileID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{store: repository.NewMemoryStore()}

	studentID := uuid.New()
	otherStudentID := uuid.New()
	teacherUserID := uuid.New()
	otherTeacherUserID := uuid.New()
	adminID := uuid.New()

	env.store.AddUser(models.User{ID: studentID, FullName: "Sam Student", Email: "sam@example.com", Role: models.RoleStudent})
	env.store.AddUser(models.User{ID: otherStudentID, FullName: "Olive Other", Email: "olive@example.com", Role: models.RoleStudent})
	env.store.AddUser(models.User{ID: teacherUserID, FullName: "Tess Teacher", Email: "tess@example.com", Role: models.RoleTeacher})
	env.store.AddUser(models.User{ID: otherTeacherUserID, FullName: "Theo Teacher", Email: "theo@example.com", Role: models.RoleTeacher})
	env.store.AddUser(models.User{ID: adminID, FullName: "Ada Admin", Email: "ada@example.com", Role: models.RoleAdmin})

	env.teacherProfileID = uuid.New()
	env.store.AddTeacherProfile(models.TeacherProfile{
		ID:             env.teacherProfileID,
		UserID:         teacherUserID,
		ApprovalStatus: models.ApprovalApproved,
	})
	env.pendingProfileID = uuid.New()
	env.store.AddTeacherProfile(models.TeacherProfile{
		ID:             env.pendingProfileID,
		UserID:         otherTeacherUserID,
		ApprovalStatus: models.ApprovalPending,
	})

	dispatcher := NewDispatcher(env.store.Notifications(), env.store.Users(), AdminNotifyStudent, nil)
	env.service = NewBookingService(env.store.Bookings(), env.store.TeacherProfiles(), dispatcher)

	env.student = Actor{UserID: studentID, Role: models.RoleStudent}
	env.otherStudent = Actor{UserID: otherStudentID, Role: models.RoleStudent}
	env.teacher = Actor{UserID: teacherUserID, Role: models.RoleTeacher}
	env.otherTeacher = Actor{UserID: otherTeacherUserID, Role: models.RoleTeacher}
	env.admin = Actor{UserID: adminID, Role: models.RoleAdmin}

	return env
}

func (env *testEnv) slot(dayOffset int, startHour, endHour float64) (time.Time, time.Time) {
	day := time.Now().UTC().AddDate(0, 0, dayOffset).Truncate(24 * time.Hour)
	start := day.Add(time.Duration(startHour * float64(time.Hour)))
	end := day.Add(time.Duration(endHour * float64(time.Hour)))
	return start, end
}

func (env *testEnv) mustCreate(t *testing.T, actor Actor, startHour, endHour float64) *models.Booking {
	t.Helper()
	start, end := env.slot(2, startHour, endHour)
	booking, err := env.service.Create(actor, CreateBookingInput{
		TeacherProfileID: env.teacherProfileID,
		StartTime:        start,
		EndTime:          end,
	})
	require.Nil(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, env.student.UserID, booking.StudentID)
	assert.Equal(t, env.teacherProfileID, booking.TeacherProfileID)

	notifs := env.store.NotificationsSnapshot()
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationBookingRequest, notifs[0].Type)
	assert.Equal(t, env.teacher.UserID, notifs[0].ReceiverID)
	require.NotNil(t, notifs[0].EntityID)
	assert.Equal(t, booking.ID, *notifs[0].EntityID)
}

func TestCreateBookingRejectsTeacherRole(t *testing.T) {
	env := newTestEnv(t)

	start, end := env.slot(2, 10, 11)
	_, err := env.service.Create(env.otherTeacher, CreateBookingInput{
		TeacherProfileID: env.teacherProfileID,
		StartTime:        start,
		EndTime:          end,
	})
	require.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)
}

func TestCreateBookingRequiresApprovedProfile(t *testing.T) {
	env := newTestEnv(t)

	start, end := env.slot(2, 10, 11)
	_, err := env.service.Create(env.student, CreateBookingInput{
		TeacherProfileID: env.pendingProfileID,
		StartTime:        start,
		EndTime:          end,
	})
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)

	_, err = env.service.Create(env.student, CreateBookingInput{
		TeacherProfileID: uuid.New(),
		StartTime:        start,
		EndTime:          end,
	})
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestCreateBookingValidatesTimeRange(t *testing.T) {
	env := newTestEnv(t)

	start, end := env.slot(2, 11, 10)
	_, err := env.service.Create(env.student, CreateBookingInput{
		TeacherProfileID: env.teacherProfileID,
		StartTime:        start,
		EndTime:          end,
	})
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTimeRange, err.Kind)

	pastStart, pastEnd := env.slot(-2, 10, 11)
	_, err = env.service.Create(env.student, CreateBookingInput{
		TeacherProfileID: env.teacherProfileID,
		StartTime:        pastStart,
		EndTime:          pastEnd,
	})
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTimeRange, err.Kind)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10.5, 11.5)
	_, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)

	// [10:00, 11:00) against confirmed [10:30, 11:30) must be rejected.
	start, end := env.slot(2, 10, 11)
	_, svcErr := env.service.Create(env.otherStudent, CreateBookingInput{
		TeacherProfileID: env.teacherProfileID,
		StartTime:        start,
		EndTime:          end,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindSlotUnavailable, svcErr.Kind)
}

func TestCreateBookingAllowsTouchingBoundary(t *testing.T) {
	env := newTestEnv(t)

	env.mustCreate(t, env.student, 10, 11)
	booking := env.mustCreate(t, env.otherStudent, 11, 12)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
}

func TestCancelledBookingDoesNotBlockSlot(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Cancel(env.student, booking.ID, "can no longer make it")
	require.Nil(t, err)

	replacement := env.mustCreate(t, env.otherStudent, 10, 11)
	assert.Equal(t, models.BookingStatusPending, replacement.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)

	// Student may not confirm their own booking.
	_, err := env.service.Update(env.student, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.NotNil(t, err)
	assert.Equal(t, KindTransitionDenied, err.Kind)

	// A teacher from another profile may not touch it at all.
	_, err = env.service.Update(env.otherTeacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	updated, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)

	notifs := env.store.NotificationsSnapshot()
	require.Len(t, notifs, 2)
	confirm := notifs[1]
	assert.Equal(t, models.NotificationBookingConfirmed, confirm.Type)
	assert.Equal(t, env.student.UserID, confirm.ReceiverID)
}

func TestUpdateAcceptsLegacyScheduledStatus(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	updated, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr("scheduled")})
	require.Nil(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
}

func TestUpdateSameStatusIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)

	before := len(env.store.NotificationsSnapshot())

	updated, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
	assert.Len(t, env.store.NotificationsSnapshot(), before, "no-op transition must not dispatch")
}

func TestTerminalStatusesRejectAllTransitions(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Cancel(env.student, booking.ID, "changed plans")
	require.Nil(t, err)

	for _, actor := range []Actor{env.student, env.teacher, env.admin} {
		_, err := env.service.Update(actor, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
		require.NotNil(t, err)
		assert.Equal(t, KindTransitionDenied, err.Kind)
	}
}

func TestCancelWithoutReasonSubstitutesDefault(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	cancelled, err := env.service.Cancel(env.student, booking.ID, "")
	require.Nil(t, err)

	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, DefaultCancelReason, *cancelled.CancelReason)
	require.NotNil(t, cancelled.CanceledBy)
	assert.Equal(t, env.student.UserID, *cancelled.CanceledBy)
}

func TestCancellationNotifiesCounterpartyWithReason(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Update(env.teacher, booking.ID, BookingPatch{
		Status:       strPtr(models.BookingStatusCancelled),
		CancelReason: strPtr("family emergency"),
	})
	require.Nil(t, err)

	notifs := env.store.NotificationsSnapshot()
	last := notifs[len(notifs)-1]
	assert.Equal(t, models.NotificationBookingCancelled, last.Type)
	assert.Equal(t, env.student.UserID, last.ReceiverID)
	assert.Contains(t, last.Message, "family emergency")
}

func TestAdminInitiatedChangeNotifiesStudentByDefault(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Update(env.admin, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)

	notifs := env.store.NotificationsSnapshot()
	last := notifs[len(notifs)-1]
	assert.Equal(t, env.student.UserID, last.ReceiverID)
}

func TestMeetingLinkRules(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)

	// Not while pending.
	_, err := env.service.Update(env.teacher, booking.ID, BookingPatch{MeetingLink: strPtr("https://meet.example.com/abc")})
	require.NotNil(t, err)
	assert.Equal(t, KindTransitionDenied, err.Kind)

	// Allowed in the same request that confirms.
	updated, err := env.service.Update(env.teacher, booking.ID, BookingPatch{
		Status:      strPtr(models.BookingStatusConfirmed),
		MeetingLink: strPtr("https://meet.example.com/abc"),
	})
	require.Nil(t, err)
	require.NotNil(t, updated.MeetingLink)
	assert.Equal(t, "https://meet.example.com/abc", *updated.MeetingLink)

	// Never by the student.
	_, err = env.service.Update(env.student, booking.ID, BookingPatch{MeetingLink: strPtr("https://meet.example.com/other")})
	require.NotNil(t, err)
	assert.Equal(t, KindTransitionDenied, err.Kind)
}

func TestTeacherNotesRules(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)

	_, err := env.service.Update(env.student, booking.ID, BookingPatch{TeacherNotes: strPtr("good progress")})
	require.NotNil(t, err)
	assert.Equal(t, KindTransitionDenied, err.Kind)

	updated, err := env.service.Update(env.teacher, booking.ID, BookingPatch{TeacherNotes: strPtr("good progress")})
	require.Nil(t, err)
	require.NotNil(t, updated.TeacherNotes)
	assert.Equal(t, "good progress", *updated.TeacherNotes)

	// Notes alone change no status and dispatch nothing.
	notifs := env.store.NotificationsSnapshot()
	assert.Len(t, notifs, 1)
}

func TestGetBookingVisibility(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)

	for _, actor := range []Actor{env.student, env.teacher, env.admin} {
		got, err := env.service.Get(actor, booking.ID)
		require.Nil(t, err)
		assert.Equal(t, booking.ID, got.ID)
	}

	_, err := env.service.Get(env.otherStudent, booking.ID)
	require.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	_, err = env.service.Get(env.admin, uuid.New())
	require.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

// Exactly one notification per successful non-no-op transition, each
// addressed to the counterparty of whoever acted.
func TestNotificationCountAcrossLifecycle(t *testing.T) {
	env := newTestEnv(t)

	booking := env.mustCreate(t, env.student, 10, 11)
	_, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)
	_, err = env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusCompleted)})
	require.Nil(t, err)

	notifs := env.store.NotificationsSnapshot()
	require.Len(t, notifs, 3)
	assert.Equal(t, env.teacher.UserID, notifs[0].ReceiverID)
	assert.Equal(t, env.student.UserID, notifs[1].ReceiverID)
	assert.Equal(t, env.student.UserID, notifs[2].ReceiverID)
}

func TestEndToEndBookingScenario(t *testing.T) {
	env := newTestEnv(t)

	// Student books a future slot with an approved teacher.
	booking := env.mustCreate(t, env.student, 10, 11)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	notifs := env.store.NotificationsSnapshot()
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationBookingRequest, notifs[0].Type)
	assert.Equal(t, env.teacher.UserID, notifs[0].ReceiverID)

	// Teacher confirms; student is notified.
	confirmed, err := env.service.Update(env.teacher, booking.ID, BookingPatch{Status: strPtr(models.BookingStatusConfirmed)})
	require.Nil(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	notifs = env.store.NotificationsSnapshot()
	require.Len(t, notifs, 2)
	assert.Equal(t, models.NotificationBookingConfirmed, notifs[1].Type)
	assert.Equal(t, env.student.UserID, notifs[1].ReceiverID)

	// A second student tries an overlapping slot and is rejected.
	start, end := env.slot(2, 10.5, 11.5)
	_, svcErr := env.service.Create(env.otherStudent, CreateBookingInput{
		TeacherProfileID: env.teacherProfileID,
		StartTime:        start,
		EndTime:          end,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindSlotUnavailable, svcErr.Kind)

	// Student cancels without giving a reason; the default is substituted.
	cancelled, err := env.service.Cancel(env.student, booking.ID, "")
	require.Nil(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, DefaultCancelReason, *cancelled.CancelReason)
}

func strPtr(s string) *string {
	return &s
}
