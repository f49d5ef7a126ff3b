package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
)

// MemoryStore is an in-memory implementation of the repository interfaces,
// used by tests and local development. Picked at composition time, same as
// the Postgres store; business logic never knows which one it talks to.
type MemoryStore struct {
	mu            sync.Mutex
	bookings      map[uuid.UUID]*models.Booking
	profiles      map[uuid.UUID]*models.TeacherProfile
	users         map[uuid.UUID]*models.User
	notifications []*models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings: make(map[uuid.UUID]*models.Booking),
		profiles: make(map[uuid.UUID]*models.TeacherProfile),
		users:    make(map[uuid.UUID]*models.User),
	}
}

func (s *MemoryStore) Bookings() BookingRepository               { return (*memoryBookings)(s) }
func (s *MemoryStore) TeacherProfiles() TeacherProfileRepository { return (*memoryProfiles)(s) }
func (s *MemoryStore) Users() UserRepository                     { return (*memoryUsers)(s) }
func (s *MemoryStore) Notifications() NotificationRepository     { return (*memoryNotifications)(s) }

// Seed helpers for tests and local fixtures.

func (s *MemoryStore) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = &u
}

func (s *MemoryStore) AddTeacherProfile(p models.TeacherProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.profiles[p.ID] = &p
}

// NotificationsSnapshot returns a copy of every notification created so far,
// oldest first.
func (s *MemoryStore) NotificationsSnapshot() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	return out
}

type memoryBookings MemoryStore

func (r *memoryBookings) FindByID(id uuid.UUID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.withAssociations(b), nil
}

// withAssociations mirrors the Preloads the Postgres store does. Callers
// always get a detached copy.
func (r *memoryBookings) withAssociations(b *models.Booking) *models.Booking {
	out := *b
	if u, ok := r.users[b.StudentID]; ok {
		out.Student = *u
	}
	if p, ok := r.profiles[b.TeacherProfileID]; ok {
		out.TeacherProfile = *p
		if u, ok := r.users[p.UserID]; ok {
			out.TeacherProfile.User = *u
		}
	}
	return &out
}

func (r *memoryBookings) HasOverlap(teacherProfileID uuid.UUID, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapLocked(teacherProfileID, start, end), nil
}

func (r *memoryBookings) overlapLocked(teacherProfileID uuid.UUID, start, end time.Time) bool {
	for _, b := range r.bookings {
		if b.TeacherProfileID != teacherProfileID {
			continue
		}
		if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			return true
		}
	}
	return false
}

func (r *memoryBookings) CreateIfFree(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[b.TeacherProfileID]; !ok {
		return ErrNotFound
	}
	if r.overlapLocked(b.TeacherProfileID, b.StartTime, b.EndTime) {
		return ErrSlotTaken
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	stored := *b
	r.bookings[stored.ID] = &stored
	return nil
}

func (r *memoryBookings) UpdateFields(id uuid.UUID, expectedStatus string, fields map[string]interface{}) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status != expectedStatus {
		return nil, ErrStaleUpdate
	}
	for key, value := range fields {
		switch key {
		case "status":
			b.Status = value.(string)
		case "teacher_notes":
			v := value.(string)
			b.TeacherNotes = &v
		case "meeting_link":
			v := value.(string)
			b.MeetingLink = &v
		case "cancel_reason":
			v := value.(string)
			b.CancelReason = &v
		case "canceled_by":
			v := value.(uuid.UUID)
			b.CanceledBy = &v
		}
	}
	b.UpdatedAt = time.Now()
	return r.withAssociations(b), nil
}

func (r *memoryBookings) List(f BookingFilter) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Booking
	for _, b := range r.bookings {
		if f.StudentID != uuid.Nil && b.StudentID != f.StudentID {
			continue
		}
		if f.TeacherProfileID != uuid.Nil && b.TeacherProfileID != f.TeacherProfileID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if !f.FromDate.IsZero() && b.StartTime.Before(f.FromDate) {
			continue
		}
		if !f.ToDate.IsZero() && b.StartTime.After(f.ToDate) {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.After(matched[j].StartTime)
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]models.Booking, 0, end-start)
	for _, b := range matched[start:end] {
		out = append(out, *r.withAssociations(b))
	}
	return out, total, nil
}

type memoryProfiles MemoryStore

func (r *memoryProfiles) FindByID(id uuid.UUID) (*models.TeacherProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	if u, ok := r.users[p.UserID]; ok {
		out.User = *u
	}
	return &out, nil
}

func (r *memoryProfiles) FindByUserID(userID uuid.UUID) (*models.TeacherProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			out := *p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

type memoryUsers MemoryStore

func (r *memoryUsers) FindByID(id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

type memoryNotifications MemoryStore

func (r *memoryNotifications) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}
