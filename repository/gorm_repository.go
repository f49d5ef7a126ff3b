package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore backs the repository interfaces with Postgres. The per-entity
// repositories are views over the same *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Bookings() BookingRepository               { return (*gormBookings)(s) }
func (s *GormStore) TeacherProfiles() TeacherProfileRepository { return (*gormProfiles)(s) }
func (s *GormStore) Users() UserRepository                     { return (*gormUsers)(s) }
func (s *GormStore) Notifications() NotificationRepository     { return (*gormNotifications)(s) }

type gormBookings GormStore

func (r *gormBookings) FindByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		Preload("Student").
		Preload("TeacherProfile.User").
		First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *gormBookings) HasOverlap(teacherProfileID uuid.UUID, start, end time.Time) (bool, error) {
	n, err := countOverlapping(r.db, teacherProfileID, start, end)
	return n > 0, err
}

func countOverlapping(tx *gorm.DB, teacherProfileID uuid.UUID, start, end time.Time) (int64, error) {
	var n int64
	err := tx.Model(&models.Booking{}).
		Where("teacher_profile_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			teacherProfileID, models.ActiveBookingStatuses, end, start).
		Count(&n).Error
	return n, err
}

// CreateIfFree serializes competing inserts for one teacher by locking the
// teacher profile row, then re-runs the overlap count inside the same
// transaction. The unlocked HasOverlap call the service makes first is only
// an early rejection; this is the authoritative guard.
func (r *gormBookings) CreateIfFree(b *models.Booking) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var profile models.TeacherProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&profile, "id = ?", b.TeacherProfileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		n, err := countOverlapping(tx, b.TeacherProfileID, b.StartTime, b.EndTime)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrSlotTaken
		}

		return tx.Create(b).Error
	})
}

func (r *gormBookings) UpdateFields(id uuid.UUID, expectedStatus string, fields map[string]interface{}) (*models.Booking, error) {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or another request changed the status
		// between our read and this write.
		if _, err := r.FindByID(id); errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrStaleUpdate
	}
	return r.FindByID(id)
}

func (r *gormBookings) List(f BookingFilter) ([]models.Booking, int64, error) {
	query := r.db.Model(&models.Booking{})
	if f.StudentID != uuid.Nil {
		query = query.Where("student_id = ?", f.StudentID)
	}
	if f.TeacherProfileID != uuid.Nil {
		query = query.Where("teacher_profile_id = ?", f.TeacherProfileID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if !f.FromDate.IsZero() {
		query = query.Where("start_time >= ?", f.FromDate)
	}
	if !f.ToDate.IsZero() {
		query = query.Where("start_time <= ?", f.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	var bookings []models.Booking
	err := query.
		Order("start_time desc").
		Offset(offset).Limit(f.Limit).
		Preload("Student").
		Preload("TeacherProfile.User").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

type gormProfiles GormStore

func (r *gormProfiles) FindByID(id uuid.UUID) (*models.TeacherProfile, error) {
	var profile models.TeacherProfile
	err := r.db.Preload("User").First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormProfiles) FindByUserID(userID uuid.UUID) (*models.TeacherProfile, error) {
	var profile models.TeacherProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type gormUsers GormStore

func (r *gormUsers) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type gormNotifications GormStore

func (r *gormNotifications) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}
