package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/booking"
	"gorm.io/gorm"
)

// GormBookingRepository implements booking.Repository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// FindAll lists bookings within an optional date range
func (r *GormBookingRepository) FindAll(ctx context.Context, filter booking.ListFilter) ([]booking.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&booking.Booking{})
	q = search(q, filter.Search, "name", "phone", "service")
	if filter.DateFrom != "" {
		q = q.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("date <= ?", filter.DateTo)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Phone != "" {
		q = q.Where("phone = ?", filter.Phone)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []booking.Booking
	order := orderClause(filter.OrderBy, filter.OrderDir, BookingSortFields, "date")
	if err := paginate(q, filter.Filter, order+", time ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindActiveOnDate returns pending and confirmed bookings on date
func (r *GormBookingRepository) FindActiveOnDate(ctx context.Context, date string) ([]booking.Booking, error) {
	var items []booking.Booking
	err := r.db.WithContext(ctx).
		Where("date = ? AND status IN ?", date, []booking.Status{booking.StatusPending, booking.StatusConfirmed}).
		Order("time ASC").
		Find(&items).Error
	return items, err
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Delete removes a booking
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[booking.Booking](ctx, r.db, id)
}

// GormScheduleRepository implements booking.ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// GetSettings returns the settings row, or the defaults when none exists
func (r *GormScheduleRepository) GetSettings(ctx context.Context) (*booking.Settings, error) {
	var s booking.Settings
	err := r.db.WithContext(ctx).First(&s, "id = ?", booking.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := booking.DefaultSettings()
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings upserts the single settings row
func (r *GormScheduleRepository) SaveSettings(ctx context.Context, s *booking.Settings) error {
	s.ID = booking.SettingsID
	return r.db.WithContext(ctx).Save(s).Error
}

// FindHours returns the operating slots of a weekday ordered by start time
func (r *GormScheduleRepository) FindHours(ctx context.Context, dayOfWeek int) ([]booking.Hours, error) {
	var hours []booking.Hours
	err := r.db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		Order("start_time ASC").
		Find(&hours).Error
	return hours, err
}

// ReplaceHours swaps all slots of a weekday in one transaction
func (r *GormScheduleRepository) ReplaceHours(ctx context.Context, dayOfWeek int, hours []booking.Hours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("day_of_week = ?", dayOfWeek).Delete(&booking.Hours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		for i := range hours {
			hours[i].DayOfWeek = dayOfWeek
			if hours[i].ID == uuid.Nil {
				hours[i].ID = uuid.New()
			}
		}
		return tx.Create(&hours).Error
	})
}

// FindBlocksOnDate returns the blocks of date
func (r *GormScheduleRepository) FindBlocksOnDate(ctx context.Context, date string) ([]booking.Block, error) {
	var blocks []booking.Block
	err := r.db.WithContext(ctx).Where("date = ?", date).Order("time ASC").Find(&blocks).Error
	return blocks, err
}

// SaveBlock creates or updates a block
func (r *GormScheduleRepository) SaveBlock(ctx context.Context, b *booking.Block) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// DeleteBlock removes a block
func (r *GormScheduleRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return deleteByID[booking.Block](ctx, r.db, id)
}

var (
	_ booking.Repository         = (*GormBookingRepository)(nil)
	_ booking.ScheduleRepository = (*GormScheduleRepository)(nil)
)
