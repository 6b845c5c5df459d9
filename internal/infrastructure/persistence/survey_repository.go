package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/survey"
	"gorm.io/gorm"
)

// GormSurveyRepository implements survey.Repository using GORM
type GormSurveyRepository struct {
	db *gorm.DB
}

// NewGormSurveyRepository creates a new GormSurveyRepository
func NewGormSurveyRepository(db *gorm.DB) *GormSurveyRepository {
	return &GormSurveyRepository{db: db}
}

// FindByID finds a survey by its ID
func (r *GormSurveyRepository) FindByID(ctx context.Context, id uuid.UUID) (*survey.Survey, error) {
	var s survey.Survey
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// FindAll lists surveys, newest first by default
func (r *GormSurveyRepository) FindAll(ctx context.Context, filter survey.ListFilter) ([]survey.Survey, int64, error) {
	q := r.db.WithContext(ctx).Model(&survey.Survey{})
	q = search(q, filter.Search, "name", "phone", "selected_model", "address")
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SelectedModel != "" {
		q = q.Where("selected_model = ?", filter.SelectedModel)
	}
	if filter.GiftDelivered != nil {
		q = q.Where("gift_delivered = ?", *filter.GiftDelivered)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []survey.Survey
	order := orderClause(filter.OrderBy, filter.OrderDir, SurveySortFields, "created_at")
	if err := paginate(q, filter.Filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindLatestByPhone returns the most recent survey of a normalized phone
func (r *GormSurveyRepository) FindLatestByPhone(ctx context.Context, phone string) (*survey.Survey, error) {
	var s survey.Survey
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).Order("created_at DESC").First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// FindLatestByName returns the most recent survey whose trimmed name equals name
func (r *GormSurveyRepository) FindLatestByName(ctx context.Context, name string) (*survey.Survey, error) {
	var s survey.Survey
	if err := r.db.WithContext(ctx).Where("TRIM(name) = ?", name).Order("created_at DESC").First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Save creates or updates a survey
func (r *GormSurveyRepository) Save(ctx context.Context, s *survey.Survey) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// SetGiftDelivered sets or clears gift_delivered on a survey
func (r *GormSurveyRepository) SetGiftDelivered(ctx context.Context, id uuid.UUID, delivered bool) error {
	res := r.db.WithContext(ctx).Model(&survey.Survey{}).Where("id = ?", id).Update("gift_delivered", delivered)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a survey
func (r *GormSurveyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[survey.Survey](ctx, r.db, id)
}

var _ survey.Repository = (*GormSurveyRepository)(nil)
