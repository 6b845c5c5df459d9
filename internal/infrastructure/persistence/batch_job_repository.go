package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/batch"
	"github.com/masgolf/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchJobRepository implements batch.Repository using GORM
type GormBatchJobRepository struct {
	db *gorm.DB
}

// NewGormBatchJobRepository creates a new GormBatchJobRepository
func NewGormBatchJobRepository(db *gorm.DB) *GormBatchJobRepository {
	return &GormBatchJobRepository{db: db}
}

// FindByID finds a job by its ID
func (r *GormBatchJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.Job, error) {
	var j batch.Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// FindAll lists jobs, newest first
func (r *GormBatchJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&batch.Job{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []batch.Job
	order := orderClause(filter.OrderBy, filter.OrderDir, CommonSortFields, "created_at")
	if err := paginate(q, filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByStatus returns jobs in status, oldest first
func (r *GormBatchJobRepository) FindByStatus(ctx context.Context, status batch.Status) ([]batch.Job, error) {
	var items []batch.Job
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at ASC").Find(&items).Error
	return items, err
}

// Save creates or updates a job
func (r *GormBatchJobRepository) Save(ctx context.Context, j *batch.Job) error {
	return r.db.WithContext(ctx).Save(j).Error
}

var _ batch.Repository = (*GormBatchJobRepository)(nil)
