package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByPhone finds a customer by normalized phone
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByPhones finds all customers owning one of phones
func (r *GormCustomerRepository) FindByPhones(ctx context.Context, phones []string) ([]customer.Customer, error) {
	var out []customer.Customer
	if len(phones) == 0 {
		return out, nil
	}
	for _, chunk := range chunkStrings(phones, inClauseLimit) {
		var batch []customer.Customer
		if err := r.db.WithContext(ctx).Where("phone IN ?", chunk).Find(&batch).Error; err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// FindAll lists customers with search (name, phone, address) and paging
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter customer.ListFilter) ([]customer.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&customer.Customer{})
	q = search(q, filter.Search, "name", "phone", "address")
	if filter.Purchased != nil {
		q = q.Where("is_purchaser = ?", *filter.Purchased)
	}
	if filter.OptOut != nil {
		q = q.Where("opt_out = ?", *filter.OptOut)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []customer.Customer
	order := orderClause(filter.OrderBy, filter.OrderDir, CustomerSortFields, "created_at")
	if err := paginate(q, filter.Filter, order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// OptedOutPhones returns the subset of phones whose customer opted out
func (r *GormCustomerRepository) OptedOutPhones(ctx context.Context, phones []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, chunk := range chunkStrings(phones, inClauseLimit) {
		var rows []string
		if err := r.db.WithContext(ctx).Model(&customer.Customer{}).
			Where("phone IN ? AND opt_out = ?", chunk, true).
			Pluck("phone", &rows).Error; err != nil {
			return nil, err
		}
		for _, p := range rows {
			out[p] = true
		}
	}
	return out, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[customer.Customer](ctx, r.db, id)
}

// ExistsByPhone reports whether a customer owns phone
func (r *GormCustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&customer.Customer{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ customer.Repository = (*GormCustomerRepository)(nil)
