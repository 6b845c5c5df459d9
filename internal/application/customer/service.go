// Package customer implements the CRM customer use cases.
package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// pageScan is the page size used when walking every customer
const pageScan = 1000

// Service handles customer use cases
type Service struct {
	repo   customer.Repository
	logger *zap.Logger
}

// NewService creates a new customer Service
func NewService(repo customer.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Create registers a customer. The phone is normalized and must be unique.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	c, err := customer.NewCustomer(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByPhone(ctx, c.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this phone already exists")
	}

	if err := c.Update(c.Name, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := c.SetLocation(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if req.OptOut {
		c.SetOptOut(true)
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Customer created", zap.String("customer_id", c.ID.String()))
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID returns a customer
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, address, notes := c.Name, c.Address, c.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := c.Update(name, address, notes); err != nil {
		return nil, err
	}

	if req.Phone != nil {
		previous := c.Phone
		if err := c.ChangePhone(*req.Phone); err != nil {
			return nil, err
		}
		if c.Phone != previous {
			exists, err := s.repo.ExistsByPhone(ctx, c.Phone)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this phone already exists")
			}
		}
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := c.SetLocation(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if req.OptOut != nil {
		c.SetOptOut(*req.OptOut)
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Delete removes a customer
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// List returns a page of customers
func (s *Service) List(ctx context.Context, f ListCustomersFilter) (shared.Paginated[CustomerResponse], error) {
	filter := customer.ListFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		Purchased: f.Purchased,
		OptOut:    f.OptOut,
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	out := make([]CustomerResponse, len(items))
	for i := range items {
		out[i] = ToCustomerResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// SetOptOut records whether the customer refuses marketing messages
func (s *Service) SetOptOut(ctx context.Context, id uuid.UUID, optOut bool) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.SetOptOut(optOut)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Customer opt-out changed",
		zap.String("customer_id", id.String()),
		zap.Bool("opt_out", optOut))
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// All walks every customer page by page
func (s *Service) All(ctx context.Context) ([]customer.Customer, error) {
	var all []customer.Customer
	for page := 1; ; page++ {
		items, total, err := s.repo.FindAll(ctx, customer.ListFilter{
			Filter: shared.Filter{Page: page, PageSize: pageScan, OrderBy: "created_at", OrderDir: "asc"},
		})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pageScan || int64(len(all)) >= total {
			return all, nil
		}
	}
}

// Segments counts reachable customers per purchase/distance segment
func (s *Service) Segments(ctx context.Context) (*SegmentsResponse, error) {
	seg, err := s.Segmentation(ctx)
	if err != nil {
		return nil, err
	}
	return &SegmentsResponse{Total: seg.Total, OptOut: seg.OptOut, Buckets: seg.Buckets}, nil
}

// Segmentation returns the full segmentation including phones per bucket
func (s *Service) Segmentation(ctx context.Context) (customer.Segmentation, error) {
	all, err := s.All(ctx)
	if err != nil {
		return customer.Segmentation{}, err
	}
	return customer.Segmentize(all), nil
}

// NormalizePhones rewrites stored phones into the 010XXXXXXXX form. Numbers that
// cannot be normalized, or whose normalized form belongs to another customer,
// are reported and left untouched. With dryRun nothing is saved.
func (s *Service) NormalizePhones(ctx context.Context, dryRun bool) (*NormalizeReport, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(all))
	for i := range all {
		taken[all[i].Phone] = true
	}

	report := &NormalizeReport{Scanned: len(all), Invalid: []string{}, Conflicts: []string{}, DryRun: dryRun}
	for i := range all {
		c := &all[i]
		normalized, ok := valueobject.NormalizePhone(c.Phone)
		switch {
		case !ok:
			report.Invalid = append(report.Invalid, c.Phone)
			continue
		case normalized == c.Phone:
			continue
		case taken[normalized]:
			report.Conflicts = append(report.Conflicts, c.Phone)
			continue
		}

		old := c.Phone
		if err := c.ChangePhone(normalized); err != nil {
			report.Invalid = append(report.Invalid, old)
			continue
		}
		if !dryRun {
			if err := s.repo.Save(ctx, c); err != nil {
				return report, err
			}
		}
		delete(taken, old)
		taken[normalized] = true
		report.Updated++
	}
	s.logger.Info("Customer phones normalized",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("invalid", len(report.Invalid)),
		zap.Int("conflicts", len(report.Conflicts)),
		zap.Bool("dry_run", dryRun))
	return report, nil
}
