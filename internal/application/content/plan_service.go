package content

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/content"
	"github.com/masgolf/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PlanService handles monthly funnel plan use cases
type PlanService struct {
	repo   content.PlanRepository
	logger *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(repo content.PlanRepository, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, logger: logger}
}

// Create stores a plan; (year, month, funnel_name) must be unique
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*PlanResponse, error) {
	p, err := content.NewMonthlyFunnelPlan(req.Year, req.Month, req.FunnelName)
	if err != nil {
		return nil, err
	}
	p.Theme = req.Theme
	p.Goals = req.Goals
	if req.Status != "" {
		p.Status = content.PlanStatus(req.Status)
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	if err := s.ensureUnique(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Funnel plan created",
		zap.String("plan_id", p.ID.String()),
		zap.Int("year", p.Year),
		zap.Int("month", p.Month))
	resp := ToPlanResponse(p)
	return &resp, nil
}

func (s *PlanService) ensureUnique(ctx context.Context, p *content.MonthlyFunnelPlan) error {
	existing, err := s.repo.FindByMonth(ctx, p.Year, p.Month)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != p.ID && strings.EqualFold(e.FunnelName, p.FunnelName) {
			return shared.NewDomainError("ALREADY_EXISTS", "a plan for this funnel already exists in that month")
		}
	}
	return nil
}

// GetByID returns a plan
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(p)
	return &resp, nil
}

// List returns the plans of one month, or every plan
func (s *PlanService) List(ctx context.Context, f ListPlansFilter) ([]PlanResponse, error) {
	var (
		items []content.MonthlyFunnelPlan
		err   error
	)
	if f.Year != 0 && f.Month != 0 {
		items, err = s.repo.FindByMonth(ctx, f.Year, f.Month)
	} else {
		items, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]PlanResponse, len(items))
	for i := range items {
		out[i] = ToPlanResponse(&items[i])
	}
	return out, nil
}

// Update applies a partial update
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	renamed := false
	if req.FunnelName != nil {
		name := strings.TrimSpace(*req.FunnelName)
		renamed = name != p.FunnelName
		p.FunnelName = name
	}
	if req.Theme != nil {
		p.Theme = *req.Theme
	}
	if req.Goals != nil {
		p.Goals = *req.Goals
	}
	if req.Status != nil {
		p.Status = content.PlanStatus(*req.Status)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if renamed {
		if err := s.ensureUnique(ctx, p); err != nil {
			return nil, err
		}
	}
	p.Touch()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(p)
	return &resp, nil
}

// Delete removes a plan
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
