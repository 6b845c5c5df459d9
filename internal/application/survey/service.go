// Package survey implements the fitting questionnaire use cases.
package survey

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/survey"
	"go.uber.org/zap"
)

// Service handles survey use cases
type Service struct {
	repo      survey.Repository
	customers customer.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new survey Service
func NewService(repo survey.Repository, customers customer.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, customers: customers, logger: logger, now: time.Now}
}

// Create stores a questionnaire and links it to the customer with the same
// phone, creating the customer when none exists.
func (s *Service) Create(ctx context.Context, req CreateSurveyRequest) (*SurveyResponse, error) {
	sv, err := survey.NewSurvey(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	sv.SetAge(req.Age)
	sv.SetAddress(req.Address)
	sv.SelectedModel = req.SelectedModel
	if req.ImportantFactors != nil {
		sv.ImportantFactors = req.ImportantFactors
	}
	sv.AdditionalFeedback = req.AdditionalFeedback
	sv.EventCandidate = req.EventCandidate

	c, err := s.linkCustomer(ctx, sv)
	if err != nil {
		return nil, err
	}
	sv.CustomerID = &c.ID

	if err := s.repo.Save(ctx, sv); err != nil {
		return nil, err
	}
	s.logger.Info("Survey created",
		zap.String("survey_id", sv.ID.String()),
		zap.String("customer_id", c.ID.String()))
	resp := ToSurveyResponse(sv)
	return &resp, nil
}

func (s *Service) linkCustomer(ctx context.Context, sv *survey.Survey) (*customer.Customer, error) {
	c, err := s.customers.FindByPhone(ctx, sv.Phone)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if c, err = customer.NewCustomer(sv.Name, sv.Phone); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	if c.Address == "" && sv.HasGeocodableAddress() {
		if err := c.Update(c.Name, sv.Address, c.Notes); err != nil {
			return nil, err
		}
	}
	c.RecordContact(s.now())
	if err := s.customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns a survey
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*SurveyResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSurveyResponse(sv)
	return &resp, nil
}

// List returns a page of surveys
func (s *Service) List(ctx context.Context, f ListSurveysFilter) (shared.Paginated[SurveyResponse], error) {
	filter := survey.ListFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		CustomerID:    f.CustomerID,
		SelectedModel: f.SelectedModel,
		GiftDelivered: f.GiftDelivered,
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SurveyResponse]{}, err
	}
	out := make([]SurveyResponse, len(items))
	for i := range items {
		out[i] = ToSurveyResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSurveyRequest) (*SurveyResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		updated, err := survey.NewSurvey(*req.Name, sv.Phone)
		if err != nil {
			return nil, err
		}
		sv.Name = updated.Name
	}
	if req.Age != nil {
		sv.SetAge(req.Age)
	}
	if req.SelectedModel != nil {
		sv.SelectedModel = *req.SelectedModel
	}
	if req.ImportantFactors != nil {
		sv.ImportantFactors = req.ImportantFactors
	}
	if req.AdditionalFeedback != nil {
		sv.AdditionalFeedback = *req.AdditionalFeedback
	}
	if req.Address != nil {
		sv.SetAddress(*req.Address)
	}
	if req.EventCandidate != nil {
		sv.EventCandidate = *req.EventCandidate
	}
	if req.EventWinner != nil {
		sv.EventWinner = *req.EventWinner
	}
	if req.GiftDelivered != nil {
		sv.GiftDelivered = *req.GiftDelivered
	}
	if req.GiftText != nil {
		sv.GiftText = *req.GiftText
	}
	if req.GiftProductID != nil {
		sv.GiftProductID = req.GiftProductID
	}
	sv.Touch()

	if err := s.repo.Save(ctx, sv); err != nil {
		return nil, err
	}
	s.logger.Info("Survey updated", zap.String("survey_id", sv.ID.String()))
	resp := ToSurveyResponse(sv)
	return &resp, nil
}

// Delete removes a survey
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Survey deleted", zap.String("survey_id", id.String()))
	return nil
}
