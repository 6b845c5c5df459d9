// Package gift implements customer gift records and their stock effects.
package gift

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/catalog"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/gift"
	"github.com/masgolf/backend/internal/domain/inventory"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
	"github.com/masgolf/backend/internal/domain/survey"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// UnitOfWork runs fn in one database transaction with gift and inventory
// repositories bound to it. An error from fn rolls the transaction back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(gifts gift.Repository, txs inventory.Repository) error) error
}

// Service handles customer gift use cases
type Service struct {
	gifts     gift.Repository
	customers customer.Repository
	surveys   survey.Repository
	products  catalog.Repository
	uow       UnitOfWork
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new gift Service
func NewService(
	gifts gift.Repository,
	customers customer.Repository,
	surveys survey.Repository,
	products catalog.Repository,
	uow UnitOfWork,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gifts:     gifts,
		customers: customers,
		surveys:   surveys,
		products:  products,
		uow:       uow,
		logger:    logger,
		now:       time.Now,
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, shared.InvalidInput("delivery_date must be YYYY-MM-DD")
	}
	return &d, nil
}

// Create records a gift. Without a survey_id the customer's latest survey is
// linked, matched by phone first and then by exact name; a linked gift that
// is already sent marks that survey delivered. A product gift records an
// outbound transaction dated on the delivery date.
func (s *Service) Create(ctx context.Context, req CreateGiftRequest) (*GiftResponse, error) {
	c, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	g, err := gift.NewCustomerGift(c.ID)
	if err != nil {
		return nil, err
	}

	if req.ProductID != nil {
		if _, err := s.products.FindByID(ctx, *req.ProductID); err != nil {
			return nil, err
		}
		g.ProductID = req.ProductID
	}
	if g.DeliveryDate, err = parseDate(req.DeliveryDate); err != nil {
		return nil, err
	}
	g.GiftText = req.GiftText
	g.Note = req.Note
	if req.Quantity > 0 {
		g.Quantity = req.Quantity
	}
	if req.DeliveryType != "" {
		g.DeliveryType = gift.DeliveryType(req.DeliveryType)
	}
	if req.DeliveryStatus != "" {
		g.DeliveryStatus = gift.DeliveryStatus(req.DeliveryStatus)
	}
	if req.GiftType != "" {
		g.GiftType = gift.Type(req.GiftType)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	autoLinked := false
	if req.SurveyID != nil {
		g.SurveyID = req.SurveyID
	} else if sv := s.findSurvey(ctx, c); sv != nil {
		g.SurveyID = &sv.ID
		autoLinked = true
	}

	err = s.uow.Do(ctx, func(gifts gift.Repository, txs inventory.Repository) error {
		if err := gifts.Save(ctx, g); err != nil {
			return err
		}
		return s.recordOutbound(ctx, txs, g)
	})
	if err != nil {
		return nil, err
	}
	if autoLinked && g.DeliveryStatus == gift.StatusSent {
		s.markSurvey(ctx, *g.SurveyID, true)
	}

	s.logger.Info("Customer gift created",
		zap.String("gift_id", g.ID.String()),
		zap.String("customer_id", c.ID.String()),
		zap.Bool("auto_linked_survey", autoLinked))
	resp := ToGiftResponse(g)
	resp.AutoLinkedSurvey = autoLinked
	return &resp, nil
}

// findSurvey matches the customer's latest survey by phone, then by exact
// trimmed NFC name. Lookup failures only skip the link.
func (s *Service) findSurvey(ctx context.Context, c *customer.Customer) *survey.Survey {
	if phone, ok := valueobject.NormalizePhone(c.Phone); ok {
		sv, err := s.surveys.FindLatestByPhone(ctx, phone)
		if err == nil {
			return sv
		}
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Survey lookup by phone failed", zap.Error(err))
		}
	}
	if name := valueobject.NormalizeName(c.Name); name != "" {
		sv, err := s.surveys.FindLatestByName(ctx, name)
		if err == nil {
			return sv
		}
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Survey lookup by name failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Service) markSurvey(ctx context.Context, surveyID uuid.UUID, delivered bool) {
	if err := s.surveys.SetGiftDelivered(ctx, surveyID, delivered); err != nil {
		s.logger.Warn("Failed to update survey gift_delivered",
			zap.String("survey_id", surveyID.String()),
			zap.Error(err))
	}
}

func (s *Service) recordOutbound(ctx context.Context, txs inventory.Repository, g *gift.CustomerGift) error {
	if g.ProductID == nil || g.DeliveryStatus == gift.StatusCanceled {
		return nil
	}
	txDate := s.now()
	if g.DeliveryDate != nil {
		txDate = *g.DeliveryDate
	}
	tx, err := inventory.NewTransaction(*g.ProductID, inventory.TransactionTypeOutbound, g.Quantity, txDate)
	if err != nil {
		return err
	}
	tx.RelatedGiftID = &g.ID
	tx.Note = "customer gift"
	return txs.Save(ctx, tx)
}

// GetByID returns a gift
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*GiftResponse, error) {
	g, err := s.gifts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGiftResponse(g)
	return &resp, nil
}

// List returns the gifts of a customer or of a survey
func (s *Service) List(ctx context.Context, f ListGiftsFilter) ([]GiftResponse, error) {
	if f.CustomerID == nil && f.SurveyID == nil {
		return nil, shared.InvalidInput("customer_id or survey_id is required")
	}
	items, err := s.gifts.FindAll(ctx, gift.ListFilter{CustomerID: f.CustomerID, SurveyID: f.SurveyID})
	if err != nil {
		return nil, err
	}
	out := make([]GiftResponse, len(items))
	for i := range items {
		out[i] = ToGiftResponse(&items[i])
	}
	return out, nil
}

// Update applies a partial update. Moving the delivery date moves the gift's
// outbound transactions; changing product, quantity or status rewrites them.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateGiftRequest) (*GiftResponse, error) {
	g, err := s.gifts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := gift.Patch{
		ProductID:    req.ProductID,
		ClearProduct: req.ClearProduct,
		GiftText:     req.GiftText,
		Quantity:     req.Quantity,
		Note:         req.Note,
	}
	if req.DeliveryType != nil {
		t := gift.DeliveryType(*req.DeliveryType)
		patch.DeliveryType = &t
	}
	if req.DeliveryStatus != nil {
		st := gift.DeliveryStatus(*req.DeliveryStatus)
		patch.DeliveryStatus = &st
	}
	if req.GiftType != nil {
		t := gift.Type(*req.GiftType)
		patch.GiftType = &t
	}
	if req.DeliveryDate != nil {
		if *req.DeliveryDate == "" {
			patch.ClearDeliveryDate = true
		} else if patch.DeliveryDate, err = parseDate(*req.DeliveryDate); err != nil {
			return nil, err
		}
	}
	if patch.IsEmpty() && req.SurveyID == nil {
		return nil, shared.InvalidInput("nothing to update")
	}
	if patch.ProductID != nil && !patch.ClearProduct {
		if _, err := s.products.FindByID(ctx, *patch.ProductID); err != nil {
			return nil, err
		}
	}

	before := *g
	if !patch.IsEmpty() {
		if err := g.Apply(patch); err != nil {
			return nil, err
		}
	}

	autoLinked := false
	switch {
	case req.SurveyID != nil:
		g.SurveyID = req.SurveyID
	case g.SurveyID == nil:
		c, err := s.customers.FindByID(ctx, g.CustomerID)
		if err != nil {
			return nil, err
		}
		if sv := s.findSurvey(ctx, c); sv != nil {
			g.SurveyID = &sv.ID
			autoLinked = true
		}
	}

	err = s.uow.Do(ctx, func(gifts gift.Repository, txs inventory.Repository) error {
		if err := gifts.Save(ctx, g); err != nil {
			return err
		}
		return s.syncTransactions(ctx, txs, &before, g, patch)
	})
	if err != nil {
		return nil, err
	}
	if g.SurveyID != nil && patch.DeliveryStatus != nil {
		if delivered := gift.SurveyDelivered(g.DeliveryStatus); delivered != nil {
			s.markSurvey(ctx, *g.SurveyID, *delivered)
		}
	}

	s.logger.Info("Customer gift updated", zap.String("gift_id", g.ID.String()))
	resp := ToGiftResponse(g)
	resp.AutoLinkedSurvey = autoLinked
	return &resp, nil
}

func (s *Service) syncTransactions(ctx context.Context, txs inventory.Repository, before, after *gift.CustomerGift, patch gift.Patch) error {
	rewrite := !sameProduct(before.ProductID, after.ProductID) ||
		before.Quantity != after.Quantity ||
		before.DeliveryStatus != after.DeliveryStatus
	if rewrite {
		if err := txs.DeleteByGiftID(ctx, after.ID); err != nil {
			return err
		}
		return s.recordOutbound(ctx, txs, after)
	}
	if patch.TouchesDeliveryDate() && after.ProductID != nil {
		txDate := s.now()
		if after.DeliveryDate != nil {
			txDate = *after.DeliveryDate
		}
		return txs.MoveGiftTransactions(ctx, after.ID, txDate)
	}
	return nil
}

func sameProduct(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Delete removes a gift and its inventory transactions
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.gifts.FindByID(ctx, id); err != nil {
		return err
	}
	err := s.uow.Do(ctx, func(gifts gift.Repository, txs inventory.Repository) error {
		if err := txs.DeleteByGiftID(ctx, id); err != nil {
			return err
		}
		return gifts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Customer gift deleted", zap.String("gift_id", id.String()))
	return nil
}
