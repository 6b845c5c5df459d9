package gift

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/gift"
)

// CreateGiftRequest represents a request to record a customer gift
type CreateGiftRequest struct {
	CustomerID     uuid.UUID  `json:"customer_id" binding:"required"`
	SurveyID       *uuid.UUID `json:"survey_id"`
	ProductID      *uuid.UUID `json:"product_id"`
	GiftText       string     `json:"gift_text" binding:"max=200"`
	Quantity       int        `json:"quantity" binding:"omitempty,min=1"`
	DeliveryType   string     `json:"delivery_type" binding:"omitempty,oneof=in_person courier"`
	DeliveryStatus string     `json:"delivery_status" binding:"omitempty,oneof=pending sent canceled"`
	DeliveryDate   string     `json:"delivery_date" binding:"omitempty,datetime=2006-01-02"`
	Note           string     `json:"note" binding:"max=2000"`
	GiftType       string     `json:"gift_type" binding:"omitempty,oneof=normal prize"`
}

// UpdateGiftRequest represents a partial gift update. An empty delivery_date
// clears it; clear_product removes the product.
type UpdateGiftRequest struct {
	SurveyID       *uuid.UUID `json:"survey_id"`
	ProductID      *uuid.UUID `json:"product_id"`
	ClearProduct   bool       `json:"clear_product"`
	GiftText       *string    `json:"gift_text" binding:"omitempty,max=200"`
	Quantity       *int       `json:"quantity" binding:"omitempty,min=1"`
	DeliveryType   *string    `json:"delivery_type" binding:"omitempty,oneof=in_person courier"`
	DeliveryStatus *string    `json:"delivery_status" binding:"omitempty,oneof=pending sent canceled"`
	DeliveryDate   *string    `json:"delivery_date"`
	Note           *string    `json:"note" binding:"omitempty,max=2000"`
	GiftType       *string    `json:"gift_type" binding:"omitempty,oneof=normal prize"`
}

// ListGiftsFilter selects the gifts of a customer or a survey
type ListGiftsFilter struct {
	CustomerID *uuid.UUID `form:"-"`
	SurveyID   *uuid.UUID `form:"-"`
}

// GiftResponse represents a gift in API responses
type GiftResponse struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	SurveyID         *uuid.UUID `json:"survey_id,omitempty"`
	ProductID        *uuid.UUID `json:"product_id,omitempty"`
	GiftText         string     `json:"gift_text,omitempty"`
	Quantity         int        `json:"quantity"`
	DeliveryType     string     `json:"delivery_type"`
	DeliveryStatus   string     `json:"delivery_status"`
	DeliveryDate     string     `json:"delivery_date,omitempty"`
	Note             string     `json:"note,omitempty"`
	GiftType         string     `json:"gift_type"`
	AutoLinkedSurvey bool       `json:"auto_linked_survey"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToGiftResponse converts a domain gift to a response
func ToGiftResponse(g *gift.CustomerGift) GiftResponse {
	resp := GiftResponse{
		ID:             g.ID,
		CustomerID:     g.CustomerID,
		SurveyID:       g.SurveyID,
		ProductID:      g.ProductID,
		GiftText:       g.GiftText,
		Quantity:       g.Quantity,
		DeliveryType:   string(g.DeliveryType),
		DeliveryStatus: string(g.DeliveryStatus),
		Note:           g.Note,
		GiftType:       string(g.GiftType),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
	if g.DeliveryDate != nil {
		resp.DeliveryDate = g.DeliveryDate.Format(dateLayout)
	}
	return resp
}
