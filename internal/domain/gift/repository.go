package gift

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter selects gifts of a customer or of a survey
type ListFilter struct {
	CustomerID *uuid.UUID
	SurveyID   *uuid.UUID
}

// Repository defines customer gift persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerGift, error)
	// FindAll orders by delivery_date desc (nulls last), then created_at desc
	FindAll(ctx context.Context, filter ListFilter) ([]CustomerGift, error)
	Save(ctx context.Context, g *CustomerGift) error
	Delete(ctx context.Context, id uuid.UUID) error
}
