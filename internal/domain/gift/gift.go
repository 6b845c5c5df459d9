package gift

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// DeliveryType is how the gift reaches the customer
type DeliveryType string

const (
	DeliveryInPerson DeliveryType = "in_person"
	DeliveryCourier  DeliveryType = "courier"
)

// DeliveryStatus tracks delivery progress
type DeliveryStatus string

const (
	StatusPending  DeliveryStatus = "pending"
	StatusSent     DeliveryStatus = "sent"
	StatusCanceled DeliveryStatus = "canceled"
)

// Type separates ordinary gifts from event prizes
type Type string

const (
	TypeNormal Type = "normal"
	TypePrize  Type = "prize"
)

func (t DeliveryType) valid() bool { return t == DeliveryInPerson || t == DeliveryCourier }
func (s DeliveryStatus) valid() bool {
	return s == StatusPending || s == StatusSent || s == StatusCanceled
}
func (t Type) valid() bool { return t == TypeNormal || t == TypePrize }

// CustomerGift records a gift handed to a customer
type CustomerGift struct {
	shared.BaseEntity
	CustomerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	SurveyID       *uuid.UUID     `gorm:"type:uuid;index" json:"survey_id,omitempty"`
	ProductID      *uuid.UUID     `gorm:"type:uuid" json:"product_id,omitempty"`
	GiftText       string         `gorm:"type:varchar(200)" json:"gift_text,omitempty"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	DeliveryType   DeliveryType   `gorm:"type:varchar(20);not null;default:'in_person'" json:"delivery_type"`
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"delivery_status"`
	DeliveryDate   *time.Time     `gorm:"type:date" json:"delivery_date,omitempty"`
	Note           string         `gorm:"type:text" json:"note,omitempty"`
	GiftType       Type           `gorm:"type:varchar(20);not null;default:'normal'" json:"gift_type"`
}

// TableName returns the table name for GORM
func (CustomerGift) TableName() string {
	return "customer_gifts"
}

// NewCustomerGift creates a pending in-person gift of quantity 1
func NewCustomerGift(customerID uuid.UUID) (*CustomerGift, error) {
	if customerID == uuid.Nil {
		return nil, shared.InvalidInput("customer_id is required")
	}
	return &CustomerGift{
		BaseEntity:     shared.NewBaseEntity(),
		CustomerID:     customerID,
		Quantity:       1,
		DeliveryType:   DeliveryInPerson,
		DeliveryStatus: StatusPending,
		GiftType:       TypeNormal,
	}, nil
}

// Patch is a partial update. Nil fields are left unchanged; the Clear flags null a column.
type Patch struct {
	ProductID         *uuid.UUID      `json:"product_id,omitempty"`
	ClearProduct      bool            `json:"-"`
	GiftText          *string         `json:"gift_text,omitempty"`
	Quantity          *int            `json:"quantity,omitempty"`
	DeliveryType      *DeliveryType   `json:"delivery_type,omitempty"`
	DeliveryStatus    *DeliveryStatus `json:"delivery_status,omitempty"`
	DeliveryDate      *time.Time      `json:"delivery_date,omitempty"`
	ClearDeliveryDate bool            `json:"-"`
	Note              *string         `json:"note,omitempty"`
	GiftType          *Type           `json:"gift_type,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.ProductID == nil && !p.ClearProduct && p.GiftText == nil && p.Quantity == nil &&
		p.DeliveryType == nil && p.DeliveryStatus == nil && p.DeliveryDate == nil &&
		!p.ClearDeliveryDate && p.Note == nil && p.GiftType == nil
}

// TouchesDeliveryDate reports whether the delivery date is set or cleared
func (p Patch) TouchesDeliveryDate() bool {
	return p.DeliveryDate != nil || p.ClearDeliveryDate
}

// Validate checks the fields of g
func (g *CustomerGift) Validate() error {
	if g.Quantity < 1 {
		return shared.InvalidInput("quantity must be at least 1")
	}
	if !g.DeliveryType.valid() {
		return shared.InvalidInput("delivery_type must be in_person or courier")
	}
	if !g.DeliveryStatus.valid() {
		return shared.InvalidInput("delivery_status must be pending, sent or canceled")
	}
	if !g.GiftType.valid() {
		return shared.InvalidInput("gift_type must be normal or prize")
	}
	return nil
}

// Apply merges p into g and validates the result
func (g *CustomerGift) Apply(p Patch) error {
	if p.IsEmpty() {
		return shared.InvalidInput("nothing to update")
	}
	next := *g
	switch {
	case p.ClearProduct:
		next.ProductID = nil
	case p.ProductID != nil:
		next.ProductID = p.ProductID
	}
	if p.GiftText != nil {
		next.GiftText = *p.GiftText
	}
	if p.Quantity != nil {
		next.Quantity = *p.Quantity
	}
	if p.DeliveryType != nil {
		next.DeliveryType = *p.DeliveryType
	}
	if p.DeliveryStatus != nil {
		next.DeliveryStatus = *p.DeliveryStatus
	}
	switch {
	case p.ClearDeliveryDate:
		next.DeliveryDate = nil
	case p.DeliveryDate != nil:
		next.DeliveryDate = p.DeliveryDate
	}
	if p.Note != nil {
		next.Note = *p.Note
	}
	if p.GiftType != nil {
		next.GiftType = *p.GiftType
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*g = next
	g.Touch()
	return nil
}

// SurveyDelivered returns the gift_delivered value a status change implies for the
// linked survey: true for sent, false for canceled, nil otherwise.
func SurveyDelivered(status DeliveryStatus) *bool {
	var v bool
	switch status {
	case StatusSent:
		v = true
	case StatusCanceled:
		v = false
	default:
		return nil
	}
	return &v
}
