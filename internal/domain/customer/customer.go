package customer

import (
	"math"
	"strings"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
)

// Store coordinates used for near/far segmentation (Suwon showroom)
const (
	StoreLatitude    = 37.2636
	StoreLongitude   = 127.0286
	NearThresholdKM  = 50.0
	earthRadiusKM    = 6371.0
	maxNameLength    = 100
	maxAddressLength = 500
)

// Customer is a CRM contact. Phone is always stored normalized (01012345678).
type Customer struct {
	shared.BaseEntity
	Name             string     `gorm:"type:varchar(100);not null" json:"name"`
	Phone            string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"phone"`
	Address          string     `gorm:"type:text" json:"address,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	OptOut           bool       `gorm:"not null;default:false" json:"opt_out"`
	FirstInquiryDate *time.Time `json:"first_inquiry_date,omitempty"`
	LastContactDate  *time.Time `json:"last_contact_date,omitempty"`
	VisitCount       int        `gorm:"not null;default:0" json:"visit_count"`
	PurchaseCount    int        `gorm:"not null;default:0" json:"purchase_count"`
	IsPurchaser      bool       `gorm:"not null;default:false" json:"is_purchaser"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer after validating name and phone
func NewCustomer(name, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	normalized, ok := valueobject.NormalizePhone(phone)
	if !ok {
		return nil, shared.InvalidInput("phone must be a valid 010 mobile number")
	}
	now := time.Now()
	return &Customer{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		Phone:            normalized,
		FirstInquiryDate: &now,
		LastContactDate:  &now,
	}, nil
}

// Update changes the basic contact fields
func (c *Customer) Update(name, address, notes string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if len(address) > maxAddressLength {
		return shared.InvalidInput("address is too long")
	}
	c.Name = name
	c.Address = strings.TrimSpace(address)
	c.Notes = notes
	c.Touch()
	return nil
}

// ChangePhone replaces the phone number with its normalized form
func (c *Customer) ChangePhone(phone string) error {
	normalized, ok := valueobject.NormalizePhone(phone)
	if !ok {
		return shared.InvalidInput("phone must be a valid 010 mobile number")
	}
	c.Phone = normalized
	c.Touch()
	return nil
}

// SetLocation stores geocoded coordinates
func (c *Customer) SetLocation(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return shared.InvalidInput("coordinates out of range")
	}
	c.Latitude = &lat
	c.Longitude = &lng
	c.Touch()
	return nil
}

// SetOptOut marks whether the customer refused marketing messages
func (c *Customer) SetOptOut(optOut bool) {
	c.OptOut = optOut
	c.Touch()
}

// RecordContact bumps the last contact date
func (c *Customer) RecordContact(at time.Time) {
	if c.FirstInquiryDate == nil {
		c.FirstInquiryDate = &at
	}
	c.LastContactDate = &at
	c.Touch()
}

// RecordVisit increments the visit counter
func (c *Customer) RecordVisit(at time.Time) {
	c.VisitCount++
	c.RecordContact(at)
}

// RecordPurchase increments the purchase counter and flags the customer as purchaser
func (c *Customer) RecordPurchase(at time.Time) {
	c.PurchaseCount++
	c.IsPurchaser = true
	c.RecordContact(at)
}

// FormattedPhone returns the phone as 010-1234-5678
func (c *Customer) FormattedPhone() string {
	return valueobject.FormatPhone(c.Phone)
}

// DistanceFromStoreKM returns the great-circle distance to the store, or
// false when the customer has no coordinates.
func (c *Customer) DistanceFromStoreKM() (float64, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return 0, false
	}
	return haversineKM(*c.Latitude, *c.Longitude, StoreLatitude, StoreLongitude), true
}

func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func validateName(name string) error {
	if name == "" {
		return shared.InvalidInput("name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return shared.InvalidInput("name cannot exceed 100 characters")
	}
	return nil
}
