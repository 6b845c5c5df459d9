package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/customer"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name      string   `json:"name" binding:"required,min=1,max=100"`
	Phone     string   `json:"phone" binding:"required,max=30"`
	Address   string   `json:"address" binding:"max=500"`
	Notes     string   `json:"notes" binding:"max=2000"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	OptOut    bool     `json:"opt_out"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name      *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Phone     *string  `json:"phone" binding:"omitempty,max=30"`
	Address   *string  `json:"address" binding:"omitempty,max=500"`
	Notes     *string  `json:"notes" binding:"omitempty,max=2000"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	OptOut    *bool    `json:"opt_out"`
}

// ListCustomersFilter represents filter options for the customer list
type ListCustomersFilter struct {
	Search    string `form:"q"`
	Purchased *bool  `form:"purchased"`
	OptOut    *bool  `form:"opt_out"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=1000"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	FormattedPhone   string     `json:"formatted_phone"`
	Address          string     `json:"address,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	DistanceKM       *float64   `json:"distance_km,omitempty"`
	Segment          string     `json:"segment"`
	OptOut           bool       `json:"opt_out"`
	FirstInquiryDate *time.Time `json:"first_inquiry_date,omitempty"`
	LastContactDate  *time.Time `json:"last_contact_date,omitempty"`
	VisitCount       int        `json:"visit_count"`
	PurchaseCount    int        `json:"purchase_count"`
	IsPurchaser      bool       `json:"is_purchaser"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SegmentsResponse summarizes the reachable audience per segment
type SegmentsResponse struct {
	Total   int            `json:"total"`
	OptOut  int            `json:"opt_out"`
	Buckets map[string]int `json:"buckets"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Phone:            c.Phone,
		FormattedPhone:   c.FormattedPhone(),
		Address:          c.Address,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Segment:          customer.SegmentOf(c).Key(),
		OptOut:           c.OptOut,
		FirstInquiryDate: c.FirstInquiryDate,
		LastContactDate:  c.LastContactDate,
		VisitCount:       c.VisitCount,
		PurchaseCount:    c.PurchaseCount,
		IsPurchaser:      c.IsPurchaser,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if km, ok := c.DistanceFromStoreKM(); ok {
		resp.DistanceKM = &km
	}
	return resp
}

// NormalizeReport summarizes a phone normalization pass
type NormalizeReport struct {
	Scanned   int      `json:"scanned"`
	Updated   int      `json:"updated"`
	Invalid   []string `json:"invalid"`
	Conflicts []string `json:"conflicts"`
	DryRun    bool     `json:"dry_run"`
}
