package survey

import (
	"strings"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
)

// Address placeholders used when a respondent gave no geocodable address
const (
	AddressNotProvided = "[주소 미제공]"
	AddressVisit       = "[직접방문]"
	AddressOnlineOnly  = "[온라인 전용]"
	AddressNA          = "N/A"
)

var placeholders = map[string]bool{
	AddressNotProvided: true,
	AddressVisit:       true,
	AddressOnlineOnly:  true,
	AddressNA:          true,
}

// Survey is a fitting questionnaire answer sheet
type Survey struct {
	shared.BaseEntity
	CustomerID         *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Name               string     `gorm:"type:varchar(100);not null;index" json:"name"`
	Phone              string     `gorm:"type:varchar(20);not null;index" json:"phone"`
	Age                *int       `json:"age,omitempty"`
	AgeGroup           string     `gorm:"type:varchar(20)" json:"age_group,omitempty"`
	SelectedModel      string     `gorm:"type:varchar(100)" json:"selected_model,omitempty"`
	ImportantFactors   []string   `gorm:"serializer:json;type:jsonb" json:"important_factors"`
	AdditionalFeedback string     `gorm:"type:text" json:"additional_feedback,omitempty"`
	Address            string     `gorm:"type:text" json:"address,omitempty"`
	EventCandidate     bool       `gorm:"not null;default:false" json:"event_candidate"`
	EventWinner        bool       `gorm:"not null;default:false" json:"event_winner"`
	GiftDelivered      bool       `gorm:"not null;default:false" json:"gift_delivered"`
	GiftText           string     `gorm:"type:varchar(200)" json:"gift_text,omitempty"`
	GiftProductID      *uuid.UUID `gorm:"type:uuid" json:"gift_product_id,omitempty"`
}

// TableName returns the table name for GORM
func (Survey) TableName() string {
	return "surveys"
}

// NewSurvey creates a survey answer sheet
func NewSurvey(name, phone string) (*Survey, error) {
	name = valueobject.NormalizeName(name)
	if name == "" {
		return nil, shared.InvalidInput("name is required")
	}
	normalized, ok := valueobject.NormalizePhone(phone)
	if !ok {
		return nil, shared.InvalidInput("phone must be a valid 010 mobile number")
	}
	return &Survey{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		Phone:            normalized,
		ImportantFactors: []string{},
	}, nil
}

// SetAge stores the age and derives its age group
func (s *Survey) SetAge(age *int) {
	s.Age = age
	if age == nil {
		return
	}
	s.AgeGroup = AgeGroupOf(*age)
}

// SetAddress stores the address, folding "visited in person" variants into a placeholder
func (s *Survey) SetAddress(address string) {
	s.Address = NormalizeAddress(address)
}

// HasGeocodableAddress reports whether the address can be sent to a geocoder
func (s *Survey) HasGeocodableAddress() bool {
	return s.Address != "" && !placeholders[s.Address]
}

// AgeGroupOf buckets an age by decade (10대 ... 80대 이상)
func AgeGroupOf(age int) string {
	switch {
	case age < 20:
		return "10대"
	case age >= 80:
		return "80대 이상"
	default:
		return string(rune('0'+age/10)) + "0대"
	}
}

// NormalizeAddress trims the address and maps visit-in-person variants to AddressVisit
func NormalizeAddress(address string) string {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" || placeholders[trimmed] {
		return trimmed
	}
	if strings.Contains(trimmed, "직접") && strings.Contains(trimmed, "방문") {
		return AddressVisit
	}
	return trimmed
}
