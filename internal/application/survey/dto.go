package survey

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/survey"
)

// CreateSurveyRequest represents a submitted questionnaire
type CreateSurveyRequest struct {
	Name               string   `json:"name" binding:"required,min=1,max=100"`
	Phone              string   `json:"phone" binding:"required,max=30"`
	Age                *int     `json:"age" binding:"omitempty,min=1,max=120"`
	SelectedModel      string   `json:"selected_model" binding:"max=100"`
	ImportantFactors   []string `json:"important_factors" binding:"max=20,dive,max=100"`
	AdditionalFeedback string   `json:"additional_feedback" binding:"max=5000"`
	Address            string   `json:"address" binding:"max=500"`
	EventCandidate     bool     `json:"event_candidate"`
}

// UpdateSurveyRequest represents a partial survey update
type UpdateSurveyRequest struct {
	Name               *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Age                *int       `json:"age" binding:"omitempty,min=1,max=120"`
	SelectedModel      *string    `json:"selected_model" binding:"omitempty,max=100"`
	ImportantFactors   []string   `json:"important_factors" binding:"omitempty,max=20,dive,max=100"`
	AdditionalFeedback *string    `json:"additional_feedback" binding:"omitempty,max=5000"`
	Address            *string    `json:"address" binding:"omitempty,max=500"`
	EventCandidate     *bool      `json:"event_candidate"`
	EventWinner        *bool      `json:"event_winner"`
	GiftDelivered      *bool      `json:"gift_delivered"`
	GiftText           *string    `json:"gift_text" binding:"omitempty,max=200"`
	GiftProductID      *uuid.UUID `json:"gift_product_id"`
}

// ListSurveysFilter represents filter options for the survey list
type ListSurveysFilter struct {
	Search        string     `form:"q"`
	CustomerID    *uuid.UUID `form:"-"`
	SelectedModel string     `form:"selected_model"`
	GiftDelivered *bool      `form:"gift_delivered"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=1000"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SurveyResponse represents a survey in API responses
type SurveyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	Name               string     `json:"name"`
	Phone              string     `json:"phone"`
	Age                *int       `json:"age,omitempty"`
	AgeGroup           string     `json:"age_group,omitempty"`
	SelectedModel      string     `json:"selected_model,omitempty"`
	ImportantFactors   []string   `json:"important_factors"`
	AdditionalFeedback string     `json:"additional_feedback,omitempty"`
	Address            string     `json:"address,omitempty"`
	EventCandidate     bool       `json:"event_candidate"`
	EventWinner        bool       `json:"event_winner"`
	GiftDelivered      bool       `json:"gift_delivered"`
	GiftText           string     `json:"gift_text,omitempty"`
	GiftProductID      *uuid.UUID `json:"gift_product_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToSurveyResponse converts a domain survey to a response
func ToSurveyResponse(s *survey.Survey) SurveyResponse {
	factors := s.ImportantFactors
	if factors == nil {
		factors = []string{}
	}
	return SurveyResponse{
		ID:                 s.ID,
		CustomerID:         s.CustomerID,
		Name:               s.Name,
		Phone:              s.Phone,
		Age:                s.Age,
		AgeGroup:           s.AgeGroup,
		SelectedModel:      s.SelectedModel,
		ImportantFactors:   factors,
		AdditionalFeedback: s.AdditionalFeedback,
		Address:            s.Address,
		EventCandidate:     s.EventCandidate,
		EventWinner:        s.EventWinner,
		GiftDelivered:      s.GiftDelivered,
		GiftText:           s.GiftText,
		GiftProductID:      s.GiftProductID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
