package content

import (
	"strings"

	"github.com/masgolf/backend/internal/domain/shared"
)

// PlanStatus is the lifecycle of a monthly funnel plan
type PlanStatus string

const (
	PlanPlanned PlanStatus = "planned"
	PlanActive  PlanStatus = "active"
	PlanDone    PlanStatus = "done"
)

// MonthlyFunnelPlan is the marketing funnel planned for one month
type MonthlyFunnelPlan struct {
	shared.BaseEntity
	Year       int        `gorm:"not null;uniqueIndex:idx_funnel_plan_month" json:"year"`
	Month      int        `gorm:"not null;uniqueIndex:idx_funnel_plan_month" json:"month"`
	FunnelName string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_funnel_plan_month" json:"funnel_name"`
	Theme      string     `gorm:"type:varchar(200)" json:"theme,omitempty"`
	Goals      string     `gorm:"type:text" json:"goals,omitempty"`
	Status     PlanStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
}

// TableName returns the table name for GORM
func (MonthlyFunnelPlan) TableName() string {
	return "monthly_funnel_plans"
}

// NewMonthlyFunnelPlan validates and creates a planned funnel
func NewMonthlyFunnelPlan(year, month int, funnelName string) (*MonthlyFunnelPlan, error) {
	p := &MonthlyFunnelPlan{
		BaseEntity: shared.NewBaseEntity(),
		Year:       year,
		Month:      month,
		FunnelName: strings.TrimSpace(funnelName),
		Status:     PlanPlanned,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the plan's fields
func (p *MonthlyFunnelPlan) Validate() error {
	if p.Year < 2000 || p.Year > 2100 {
		return shared.InvalidInput("year is out of range")
	}
	if p.Month < 1 || p.Month > 12 {
		return shared.InvalidInput("month must be between 1 and 12")
	}
	if p.FunnelName == "" {
		return shared.InvalidInput("funnel_name is required")
	}
	switch p.Status {
	case PlanPlanned, PlanActive, PlanDone:
	default:
		return shared.InvalidInput("status must be planned, active or done")
	}
	return nil
}
