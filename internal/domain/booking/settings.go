package booking

import (
	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/shared"
)

// SettingsID is the fixed primary key of the single settings row
var SettingsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

const defaultCallMessage = "원하시는 시간에 예약이 어려우신가요? 전화로 문의해주세요."

// Settings holds store-wide booking restrictions
type Settings struct {
	shared.BaseEntity
	DisableSameDay  bool   `gorm:"column:disable_same_day_booking;not null;default:false" json:"disable_same_day_booking"`
	DisableWeekend  bool   `gorm:"column:disable_weekend_booking;not null;default:false" json:"disable_weekend_booking"`
	MinAdvanceHours int    `gorm:"not null" json:"min_advance_hours"`
	MaxAdvanceDays  int    `gorm:"not null" json:"max_advance_days"`
	MaxWeeklySlots  int    `gorm:"not null" json:"max_weekly_slots"`
	ShowCallMessage bool   `gorm:"not null" json:"show_call_message"`
	CallMessageText string `gorm:"type:text" json:"call_message_text"`
	StorePhone      string `gorm:"type:varchar(20)" json:"store_phone"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "booking_settings"
}

// DefaultSettings returns the values used when no settings row exists
func DefaultSettings() Settings {
	return Settings{
		BaseEntity:      shared.BaseEntity{ID: SettingsID},
		MinAdvanceHours: 24,
		MaxAdvanceDays:  14,
		MaxWeeklySlots:  10,
		ShowCallMessage: true,
		CallMessageText: defaultCallMessage,
		StorePhone:      "031-215-0013",
	}
}

// Validate checks the settings are usable
func (s *Settings) Validate() error {
	if s.MinAdvanceHours < 0 {
		return shared.InvalidInput("min_advance_hours cannot be negative")
	}
	if s.MaxAdvanceDays < 1 || s.MaxAdvanceDays > 365 {
		return shared.InvalidInput("max_advance_days must be between 1 and 365")
	}
	if s.MaxWeeklySlots < 0 {
		return shared.InvalidInput("max_weekly_slots cannot be negative")
	}
	return nil
}

// Hours is one operating time slot on a weekday. A weekday may have several.
type Hours struct {
	shared.BaseEntity
	DayOfWeek   int    `gorm:"not null;index" json:"day_of_week"` // 0=Sunday
	StartTime   string `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string `gorm:"type:varchar(5);not null" json:"end_time"`
	IsAvailable bool   `gorm:"not null" json:"is_available"`
}

// TableName returns the table name for GORM
func (Hours) TableName() string {
	return "booking_hours"
}

// Block removes a slot from sale. Virtual blocks only render as "booked" in
// the booking page and never exclude a slot.
type Block struct {
	shared.BaseEntity
	Date      string `gorm:"type:varchar(10);not null;index" json:"date"`
	Time      string `gorm:"type:varchar(5);not null" json:"time"`
	Duration  int    `gorm:"not null" json:"duration"`
	IsVirtual bool   `gorm:"not null;default:false" json:"is_virtual"`
	Reason    string `gorm:"type:varchar(200)" json:"reason,omitempty"`
}

// TableName returns the table name for GORM
func (Block) TableName() string {
	return "booking_blocks"
}

// NewHours validates and builds an operating slot
func NewHours(dayOfWeek int, start, end string, available bool) (*Hours, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, shared.InvalidInput("day_of_week must be between 0 and 6")
	}
	from, err := minutesOf(start)
	if err != nil {
		return nil, err
	}
	to, err := minutesOf(end)
	if err != nil {
		return nil, err
	}
	if to <= from {
		return nil, shared.InvalidInput("end_time must be after start_time")
	}
	return &Hours{
		BaseEntity:  shared.NewBaseEntity(),
		DayOfWeek:   dayOfWeek,
		StartTime:   clockOf(from),
		EndTime:     clockOf(to),
		IsAvailable: available,
	}, nil
}

// NewBlock validates and builds a block
func NewBlock(date, clock string, duration int, virtual bool, reason string) (*Block, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	hhmm, err := NormalizeClock(clock)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Block{
		BaseEntity: shared.NewBaseEntity(),
		Date:       date,
		Time:       hhmm,
		Duration:   duration,
		IsVirtual:  virtual,
		Reason:     reason,
	}, nil
}
