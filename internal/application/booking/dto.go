package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/masgolf/backend/internal/domain/booking"
)

// AvailabilityQuery selects the date and duration to check
type AvailabilityQuery struct {
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `form:"duration" binding:"omitempty,min=10,max=480"`
}

// NextAvailableQuery selects the duration and optional search start
type NextAvailableQuery struct {
	Duration int    `form:"duration" binding:"omitempty,min=10,max=480"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
}

// NextAvailableResponse is the first bookable date and its times
type NextAvailableResponse struct {
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
	FirstTime      string   `json:"first_time"`
}

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required,max=30"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string `json:"time" binding:"required"`
	Duration int    `json:"duration" binding:"omitempty,min=10,max=480"`
	Service  string `json:"service" binding:"max=100"`
	Notes    string `json:"notes" binding:"max=2000"`
}

// UpdateStatusRequest moves a booking to another status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

// ListBookingsFilter represents filter options for the booking list
type ListBookingsFilter struct {
	Search   string `form:"q"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Phone    string `form:"phone"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=1000"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ScheduleReminderRequest optionally overrides the reminder send time
type ScheduleReminderRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// ReminderResponse is a scheduled reminder draft
type ReminderResponse struct {
	ID          uuid.UUID  `json:"id"`
	BookingID   uuid.UUID  `json:"booking_id"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	MessageText string     `json:"message_text"`
}

// SettingsRequest replaces the booking settings
type SettingsRequest struct {
	DisableSameDay  bool   `json:"disable_same_day_booking"`
	DisableWeekend  bool   `json:"disable_weekend_booking"`
	MinAdvanceHours int    `json:"min_advance_hours" binding:"min=0,max=720"`
	MaxAdvanceDays  int    `json:"max_advance_days" binding:"min=1,max=365"`
	MaxWeeklySlots  int    `json:"max_weekly_slots" binding:"min=0"`
	ShowCallMessage bool   `json:"show_call_message"`
	CallMessageText string `json:"call_message_text" binding:"max=500"`
	StorePhone      string `json:"store_phone" binding:"max=20"`
}

// HoursSlot is one operating slot of a weekday
type HoursSlot struct {
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable bool   `json:"is_available"`
}

// ReplaceHoursRequest replaces every slot of a weekday
type ReplaceHoursRequest struct {
	Slots []HoursSlot `json:"slots" binding:"dive"`
}

// CreateBlockRequest blocks a slot, or marks it virtually booked
type CreateBlockRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Time      string `json:"time" binding:"required"`
	Duration  int    `json:"duration" binding:"omitempty,min=10,max=720"`
	IsVirtual bool   `json:"is_virtual"`
	Reason    string `json:"reason" binding:"max=200"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Duration   int        `json:"duration"`
	Service    string     `json:"service,omitempty"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToBookingResponse converts a domain booking to a response
func ToBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		Name:       b.Name,
		Phone:      b.Phone,
		Date:       b.Date,
		Time:       b.Time,
		Duration:   b.Duration,
		Service:    b.Service,
		Status:     string(b.Status),
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToBookingResponses converts a slice of bookings
func ToBookingResponses(items []booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(items))
	for i := range items {
		out[i] = ToBookingResponse(&items[i])
	}
	return out
}
