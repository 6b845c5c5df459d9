package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	bookingapp "github.com/masgolf/backend/internal/application/booking"
)

// BookingHandler serves fitting bookings, their schedule and reminders
type BookingHandler struct {
	BaseHandler
	bookingService *bookingapp.Service
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *bookingapp.Service) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Availability godoc
// @ID           bookingAvailability
// @Summary      Bookable times of a day
// @Description  Returns the free start times for the duration, or the restriction that closes the day
// @Tags         bookings
// @Produce      json
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Param        duration query int false "Minutes" default(60)
// @Success      200 {object} APIResponse[booking.Availability]
// @Failure      400 {object} ErrorResponse
// @Router       /bookings/availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	var q bookingapp.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.Available(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// NextAvailable godoc
// @ID           bookingNextAvailable
// @Summary      First bookable date
// @Tags         bookings
// @Produce      json
// @Param        duration query int false "Minutes" default(60)
// @Param        from query string false "Search start (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[bookingapp.NextAvailableResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /bookings/next-available [get]
func (h *BookingHandler) NextAvailable(c *gin.Context) {
	var q bookingapp.NextAvailableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.NextAvailable(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createBooking
// @Summary      Book a fitting
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.CreateBookingRequest true "Booking"
// @Success      201 {object} APIResponse[bookingapp.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingapp.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getBooking
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.bookingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listBookings
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Param        q query string false "Name or phone"
// @Param        date_from query string false "From date"
// @Param        date_to query string false "To date"
// @Param        status query string false "Status" Enums(pending, confirmed, completed, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} PageResponse[[]bookingapp.BookingResponse]
// @Security     SessionAuth
// @Router       /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	var filter bookingapp.ListBookingsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	page, err := h.bookingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// UpdateStatus godoc
// @ID           updateBookingStatus
// @Summary      Change a booking's status
// @Description  Confirming a booking notifies the customer by SMS
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        request body bookingapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[bookingapp.BookingResponse]
// @Failure      422 {object} ErrorResponse
// @Security     SessionAuth
// @Router       /bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req bookingapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteBooking
// @Summary      Delete a booking
// @Tags         bookings
// @Param        id path string true "Booking ID" format(uuid)
// @Success      204
// @Security     SessionAuth
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.bookingService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ScheduleReminder godoc
// @ID           scheduleBookingReminder
// @Summary      Schedule the day-of reminder SMS
// @Description  Creates or replaces the reminder draft. Defaults to two hours before the booking.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        request body bookingapp.ScheduleReminderRequest false "Send time override"
// @Success      200 {object} APIResponse[bookingapp.ReminderResponse]
// @Security     SessionAuth
// @Router       /bookings/{id}/reminder [post]
func (h *BookingHandler) ScheduleReminder(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	var req bookingapp.ScheduleReminderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}
	resp, err := h.bookingService.ScheduleReminder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetReminder returns the pending reminder draft of a booking
func (h *BookingHandler) GetReminder(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	resp, err := h.bookingService.GetReminder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelReminder removes the pending reminder draft of a booking
func (h *BookingHandler) CancelReminder(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.bookingService.CancelReminder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetSettings godoc
// @ID           getBookingSettings
// @Summary      Booking restrictions
// @Tags         booking-settings
// @Produce      json
// @Success      200 {object} APIResponse[booking.Settings]
// @Router       /booking-settings [get]
func (h *BookingHandler) GetSettings(c *gin.Context) {
	resp, err := h.bookingService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings godoc
// @ID           updateBookingSettings
// @Summary      Replace the booking restrictions
// @Tags         booking-settings
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.SettingsRequest true "Settings"
// @Success      200 {object} APIResponse[booking.Settings]
// @Security     SessionAuth
// @Router       /booking-settings [put]
func (h *BookingHandler) UpdateSettings(c *gin.Context) {
	var req bookingapp.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *BookingHandler) weekday(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 || day > 6 {
		h.BadRequest(c, "day must be 0 (Sunday) to 6 (Saturday)")
		return 0, false
	}
	return day, true
}

// Hours godoc
// @ID           getBookingHours
// @Summary      Operating slots of a weekday
// @Tags         booking-settings
// @Produce      json
// @Param        day path int true "Weekday, 0 is Sunday"
// @Success      200 {object} APIResponse[[]booking.Hours]
// @Security     SessionAuth
// @Router       /booking-hours/{day} [get]
func (h *BookingHandler) Hours(c *gin.Context) {
	day, ok := h.weekday(c)
	if !ok {
		return
	}
	resp, err := h.bookingService.Hours(c.Request.Context(), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReplaceHours godoc
// @ID           replaceBookingHours
// @Summary      Replace the operating slots of a weekday
// @Tags         booking-settings
// @Accept       json
// @Produce      json
// @Param        day path int true "Weekday, 0 is Sunday"
// @Param        request body bookingapp.ReplaceHoursRequest true "Slots"
// @Success      200 {object} APIResponse[[]booking.Hours]
// @Security     SessionAuth
// @Router       /booking-hours/{day} [put]
func (h *BookingHandler) ReplaceHours(c *gin.Context) {
	day, ok := h.weekday(c)
	if !ok {
		return
	}
	var req bookingapp.ReplaceHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.ReplaceHours(c.Request.Context(), day, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Blocks lists the blocked slots of ?date=
func (h *BookingHandler) Blocks(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		h.BadRequest(c, "date is required")
		return
	}
	resp, err := h.bookingService.Blocks(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateBlock godoc
// @ID           createBookingBlock
// @Summary      Block a slot
// @Description  Virtual blocks only show the slot as booked; real blocks remove it from availability
// @Tags         booking-settings
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.CreateBlockRequest true "Block"
// @Success      201 {object} APIResponse[booking.Block]
// @Security     SessionAuth
// @Router       /booking-blocks [post]
func (h *BookingHandler) CreateBlock(c *gin.Context) {
	var req bookingapp.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.bookingService.CreateBlock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// DeleteBlock removes a blocked slot
func (h *BookingHandler) DeleteBlock(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	if err := h.bookingService.DeleteBlock(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
