// Package booking implements fitting bookings, availability and reminders.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	messagingapp "github.com/masgolf/backend/internal/application/messaging"
	"github.com/masgolf/backend/internal/domain/booking"
	"github.com/masgolf/backend/internal/domain/customer"
	"github.com/masgolf/backend/internal/domain/messaging"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Service handles booking use cases
type Service struct {
	bookings  booking.Repository
	schedule  booking.ScheduleRepository
	customers customer.Repository
	campaigns messaging.Repository
	sms       messagingapp.SMSGateway
	notifier  shared.Notifier
	events    shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new booking Service
func NewService(
	bookings booking.Repository,
	schedule booking.ScheduleRepository,
	customers customer.Repository,
	campaigns messaging.Repository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		bookings:  bookings,
		schedule:  schedule,
		customers: customers,
		campaigns: campaigns,
		logger:    logger,
		now:       time.Now,
	}
}

// SetSMSGateway enables customer SMS on create and confirm
func (s *Service) SetSMSGateway(gw messagingapp.SMSGateway) {
	s.sms = gw
}

// SetNotifier enables operator notifications
func (s *Service) SetNotifier(n shared.Notifier) {
	s.notifier = n
}

// SetEventPublisher sets the domain event publisher
func (s *Service) SetEventPublisher(p shared.EventPublisher) {
	s.events = p
}

// Available returns the bookable times of a date
func (s *Service) Available(ctx context.Context, q AvailabilityQuery) (*booking.Availability, error) {
	settings, err := s.schedule.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	day, err := booking.ParseDate(q.Date)
	if err != nil {
		return nil, err
	}
	a, err := s.availableOn(ctx, *settings, day, q.Duration, s.now())
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) availableOn(ctx context.Context, settings booking.Settings, day time.Time, duration int, now time.Time) (booking.Availability, error) {
	date := booking.FormatDate(day)
	hours, err := s.schedule.FindHours(ctx, int(day.Weekday()))
	if err != nil {
		return booking.Availability{}, err
	}
	active, err := s.bookings.FindActiveOnDate(ctx, date)
	if err != nil {
		return booking.Availability{}, err
	}
	blocks, err := s.schedule.FindBlocksOnDate(ctx, date)
	if err != nil {
		return booking.Availability{}, err
	}
	return booking.Calculate(settings, date, duration, now, booking.DaySchedule{
		Hours:    hours,
		Bookings: active,
		Blocks:   blocks,
	})
}

// NextAvailable scans forward for the first date with a free time
func (s *Service) NextAvailable(ctx context.Context, q NextAvailableQuery) (*NextAvailableResponse, error) {
	settings, err := s.schedule.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var from *time.Time
	if q.From != "" {
		d, err := booking.ParseDate(q.From)
		if err != nil {
			return nil, err
		}
		from = &d
	}

	first, last := booking.SearchWindow(*settings, from, now)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if booking.SkipDay(*settings, day) {
			continue
		}
		a, err := s.availableOn(ctx, *settings, day, q.Duration, now)
		if err != nil {
			return nil, err
		}
		if len(a.AvailableTimes) > 0 {
			return &NextAvailableResponse{
				Date:           a.Date,
				AvailableTimes: a.AvailableTimes,
				FirstTime:      a.AvailableTimes[0],
			}, nil
		}
	}

	msg := settings.CallMessageText
	if msg == "" {
		msg = booking.DefaultSettings().CallMessageText
	}
	return nil, shared.NewDomainError("NOT_FOUND", msg)
}

// Create books a fitting and upserts the customer by phone
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*BookingResponse, error) {
	b, err := booking.NewBooking(req.Name, req.Phone, req.Date, req.Time, req.Duration, req.Service)
	if err != nil {
		return nil, err
	}
	b.Notes = req.Notes

	c, err := s.upsertCustomer(ctx, b)
	if err != nil {
		return nil, err
	}
	b.CustomerID = &c.ID

	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("date", b.Date),
		zap.String("time", b.Time))

	s.publish(ctx, booking.NewCreatedEvent(b))
	s.notifyOperator(ctx, "새 시타 예약", b)
	s.sendCustomerSMS(ctx, b, receivedText(b))

	resp := ToBookingResponse(b)
	return &resp, nil
}

func (s *Service) upsertCustomer(ctx context.Context, b *booking.Booking) (*customer.Customer, error) {
	c, err := s.customers.FindByPhone(ctx, b.Phone)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c, err = customer.NewCustomer(b.Name, b.Phone)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	c.RecordContact(s.now())
	if err := s.customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns a booking
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// List returns a page of bookings
func (s *Service) List(ctx context.Context, f ListBookingsFilter) (shared.Paginated[BookingResponse], error) {
	filter := booking.ListFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		}.Normalize(),
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Status:   booking.Status(f.Status),
	}
	if f.Phone != "" {
		filter.Phone = f.Phone
		if n, ok := valueobject.NormalizePhone(f.Phone); ok {
			filter.Phone = n
		}
	}
	items, total, err := s.bookings.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[BookingResponse]{}, err
	}
	return shared.NewPaginated(ToBookingResponses(items), total, filter.Page, filter.PageSize), nil
}

// UpdateStatus moves a booking to another status. Confirming notifies the
// customer; cancelling drops the pending reminder.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := b.Status
	if err := b.ChangeStatus(booking.Status(req.Status)); err != nil {
		return nil, err
	}
	if from == b.Status {
		resp := ToBookingResponse(b)
		return &resp, nil
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Booking status changed",
		zap.String("booking_id", b.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(b.Status)))

	s.publish(ctx, booking.NewStatusChangedEvent(b, from))
	switch b.Status {
	case booking.StatusConfirmed:
		s.notifyOperator(ctx, "시타 예약 확정", b)
		s.sendCustomerSMS(ctx, b, confirmedText(b))
	case booking.StatusCancelled:
		s.dropReminder(ctx, b.ID)
	}

	resp := ToBookingResponse(b)
	return &resp, nil
}

// Delete removes a booking and its pending reminder
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.dropReminder(ctx, id)
	s.logger.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

// ScheduleReminder creates the reminder draft sent two hours before the
// booking, replacing a pending one. The SMS dispatcher sends it when due.
func (s *Service) ScheduleReminder(ctx context.Context, id uuid.UUID, req ScheduleReminderRequest) (*ReminderResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Occupies() {
		return nil, shared.NewDomainError("INVALID_STATE", "booking is "+string(b.Status))
	}

	at := req.ScheduledAt
	if at == nil {
		start, err := b.StartsAt()
		if err != nil {
			return nil, err
		}
		t := start.Add(-reminderLeadHours * time.Hour)
		at = &t
	}
	if !at.After(s.now()) {
		return nil, shared.InvalidInput("scheduled_at must be in the future")
	}

	settings, err := s.schedule.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := s.campaigns.FindPendingReminder(ctx, b.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		draft, err = messaging.NewChannelSMS(reminderText(b, settings.StorePhone), messaging.TypeLMS, []string{b.Phone})
		if err != nil {
			return nil, err
		}
		draft.Purpose = messaging.PurposeBookingReminder
		draft.BookingID = &b.ID
	case err != nil:
		return nil, err
	default:
		draft.MessageText = reminderText(b, settings.StorePhone)
		draft.RecipientNumbers = []string{b.Phone}
		draft.Touch()
	}
	draft.ScheduledAt = at
	draft.Note = "booking reminder: " + b.ID.String()

	if err := s.campaigns.Save(ctx, draft); err != nil {
		return nil, err
	}
	s.logger.Info("Booking reminder scheduled",
		zap.String("booking_id", b.ID.String()),
		zap.String("campaign_id", draft.ID.String()),
		zap.Time("scheduled_at", *at))
	return toReminderResponse(draft, b.ID), nil
}

// GetReminder returns the pending reminder of a booking
func (s *Service) GetReminder(ctx context.Context, id uuid.UUID) (*ReminderResponse, error) {
	draft, err := s.campaigns.FindPendingReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReminderResponse(draft, id), nil
}

// CancelReminder deletes the pending reminder of a booking
func (s *Service) CancelReminder(ctx context.Context, id uuid.UUID) error {
	draft, err := s.campaigns.FindPendingReminder(ctx, id)
	if err != nil {
		return err
	}
	return s.campaigns.Delete(ctx, draft.ID)
}

func (s *Service) dropReminder(ctx context.Context, bookingID uuid.UUID) {
	err := s.CancelReminder(ctx, bookingID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Failed to drop booking reminder",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err))
	}
}

func toReminderResponse(c *messaging.ChannelSMS, bookingID uuid.UUID) *ReminderResponse {
	return &ReminderResponse{
		ID:          c.ID,
		BookingID:   bookingID,
		Status:      string(c.Status),
		ScheduledAt: c.ScheduledAt,
		MessageText: c.MessageText,
	}
}

// GetSettings returns the booking settings
func (s *Service) GetSettings(ctx context.Context) (*booking.Settings, error) {
	return s.schedule.GetSettings(ctx)
}

// UpdateSettings replaces the booking settings
func (s *Service) UpdateSettings(ctx context.Context, req SettingsRequest) (*booking.Settings, error) {
	settings, err := s.schedule.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	settings.DisableSameDay = req.DisableSameDay
	settings.DisableWeekend = req.DisableWeekend
	settings.MinAdvanceHours = req.MinAdvanceHours
	settings.MaxAdvanceDays = req.MaxAdvanceDays
	settings.MaxWeeklySlots = req.MaxWeeklySlots
	settings.ShowCallMessage = req.ShowCallMessage
	settings.CallMessageText = req.CallMessageText
	if req.StorePhone != "" {
		settings.StorePhone = req.StorePhone
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	settings.Touch()
	if err := s.schedule.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Booking settings updated")
	return settings, nil
}

// Hours returns the operating slots of a weekday
func (s *Service) Hours(ctx context.Context, dayOfWeek int) ([]booking.Hours, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, shared.InvalidInput("day_of_week must be between 0 and 6")
	}
	return s.schedule.FindHours(ctx, dayOfWeek)
}

// ReplaceHours swaps every operating slot of a weekday
func (s *Service) ReplaceHours(ctx context.Context, dayOfWeek int, req ReplaceHoursRequest) ([]booking.Hours, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, shared.InvalidInput("day_of_week must be between 0 and 6")
	}
	hours := make([]booking.Hours, 0, len(req.Slots))
	for _, slot := range req.Slots {
		h, err := booking.NewHours(dayOfWeek, slot.StartTime, slot.EndTime, slot.IsAvailable)
		if err != nil {
			return nil, err
		}
		hours = append(hours, *h)
	}
	if err := s.schedule.ReplaceHours(ctx, dayOfWeek, hours); err != nil {
		return nil, err
	}
	s.logger.Info("Booking hours replaced", zap.Int("day_of_week", dayOfWeek), zap.Int("slots", len(hours)))
	return hours, nil
}

// Blocks returns the blocks of a date
func (s *Service) Blocks(ctx context.Context, date string) ([]booking.Block, error) {
	if _, err := booking.ParseDate(date); err != nil {
		return nil, err
	}
	return s.schedule.FindBlocksOnDate(ctx, date)
}

// CreateBlock blocks a slot, or marks it virtually booked
func (s *Service) CreateBlock(ctx context.Context, req CreateBlockRequest) (*booking.Block, error) {
	b, err := booking.NewBlock(req.Date, req.Time, req.Duration, req.IsVirtual, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.schedule.SaveBlock(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Booking block created",
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.Bool("virtual", b.IsVirtual))
	return b, nil
}

// DeleteBlock removes a block
func (s *Service) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return s.schedule.DeleteBlock(ctx, id)
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish booking events", zap.Error(err))
	}
}

func (s *Service) notifyOperator(ctx context.Context, title string, b *booking.Booking) {
	if s.notifier == nil {
		return
	}
	n := shared.Notification{
		Title: title,
		Fields: []shared.NotificationField{
			{Label: "이름", Value: b.Name},
			{Label: "연락처", Value: valueobject.FormatPhone(b.Phone)},
			{Label: "일시", Value: b.Date + " " + b.Time},
			{Label: "서비스", Value: b.Service},
		},
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("Booking notification failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}

func (s *Service) sendCustomerSMS(ctx context.Context, b *booking.Booking, text string) {
	if s.sms == nil {
		return
	}
	res, err := s.sms.SendMany(ctx, []messagingapp.OutboundMessage{{
		To:   b.Phone,
		Text: text,
		Type: messaging.TypeLMS,
	}})
	if err != nil {
		s.logger.Warn("Booking SMS failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
		return
	}
	if _, fail := res.Counts(); fail > 0 {
		s.logger.Warn("Booking SMS rejected", zap.String("booking_id", b.ID.String()))
	}
}
