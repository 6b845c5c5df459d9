package booking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
)

// Location is the store's time zone. Booking dates and times are wall-clock values in it.
var Location = time.FixedZone("KST", 9*60*60)

const dateLayout = "2006-01-02"

// Restriction explains why a whole day is unavailable
type Restriction string

const (
	RestrictionSameDay    Restriction = "same_day_disabled"
	RestrictionPastDate   Restriction = "past_date"
	RestrictionWeekend    Restriction = "weekend_disabled"
	RestrictionMaxAdvance Restriction = "max_advance_days"
)

// fallback operating window when a weekday has no hours configured
const (
	fallbackOpen  = 9 * 60
	fallbackClose = 18 * 60
)

// DaySchedule is everything stored for one date that affects availability
type DaySchedule struct {
	Hours    []Hours
	Bookings []Booking
	Blocks   []Block
}

// Availability is the bookable-slot view of a single date
type Availability struct {
	Date            string      `json:"date"`
	Duration        int         `json:"duration"`
	AvailableTimes  []string    `json:"available_times"`
	VirtualTimes    []string    `json:"virtual_times"`
	BookedTimes     []string    `json:"booked_times"`
	BlockedTimes    []string    `json:"blocked_times"`
	TotalBookings   int         `json:"total_bookings"`
	TotalVirtual    int         `json:"total_virtual"`
	Restriction     Restriction `json:"restriction,omitempty"`
	Message         string      `json:"message,omitempty"`
	ShowCallMessage bool        `json:"show_call_message"`
	CallMessageText string      `json:"call_message_text,omitempty"`
}

// ParseDate parses YYYY-MM-DD as midnight in the store's time zone
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, Location)
	if err != nil {
		return time.Time{}, shared.InvalidInput("date must be YYYY-MM-DD")
	}
	return d, nil
}

// FormatDate formats t as YYYY-MM-DD in the store's time zone
func FormatDate(t time.Time) string {
	return t.In(Location).Format(dateLayout)
}

// Today returns midnight of now's date in the store's time zone
func Today(now time.Time) time.Time {
	y, m, d := now.In(Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Location)
}

// NormalizeClock accepts "11", "11:00" or "11:00:00" and returns "11:00"
func NormalizeClock(s string) (string, error) {
	m, err := minutesOf(s)
	if err != nil {
		return "", err
	}
	return clockOf(m), nil
}

func minutesOf(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return 0, shared.InvalidInput("time must be HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, shared.InvalidInput("time must be HH:MM")
	}
	m := 0
	if len(parts) > 1 {
		if m, err = strconv.Atoi(parts[1]); err != nil {
			return 0, shared.InvalidInput("time must be HH:MM")
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, shared.InvalidInput("time out of range")
	}
	return h*60 + m, nil
}

func clockOf(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func daysBetween(from, to time.Time) int {
	// both are local midnights; rounding absorbs DST-free offsets
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayRestriction reports whether the settings rule out the whole day
func DayRestriction(s Settings, day, now time.Time) (Restriction, string) {
	today := Today(now)
	diff := daysBetween(today, day)
	maxDays := s.MaxAdvanceDays
	if maxDays <= 0 {
		maxDays = 14
	}

	switch {
	case s.DisableSameDay && diff == 0:
		return RestrictionSameDay, "당일 예약은 불가합니다. 내일 이후 날짜를 선택해주세요."
	case diff < 0:
		return RestrictionPastDate, "과거 날짜는 선택할 수 없습니다."
	case s.DisableWeekend && isWeekend(day):
		if s.ShowCallMessage {
			return RestrictionWeekend, "원하시는 시간에 예약이 어려우신가요?"
		}
		return RestrictionWeekend, "주말 예약은 불가합니다. 평일을 선택해주세요."
	case diff > maxDays:
		if s.ShowCallMessage {
			return RestrictionMaxAdvance, "원하시는 시간에 예약이 어려우신가요?"
		}
		return RestrictionMaxAdvance, fmt.Sprintf("예약은 %d일 이내만 가능합니다.", maxDays)
	}
	return "", ""
}

type interval struct{ start, end int }

func (iv interval) overlaps(start, end int) bool {
	return start < iv.end && end > iv.start
}

func (iv interval) contains(m int) bool {
	return m >= iv.start && m < iv.end
}

// Calculate returns the bookable start times of date for a booking of the given
// duration. A slot is offered when it fits its operating window, does not overlap
// a pending/confirmed booking or a real block, and (today only) starts at least
// MinAdvanceHours after now.
func Calculate(s Settings, date string, duration int, now time.Time, day DaySchedule) (Availability, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Availability{}, err
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	out := Availability{
		Date:            date,
		Duration:        duration,
		AvailableTimes:  []string{},
		VirtualTimes:    []string{},
		BookedTimes:     []string{},
		BlockedTimes:    []string{},
		ShowCallMessage: s.ShowCallMessage,
		CallMessageText: s.CallMessageText,
	}

	if r, msg := DayRestriction(s, d, now); r != "" {
		out.Restriction = r
		out.Message = msg
		return out, nil
	}

	var booked, blocked, virtual []interval
	var bookedTimes, virtualTimes []string
	for i := range day.Bookings {
		b := &day.Bookings[i]
		if b.Date != date || !b.Status.Occupies() {
			continue
		}
		start, end, err := b.span()
		if err != nil {
			continue
		}
		booked = append(booked, interval{start, end})
		bookedTimes = append(bookedTimes, clockOf(start))
	}
	out.TotalBookings = len(booked)

	for _, blk := range day.Blocks {
		start, err := minutesOf(blk.Time)
		if err != nil {
			continue
		}
		dur := blk.Duration
		if dur <= 0 {
			dur = DefaultDuration
		}
		iv := interval{start, start + dur}
		if blk.IsVirtual {
			virtual = append(virtual, iv)
			virtualTimes = append(virtualTimes, clockOf(start))
		} else {
			blocked = append(blocked, iv)
		}
	}

	isToday := daysBetween(Today(now), d) == 0
	earliest := now.Add(time.Duration(s.MinAdvanceHours) * time.Hour)

	offer := func(start, windowEnd int) bool {
		end := start + duration
		if end > windowEnd {
			return false
		}
		if isToday && d.Add(time.Duration(start)*time.Minute).Before(earliest) {
			return false
		}
		for _, iv := range booked {
			if iv.overlaps(start, end) {
				return false
			}
		}
		for _, iv := range blocked {
			if iv.contains(start) || iv.overlaps(start, end) {
				return false
			}
		}
		return true
	}

	weekday := int(d.Weekday())
	var windows []interval
	for _, h := range day.Hours {
		if h.DayOfWeek != weekday || !h.IsAvailable {
			continue
		}
		start, err1 := minutesOf(h.StartTime)
		end, err2 := minutesOf(h.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		windows = append(windows, interval{start, end})
	}

	var available []string
	if len(windows) > 0 {
		for _, w := range windows {
			if offer(w.start, w.end) {
				available = append(available, clockOf(w.start))
			}
		}
	} else {
		for start := fallbackOpen; start < fallbackClose; start += 60 {
			if offer(start, fallbackClose) {
				available = append(available, clockOf(start))
			}
		}
	}

	out.AvailableTimes = sortedUnique(available, nil)
	taken := toSet(out.AvailableTimes)
	out.VirtualTimes = sortedUnique(virtualTimes, taken)
	out.BookedTimes = sortedUnique(bookedTimes, taken)
	out.TotalVirtual = len(out.VirtualTimes)

	var blockedTimes []string
	for _, w := range windows {
		if taken[clockOf(w.start)] {
			continue
		}
		for _, iv := range blocked {
			if iv.contains(w.start) {
				blockedTimes = append(blockedTimes, clockOf(w.start))
				break
			}
		}
	}
	out.BlockedTimes = sortedUnique(blockedTimes, nil)

	return out, nil
}

// SearchWindow returns the first and last dates NextAvailable scans
func SearchWindow(s Settings, from *time.Time, now time.Time) (first, last time.Time) {
	today := Today(now)
	maxDays := s.MaxAdvanceDays
	if maxDays <= 0 {
		maxDays = 14
	}
	last = today.AddDate(0, 0, maxDays)

	switch {
	case from != nil:
		first = Today(*from)
	case s.DisableSameDay:
		first = today.AddDate(0, 0, 1)
	default:
		first = today
		if earliest := Today(now.Add(time.Duration(s.MinAdvanceHours) * time.Hour)); earliest.After(first) {
			first = earliest
		}
	}
	return first, last
}

// SkipDay reports whether NextAvailable should not even look at day
func SkipDay(s Settings, day time.Time) bool {
	return s.DisableWeekend && isWeekend(day)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

// sortedUnique sorts HH:MM values, dropping duplicates and anything in exclude
func sortedUnique(items []string, exclude map[string]bool) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] || exclude[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	// zero-padded HH:MM sorts lexically
	sort.Strings(out)
	return out
}
