package booking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/masgolf/backend/internal/domain/booking"
)

// reminderLead is how long before the booking the reminder goes out
const reminderLeadHours = 2

// spokenClock renders "14:00" as "오후 2시" and "09:30" as "오전 9시 30분"
func spokenClock(hhmm string) string {
	parts := strings.SplitN(hhmm, ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return hhmm
	}
	period := "오전"
	if h >= 12 {
		period = "오후"
	}
	display := h
	switch {
	case h > 12:
		display = h - 12
	case h == 0:
		display = 12
	}
	out := fmt.Sprintf("%s %d시", period, display)
	if len(parts) == 2 && parts[1] != "00" {
		out += " " + strings.TrimLeft(parts[1], "0") + "분"
	}
	return out
}

func customerName(b *booking.Booking) string {
	if b.Name == "" {
		return "고객"
	}
	return b.Name
}

func receivedText(b *booking.Booking) string {
	return fmt.Sprintf("[마쓰구골프] %s님, %s %s 시타 예약이 접수되었습니다. 확정되면 다시 안내드리겠습니다.",
		customerName(b), b.Date, spokenClock(b.Time))
}

func confirmedText(b *booking.Booking) string {
	return fmt.Sprintf("[마쓰구골프] %s님, %s %s 시타 예약이 확정되었습니다.\n약도 안내: https://www.masgolf.co.kr/contact",
		customerName(b), b.Date, spokenClock(b.Time))
}

func reminderText(b *booking.Booking, storePhone string) string {
	return fmt.Sprintf(`%s 고객님, 안녕하세요! 마쓰구골프입니다.
오늘은 고객님의 드라이버 시타 서비스 예약일입니다.

▶ 예약시간: %s
▶ 약도 안내: https://www.masgolf.co.kr/contact

일정 조정이 필요하시면 언제든지 연락 주세요.
TEL %s`, customerName(b), spokenClock(b.Time), storePhone)
}
