package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"salon-booking/internal/model"
)

const (
	OpeningMinute     = 10 * 60
	ClosingMinute     = 18 * 60 // last bookable start, inclusive
	SlotStep          = 30
	BookingWindowDays = 45

	dateLayout = "2006-01-02"
)

type Slot struct {
	Time      string
	Available bool
}

// TimeSlots lists every bookable start time of a day as HH:MM.
func TimeSlots() []string {
	var out []string
	for m := OpeningMinute; m <= ClosingMinute; m += SlotStep {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

// ParseDate reads YYYY-MM-DD as midnight in loc, so no UTC day shift happens.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
}

func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// ParseSlot returns minutes from midnight for HH:MM.
func ParseSlot(slot string) (int, bool) {
	hh, mm, ok := strings.Cut(slot, ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// IsGridSlot reports whether slot is one of TimeSlots.
func IsGridSlot(slot string) bool {
	m, ok := ParseSlot(slot)
	if !ok || len(slot) != 5 {
		return false
	}
	return m >= OpeningMinute && m <= ClosingMinute && (m-OpeningMinute)%SlotStep == 0
}

// NextHalfHour rounds now up to the next :00 or :30 boundary, in minutes from midnight.
func NextHalfHour(now time.Time) int {
	if now.Minute() <= 29 {
		return now.Hour()*60 + 30
	}
	return (now.Hour() + 1) * 60
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return FormatDate(a) == FormatDate(b)
}

// SlotOpen applies the same-day cutoff: on today's date, slots before the next
// half hour are closed.
func SlotOpen(date time.Time, slot string, now time.Time) bool {
	m, ok := ParseSlot(slot)
	if !ok {
		return false
	}
	if sameDay(date, now.In(date.Location())) && m < NextHalfHour(now.In(date.Location())) {
		return false
	}
	return true
}

// Window returns the first and last bookable dates for now.
func Window(now time.Time) (time.Time, time.Time) {
	from := midnight(now)
	return from, from.AddDate(0, 0, BookingWindowDays)
}

func InWindow(date, now time.Time) bool {
	from, to := Window(now.In(date.Location()))
	return !date.Before(from) && !date.After(to)
}

// SlotStart combines a local date and an HH:MM slot.
func SlotStart(date time.Time, slot string) (time.Time, bool) {
	m, ok := ParseSlot(slot)
	if !ok {
		return time.Time{}, false
	}
	d := midnight(date)
	return time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, d.Location()), true
}

// Grid marks every slot of date as available or not. With a stylist chosen, a
// slot is taken when that stylist overlaps it; otherwise it is taken when every
// eligible stylist overlaps it. Busy rows of other stylists are ignored.
func Grid(date, now time.Time, length time.Duration, busy []model.BusySlot, stylistID string, eligible map[string]bool) []Slot {
	slots := TimeSlots()
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		open := SlotOpen(date, s, now)
		if open {
			start, _ := SlotStart(date, s)
			open = !taken(start, start.Add(length), busy, stylistID, eligible)
		}
		out = append(out, Slot{Time: s, Available: open})
	}
	return out
}

// Eligible is the set of stylist ids that can take an "any stylist" booking.
func Eligible(list []model.Stylist) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, st := range Available(list) {
		out[st.ID] = true
	}
	return out
}

func taken(start, end time.Time, busy []model.BusySlot, stylistID string, eligible map[string]bool) bool {
	if stylistID == "" && len(eligible) == 0 {
		return true
	}
	occupied := map[string]bool{}
	for _, b := range busy {
		if !b.Start.Before(end) || !b.End.After(start) {
			continue
		}
		if stylistID != "" {
			if b.StylistID == stylistID {
				return true
			}
			continue
		}
		if eligible[b.StylistID] {
			occupied[b.StylistID] = true
		}
	}
	return stylistID == "" && len(occupied) >= len(eligible)
}
