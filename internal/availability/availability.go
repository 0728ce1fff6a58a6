package availability

import (
	"context"
	"time"
)

// Slot is a bookable arrival window on a given day.
type Slot struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
}

// Lookup returns the bookable slots for a date. An empty slice means no
// availability that day; it is not an error.
type Lookup interface {
	SlotsFor(ctx context.Context, date time.Time) ([]Slot, error)
}

// minLeadTime is how far in the future a same-day slot must start to be
// offered. Crews cannot be dispatched faster than this.
const minLeadTime = 90 * time.Minute

// StaticSchedule is a Lookup derived from fixed open hours. Sundays are
// closed; same-day slots that start too soon are filtered out.
type StaticSchedule struct {
	openHour    int
	closeHour   int
	slotMinutes int
	now         func() time.Time
}

// NewStaticSchedule builds a schedule offering slots every slotMinutes from
// openHour up to (but not including) closeHour.
func NewStaticSchedule(openHour, closeHour, slotMinutes int) *StaticSchedule {
	if slotMinutes <= 0 {
		slotMinutes = 120
	}
	return &StaticSchedule{
		openHour:    openHour,
		closeHour:   closeHour,
		slotMinutes: slotMinutes,
		now:         time.Now,
	}
}

var _ Lookup = (*StaticSchedule)(nil)

// SlotsFor returns the open arrival windows for date, in chronological order.
func (s *StaticSchedule) SlotsFor(_ context.Context, date time.Time) ([]Slot, error) {
	if date.Weekday() == time.Sunday {
		return nil, nil
	}

	now := s.now()
	sameDay := sameDate(date, now)

	var slots []Slot
	start := time.Date(date.Year(), date.Month(), date.Day(), s.openHour, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), s.closeHour, 0, 0, 0, date.Location())

	for t := start; t.Before(end); t = t.Add(time.Duration(s.slotMinutes) * time.Minute) {
		if sameDay && t.Before(now.Add(minLeadTime)) {
			continue
		}
		slots = append(slots, Slot{Start: t, Label: formatSlot(t)})
	}
	return slots, nil
}

func formatSlot(t time.Time) string {
	return t.Format("3:04 PM")
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
