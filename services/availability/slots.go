package availability

import (
	"fmt"
	"time"

	"turnos/models"
)

// GenerateSlots walks the day from dayStart in fixed steps of duration minutes
// and returns every [cursor, cursor+duration) that ends by dayEnd and does not
// overlap brk. The cursor always advances by duration, including past skipped
// slots, so slots after a break stay aligned to dayStart rather than breakEnd.
// A non-positive duration or an empty day yields no slots.
func GenerateSlots(dayStart, dayEnd Clock, duration int, brk *Window) []Window {
	if duration <= 0 || dayEnd <= dayStart {
		return nil
	}
	slots := make([]Window, 0, int(dayEnd-dayStart)/duration)
	for cursor := dayStart; cursor.Add(duration) <= dayEnd; cursor = cursor.Add(duration) {
		slot := Window{Start: cursor, End: cursor.Add(duration)}
		if brk != nil && slot.Overlaps(*brk) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// IsOccupied reports whether slot overlaps any of existing.
func IsOccupied(slot Window, existing []Window) bool {
	for _, e := range existing {
		if slot.Overlaps(e) {
			return true
		}
	}
	return false
}

// Annotate marks each candidate available unless an existing window overlaps it.
func Annotate(candidates []Window, existing []Window) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.TimeSlot{
			StartTime:   c.Start.String(),
			EndTime:     c.End.String(),
			IsAvailable: !IsOccupied(c, existing),
		})
	}
	return out
}

// BlockingWindows keeps the appointments that hold their slot (pending or
// confirmed) and returns their time ranges.
func BlockingWindows(appts []models.Appointment) ([]Window, error) {
	out := make([]Window, 0, len(appts))
	for _, a := range appts {
		if !a.Status.HoldsSlot() {
			continue
		}
		w, err := ParseWindow(a.StartTime, a.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %s has an unreadable time range: %w", a.ID, err)
		}
		out = append(out, w)
	}
	return out, nil
}

// FindDaySchedule returns the first entry for date's weekday (0 = Sunday).
// An entry missing its start or end time counts as no schedule.
func FindDaySchedule(hours []models.WorkingHours, date time.Time) (models.WorkingHours, bool) {
	day := int(date.Weekday())
	for _, h := range hours {
		if h.DayOfWeek != day {
			continue
		}
		if h.StartTime == "" || h.EndTime == "" {
			return models.WorkingHours{}, false
		}
		return h, true
	}
	return models.WorkingHours{}, false
}

// DaySchedule is a parsed WorkingHours entry.
type DaySchedule struct {
	Day   Window
	Break *Window
}

// ParseSchedule parses h. A break with only one bound set, or one that ends
// before it starts, is ignored. A zero-length break still blocks the slot
// that straddles it.
func ParseSchedule(h models.WorkingHours) (DaySchedule, error) {
	day, err := ParseWindow(h.StartTime, h.EndTime)
	if err != nil {
		return DaySchedule{}, err
	}
	sched := DaySchedule{Day: day}
	if h.HasBreak() {
		bs, err := ParseClock(h.BreakStart)
		if err != nil {
			return DaySchedule{}, err
		}
		be, err := ParseClock(h.BreakEnd)
		if err != nil {
			return DaySchedule{}, err
		}
		if be >= bs {
			sched.Break = &Window{Start: bs, End: be}
		}
	}
	return sched, nil
}

// Slots generates the candidate slots of the schedule.
func (s DaySchedule) Slots(duration int) []Window {
	return GenerateSlots(s.Day.Start, s.Day.End, duration, s.Break)
}

// Fits reports whether w lies within working hours and clear of the break.
func (s DaySchedule) Fits(w Window) bool {
	if !s.Day.Contains(w) {
		return false
	}
	return s.Break == nil || !w.Overlaps(*s.Break)
}
