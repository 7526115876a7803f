package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSlotDuration is the granularity of generated booking slots.
const DefaultSlotDuration = 30 * time.Minute

// WorkingWindow is the stretch of one calendar date a staff member can take
// bookings in. Available=false means the staff member does not work that
// date; Start and End are meaningless in that case.
type WorkingWindow struct {
	StaffID   uuid.UUID
	Date      time.Time
	Start     time.Time
	End       time.Time
	Available bool
}

// Slot is a derived, fixed-length candidate booking window. It is never
// persisted.
type Slot struct {
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// TimeSpan is a half-open interval [Start, End) of occupied staff time.
type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch at a boundary do
// not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ResolveWindow determines the working window for a staff member on a date
// from the weekly pattern, with an optional per-date override taking
// precedence. It is a pure function of its inputs.
func ResolveWindow(staff Staff, override *ScheduleOverride, date time.Time) (WorkingWindow, error) {
	day := DateOf(date)
	w := WorkingWindow{StaffID: staff.ID, Date: day}

	if override != nil {
		if !override.Available {
			return w, nil
		}
		start, err := ParseClockTime(override.StartTime)
		if err != nil {
			return WorkingWindow{}, err
		}
		end, err := ParseClockTime(override.EndTime)
		if err != nil {
			return WorkingWindow{}, err
		}
		w.Start = start.At(day)
		w.End = end.At(day)
		w.Available = w.Start.Before(w.End)
		return w, nil
	}

	if !staff.WorksOn(day) {
		return w, nil
	}

	start, err := ParseClockTime(staff.StartTime)
	if err != nil {
		return WorkingWindow{}, err
	}
	end, err := ParseClockTime(staff.EndTime)
	if err != nil {
		return WorkingWindow{}, err
	}
	w.Start = start.At(day)
	w.End = end.At(day)
	w.Available = w.Start.Before(w.End)
	return w, nil
}

// GenerateSlots walks the window in fixed slotDuration steps and keeps every
// step that overlaps none of the busy spans. Slots are chronological and the
// walk stops once a full slot no longer fits before the window end. Busy
// spans must already be filtered to blocking statuses.
func GenerateSlots(window WorkingWindow, busy []TimeSpan, slotDuration time.Duration) []Slot {
	if !window.Available || slotDuration <= 0 {
		return nil
	}

	var slots []Slot
	for cur := window.Start; !cur.Add(slotDuration).After(window.End); cur = cur.Add(slotDuration) {
		end := cur.Add(slotDuration)
		if overlapsAny(cur, end, busy) {
			continue
		}
		slots = append(slots, Slot{Start: cur, End: end, Available: true})
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []TimeSpan) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

// BusySpans projects appointments onto their occupied time spans, dropping
// any whose status no longer blocks.
func BusySpans(appts []Appointment) []TimeSpan {
	spans := make([]TimeSpan, 0, len(appts))
	for _, a := range appts {
		if !a.Status.Blocks() {
			continue
		}
		spans = append(spans, TimeSpan{Start: a.StartAt, End: a.EndAt})
	}
	return spans
}
