package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testStaff(workingDays, start, end string) Staff {
	return Staff{
		ID:          uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		WorkingDays: workingDays,
		StartTime:   start,
		EndTime:     end,
		Active:      true,
	}
}

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("09:30")
	if err != nil {
		t.Fatalf("ParseClockTime error: %v", err)
	}
	if ct.Hour != 9 || ct.Minute != 30 {
		t.Fatalf("clock time = %v, want 09:30", ct)
	}

	for _, bad := range []string{"", "9", "25:00", "09:61", "noon"} {
		if _, err := ParseClockTime(bad); !errors.Is(err, ErrInvalidClockTime) {
			t.Fatalf("ParseClockTime(%q) error = %v, want ErrInvalidClockTime", bad, err)
		}
	}
}

func TestResolveWindow_WeekdayEligibility(t *testing.T) {
	staff := testStaff("Tue,Wed", "09:00", "17:00")

	// 2026-03-02 is a Monday.
	monday := day(2026, 3, 2)
	w, err := ResolveWindow(staff, nil, monday)
	if err != nil {
		t.Fatalf("ResolveWindow error: %v", err)
	}
	if w.Available {
		t.Fatalf("expected not working on Monday")
	}

	tuesday := day(2026, 3, 3)
	w, err = ResolveWindow(staff, nil, tuesday)
	if err != nil {
		t.Fatalf("ResolveWindow error: %v", err)
	}
	if !w.Available {
		t.Fatalf("expected working on Tuesday")
	}
	if !w.Start.Equal(tuesday.Add(9*time.Hour)) || !w.End.Equal(tuesday.Add(17*time.Hour)) {
		t.Fatalf("window = [%v, %v], want [09:00, 17:00]", w.Start, w.End)
	}
}

func TestResolveWindow_OverrideTakesPrecedence(t *testing.T) {
	staff := testStaff("Mon,Tue,Wed,Thu,Fri", "09:00", "17:00")
	tuesday := day(2026, 3, 3)

	t.Run("day off", func(t *testing.T) {
		w, err := ResolveWindow(staff, &ScheduleOverride{Date: tuesday, Available: false}, tuesday)
		if err != nil {
			t.Fatalf("ResolveWindow error: %v", err)
		}
		if w.Available {
			t.Fatalf("override day off should win over the weekly pattern")
		}
	})

	t.Run("shifted hours", func(t *testing.T) {
		ov := &ScheduleOverride{Date: tuesday, StartTime: "12:00", EndTime: "15:00", Available: true}
		w, err := ResolveWindow(staff, ov, tuesday)
		if err != nil {
			t.Fatalf("ResolveWindow error: %v", err)
		}
		if !w.Available {
			t.Fatalf("expected available window from override")
		}
		if !w.Start.Equal(tuesday.Add(12*time.Hour)) || !w.End.Equal(tuesday.Add(15*time.Hour)) {
			t.Fatalf("window = [%v, %v], want [12:00, 15:00]", w.Start, w.End)
		}
	})

	t.Run("override on non-working weekday", func(t *testing.T) {
		offDay := testStaff("Tue,Wed", "09:00", "17:00")
		// Monday is outside the weekly pattern but the override opens it.
		monday := day(2026, 3, 2)
		ov := &ScheduleOverride{Date: monday, StartTime: "10:00", EndTime: "12:00", Available: true}
		w, err := ResolveWindow(offDay, ov, monday)
		if err != nil {
			t.Fatalf("ResolveWindow error: %v", err)
		}
		if !w.Available {
			t.Fatalf("expected override to open a non-working weekday")
		}
	})
}

func TestOverlaps_HalfOpen(t *testing.T) {
	base := day(2026, 3, 3)
	at := func(h, m int) time.Time { return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	cases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"disjoint", at(9, 0), at(9, 30), at(10, 0), at(10, 30), false},
		{"touching end to start", at(9, 0), at(9, 30), at(9, 30), at(10, 0), false},
		{"touching start to end", at(9, 30), at(10, 0), at(9, 0), at(9, 30), false},
		{"partial overlap", at(9, 45), at(10, 15), at(10, 0), at(10, 30), true},
		{"containment", at(9, 0), at(11, 0), at(9, 30), at(10, 0), true},
		{"identical", at(9, 0), at(9, 30), at(9, 0), at(9, 30), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			// The primitive is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGenerateSlots_BoundaryTouchingCommitment(t *testing.T) {
	base := day(2026, 3, 3)
	window := WorkingWindow{
		Date:      base,
		Start:     base.Add(9 * time.Hour),
		End:       base.Add(10 * time.Hour),
		Available: true,
	}
	busy := []TimeSpan{{Start: base.Add(9 * time.Hour), End: base.Add(9*time.Hour + 30*time.Minute)}}

	slots := GenerateSlots(window, busy, DefaultSlotDuration)
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if !slots[0].Start.Equal(base.Add(9*time.Hour + 30*time.Minute)) {
		t.Fatalf("slot start = %v, want 09:30", slots[0].Start)
	}
	if !slots[0].End.Equal(base.Add(10 * time.Hour)) {
		t.Fatalf("slot end = %v, want 10:00", slots[0].End)
	}
}

func TestGenerateSlots_UnavailableWindowIsEmpty(t *testing.T) {
	if slots := GenerateSlots(WorkingWindow{Available: false}, nil, DefaultSlotDuration); len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(slots))
	}
}

func TestGenerateSlots_TrailingPartialSlotDropped(t *testing.T) {
	base := day(2026, 3, 3)
	window := WorkingWindow{
		Date:      base,
		Start:     base.Add(9 * time.Hour),
		End:       base.Add(9*time.Hour + 50*time.Minute),
		Available: true,
	}

	slots := GenerateSlots(window, nil, DefaultSlotDuration)
	// Only 09:00-09:30 fits; 09:30-10:00 would run past the window end.
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
}

func TestGenerateSlots_ChronologicalAcrossGaps(t *testing.T) {
	base := day(2026, 3, 3)
	window := WorkingWindow{
		Date:      base,
		Start:     base.Add(9 * time.Hour),
		End:       base.Add(11 * time.Hour),
		Available: true,
	}
	busy := []TimeSpan{
		{Start: base.Add(9*time.Hour + 30*time.Minute), End: base.Add(10 * time.Hour)},
	}

	slots := GenerateSlots(window, busy, DefaultSlotDuration)
	if len(slots) != 3 {
		t.Fatalf("len(slots) = %d, want 3", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].Start.Before(slots[i].Start) {
			t.Fatalf("slots out of order at %d: %v >= %v", i, slots[i-1].Start, slots[i].Start)
		}
	}
}

func TestBusySpans_DropsCancelled(t *testing.T) {
	base := day(2026, 3, 3)
	appts := []Appointment{
		{StartAt: base.Add(9 * time.Hour), EndAt: base.Add(10 * time.Hour), Status: StatusCancelled},
		{StartAt: base.Add(10 * time.Hour), EndAt: base.Add(11 * time.Hour), Status: StatusCompleted},
		{StartAt: base.Add(11 * time.Hour), EndAt: base.Add(12 * time.Hour), Status: StatusNoShow},
		{StartAt: base.Add(12 * time.Hour), EndAt: base.Add(13 * time.Hour), Status: StatusScheduled},
	}

	spans := BusySpans(appts)
	// Completed and no-show still block; only the cancellation frees time.
	if len(spans) != 3 {
		t.Fatalf("len(spans) = %d, want 3", len(spans))
	}
	if !spans[0].Start.Equal(base.Add(10 * time.Hour)) {
		t.Fatalf("first span start = %v, want 10:00", spans[0].Start)
	}
}

func TestStaffWorksOn_TokenHandling(t *testing.T) {
	staff := testStaff("mon, TUE ,Wed", "09:00", "17:00")

	if !staff.WorksOn(day(2026, 3, 2)) { // Monday
		t.Fatalf("expected lowercase token to match")
	}
	if !staff.WorksOn(day(2026, 3, 3)) { // Tuesday
		t.Fatalf("expected padded uppercase token to match")
	}
	if staff.WorksOn(day(2026, 3, 5)) { // Thursday
		t.Fatalf("Thursday is not in the working set")
	}
}
