package availability

import (
	"testing"

	"turnos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starts(ws []Window) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Start.String())
	}
	return out
}

func win(start, end string) Window {
	return Window{Start: MustClock(start), End: MustClock(end)}
}

func TestGenerateSlotsCountAndShape(t *testing.T) {
	cases := []struct {
		start, end string
		duration   int
	}{
		{"09:00", "12:00", 30},
		{"09:00", "17:00", 45},
		{"08:15", "08:59", 20},
		{"00:00", "23:59", 60},
		{"10:00", "10:30", 30},
		{"10:00", "10:29", 30},
	}
	for _, tc := range cases {
		dayStart, dayEnd := MustClock(tc.start), MustClock(tc.end)
		slots := GenerateSlots(dayStart, dayEnd, tc.duration, nil)

		want := int(dayEnd-dayStart) / tc.duration
		assert.Len(t, slots, want, "%s-%s/%d", tc.start, tc.end, tc.duration)
		for _, s := range slots {
			assert.Equal(t, tc.duration, s.Minutes())
		}
		if len(slots) > 0 {
			assert.Equal(t, dayStart, slots[0].Start)
			assert.LessOrEqual(t, int(slots[len(slots)-1].End), int(dayEnd))
		}
	}
}

func TestGenerateSlotsIsDeterministic(t *testing.T) {
	brk := win("13:00", "14:00")
	a := GenerateSlots(MustClock("09:00"), MustClock("17:00"), 25, &brk)
	b := GenerateSlots(MustClock("09:00"), MustClock("17:00"), 25, &brk)
	assert.Equal(t, a, b)
}

func TestGenerateSlotsSkipsBreak(t *testing.T) {
	brk := win("13:00", "14:00")
	slots := GenerateSlots(MustClock("09:00"), MustClock("17:00"), 30, &brk)

	assert.Len(t, slots, 14)
	for _, s := range slots {
		assert.False(t, s.Overlaps(brk), s.String())
	}
	assert.Contains(t, starts(slots), "12:30")
	assert.Contains(t, starts(slots), "14:00")
}

func TestGenerateSlotsKeepsCadenceAcrossBreak(t *testing.T) {
	// 09:40-10:20 overlaps the break and is skipped; the next slot starts at
	// 10:20, on the 40 minute grid, not at the break end.
	brk := win("09:50", "10:10")
	slots := GenerateSlots(MustClock("09:00"), MustClock("12:00"), 40, &brk)

	assert.Equal(t, []string{"09:00", "10:20", "11:00"}, starts(slots))
}

func TestGenerateSlotsDegenerateInput(t *testing.T) {
	assert.Empty(t, GenerateSlots(MustClock("09:00"), MustClock("12:00"), 0, nil))
	assert.Empty(t, GenerateSlots(MustClock("09:00"), MustClock("12:00"), -30, nil))
	assert.Empty(t, GenerateSlots(MustClock("12:00"), MustClock("09:00"), 30, nil))
	assert.Empty(t, GenerateSlots(MustClock("09:00"), MustClock("09:20"), 30, nil))
}

func TestIsOccupiedIsSymmetric(t *testing.T) {
	pairs := [][2]Window{
		{win("09:00", "09:30"), win("09:15", "09:45")},
		{win("09:00", "10:00"), win("09:15", "09:30")},
		{win("09:00", "09:30"), win("09:30", "10:00")},
		{win("09:00", "09:30"), win("11:00", "11:30")},
	}
	for _, p := range pairs {
		assert.Equal(t,
			IsOccupied(p[0], []Window{p[1]}),
			IsOccupied(p[1], []Window{p[0]}),
			"%s vs %s", p[0], p[1],
		)
	}
}

func TestIsOccupiedTouchingBoundaries(t *testing.T) {
	assert.False(t, IsOccupied(win("09:00", "09:30"), []Window{win("09:30", "10:00")}))
	assert.False(t, IsOccupied(win("09:30", "10:00"), []Window{win("09:00", "09:30")}))
	assert.True(t, IsOccupied(win("09:00", "09:31"), []Window{win("09:30", "10:00")}))
	assert.False(t, IsOccupied(win("09:00", "09:30"), nil))
}

func TestAnnotateMorningSchedule(t *testing.T) {
	sched, err := ParseSchedule(models.WorkingHours{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"})
	require.NoError(t, err)

	free := Annotate(sched.Slots(30), nil)
	require.Len(t, free, 6)
	assert.Equal(t, models.TimeSlot{StartTime: "09:00", EndTime: "09:30", IsAvailable: true}, free[0])
	assert.Equal(t, models.TimeSlot{StartTime: "11:30", EndTime: "12:00", IsAvailable: true}, free[5])
	for _, s := range free {
		assert.True(t, s.IsAvailable)
	}

	busy, err := BlockingWindows([]models.Appointment{
		{ID: "a1", StartTime: "10:00", EndTime: "10:30", Status: models.StatusConfirmed},
	})
	require.NoError(t, err)

	annotated := Annotate(sched.Slots(30), busy)
	for _, s := range annotated {
		if s.StartTime == "10:00" {
			assert.False(t, s.IsAvailable)
		} else {
			assert.True(t, s.IsAvailable, s.StartTime)
		}
	}
}

func TestBlockingWindowsIgnoresReleasedStatuses(t *testing.T) {
	appts := []models.Appointment{
		{ID: "p", StartTime: "09:00", EndTime: "09:30", Status: models.StatusPending},
		{ID: "c", StartTime: "10:00", EndTime: "10:30", Status: models.StatusConfirmed},
		{ID: "x", StartTime: "11:00", EndTime: "11:30", Status: models.StatusCancelled},
		{ID: "d", StartTime: "12:00", EndTime: "12:30", Status: models.StatusCompleted},
		{ID: "n", StartTime: "13:00", EndTime: "13:30", Status: models.StatusNoShow},
	}
	busy, err := BlockingWindows(appts)
	require.NoError(t, err)
	assert.Equal(t, []Window{win("09:00", "09:30"), win("10:00", "10:30")}, busy)

	assert.False(t, IsOccupied(win("11:00", "11:30"), busy))
}

func TestBlockingWindowsRejectsCorruptTimes(t *testing.T) {
	_, err := BlockingWindows([]models.Appointment{
		{ID: "bad", StartTime: "9am", EndTime: "10:00", Status: models.StatusConfirmed},
	})
	assert.ErrorContains(t, err, "bad")
}

func TestFindDaySchedule(t *testing.T) {
	hours := []models.WorkingHours{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: 3, StartTime: "", EndTime: "12:00"},
	}

	monday, _ := ParseDate("2024-06-03")
	got, ok := FindDaySchedule(hours, monday)
	require.True(t, ok)
	assert.Equal(t, "09:00", got.StartTime, "first match wins")

	sunday, _ := ParseDate("2024-06-02")
	_, ok = FindDaySchedule(hours, sunday)
	assert.False(t, ok)

	wednesday, _ := ParseDate("2024-06-05")
	_, ok = FindDaySchedule(hours, wednesday)
	assert.False(t, ok, "entry without start time")
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule(models.WorkingHours{StartTime: "09:00", EndTime: "17:00", BreakStart: "13:00", BreakEnd: "14:00"})
	require.NoError(t, err)
	require.NotNil(t, sched.Break)
	assert.Equal(t, win("13:00", "14:00"), *sched.Break)

	half, err := ParseSchedule(models.WorkingHours{StartTime: "09:00", EndTime: "17:00", BreakStart: "13:00"})
	require.NoError(t, err)
	assert.Nil(t, half.Break)

	inverted, err := ParseSchedule(models.WorkingHours{StartTime: "09:00", EndTime: "17:00", BreakStart: "14:00", BreakEnd: "13:00"})
	require.NoError(t, err)
	assert.Nil(t, inverted.Break)

	instant, err := ParseSchedule(models.WorkingHours{StartTime: "09:00", EndTime: "11:00", BreakStart: "10:15", BreakEnd: "10:15"})
	require.NoError(t, err)
	require.NotNil(t, instant.Break)
	var starts []string
	for _, w := range instant.Slots(30) {
		starts = append(starts, w.Start.String())
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:30"}, starts, "slot straddling 10:15 is skipped")
	assert.False(t, instant.Fits(win("10:00", "10:30")))
	assert.True(t, instant.Fits(win("10:15", "10:45")))

	_, err = ParseSchedule(models.WorkingHours{StartTime: "09:00", EndTime: "17:00", BreakStart: "lunch", BreakEnd: "14:00"})
	assert.Error(t, err)

	_, err = ParseSchedule(models.WorkingHours{StartTime: "17:00", EndTime: "09:00"})
	assert.Error(t, err)
}

func TestDayScheduleFits(t *testing.T) {
	brk := win("13:00", "14:00")
	sched := DaySchedule{Day: win("09:00", "17:00"), Break: &brk}

	assert.True(t, sched.Fits(win("09:00", "09:30")))
	assert.True(t, sched.Fits(win("16:30", "17:00")))
	assert.True(t, sched.Fits(win("12:30", "13:00")))
	assert.False(t, sched.Fits(win("08:30", "09:00")))
	assert.False(t, sched.Fits(win("16:45", "17:15")))
	assert.False(t, sched.Fits(win("12:45", "13:15")))
}
