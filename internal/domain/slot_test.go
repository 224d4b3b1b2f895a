package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/BRB-ScheduleService/pkg/ptr"
	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

// Понедельник
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func testEmployee() *Employee {
	return &Employee{
		ID:     1,
		Name:   "Иван",
		Active: true,
		ScheduleRules: []ScheduleRule{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00", Active: true},
		},
		Breaks: []Break{
			{Weekday: ptr.Ptr(1), StartTime: "13:00", EndTime: "14:00", Active: true},
		},
	}
}

func TestResolveSlot_SchedulePriority(t *testing.T) {
	emp := testEmployee()

	tests := []struct {
		name string
		slot string
		want SlotVerdict
	}{
		{name: "first working slot", slot: "09:00", want: SlotAvailable},
		{name: "before schedule", slot: "08:50", want: SlotBlockedOutOfSchedule},
		{name: "inside break", slot: "13:00", want: SlotBlockedBreak},
		{name: "last break slot", slot: "13:50", want: SlotBlockedBreak},
		{name: "break end is exclusive", slot: "14:00", want: SlotAvailable},
		{name: "schedule end is exclusive", slot: "18:00", want: SlotBlockedOutOfSchedule},
		{name: "last working slot", slot: "17:50", want: SlotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSlot(emp, nil, monday, ts(t, tt.slot))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSlot_NoRuleForWeekday(t *testing.T) {
	emp := testEmployee()
	sunday := monday.AddDate(0, 0, -1)

	got := ResolveSlot(emp, nil, sunday, ts(t, "10:00"))
	assert.Equal(t, SlotBlockedOutOfSchedule, got)
}

func TestResolveSlot_ExceptionOverridesEverything(t *testing.T) {
	emp := testEmployee()
	exc := &AvailabilityException{
		EmployeeID: emp.ID,
		Date:       monday,
		Ranges: []TimeRange{
			{StartTime: "13:00", EndTime: "15:00"},
		},
	}

	// Перерыв 13:00-14:00 игнорируется: исключение разрешает слот
	assert.Equal(t, SlotAvailable, ResolveSlot(emp, exc, monday, ts(t, "13:30")))

	// Рабочее по расписанию время вне диапазонов исключения - заблокировано
	assert.Equal(t, SlotBlockedException, ResolveSlot(emp, exc, monday, ts(t, "10:00")))

	// Пустые диапазоны блокируют весь день
	empty := &AvailabilityException{EmployeeID: emp.ID, Date: monday, Ranges: []TimeRange{}}
	assert.Equal(t, SlotBlockedException, ResolveSlot(emp, empty, monday, ts(t, "12:00")))
}

func TestResolveSlot_OneOffBreak(t *testing.T) {
	date := monday
	emp := &Employee{
		ID:     2,
		Active: true,
		ScheduleRules: []ScheduleRule{
			{Weekday: 1, StartTime: "09:00", EndTime: "18:00", Active: true},
		},
		Breaks: []Break{
			{Date: &date, StartTime: "10:00", EndTime: "10:30", Active: true},
		},
	}

	assert.Equal(t, SlotBlockedBreak, ResolveSlot(emp, nil, monday, ts(t, "10:10")))

	// Тот же день недели неделей позже - разовый перерыв не действует
	nextMonday := monday.AddDate(0, 0, 7)
	assert.Equal(t, SlotAvailable, ResolveSlot(emp, nil, nextMonday, ts(t, "10:10")))
}

func TestResolveSlot_InactiveBreakIgnored(t *testing.T) {
	emp := testEmployee()
	emp.Breaks[0].Active = false

	assert.Equal(t, SlotAvailable, ResolveSlot(emp, nil, monday, ts(t, "13:30")))
}

func TestGridBounds(t *testing.T) {
	t.Run("no employees falls back to default window", func(t *testing.T) {
		start, end := GridBounds(nil)
		assert.Equal(t, "08:00", start.String())
		assert.Equal(t, "20:00", end.String())
	})

	t.Run("earliest active rule start aligned down", func(t *testing.T) {
		employees := []*Employee{
			{Active: true, ScheduleRules: []ScheduleRule{
				{StartTime: "09:00", EndTime: "18:00", Active: true},
			}},
			{Active: true, ScheduleRules: []ScheduleRule{
				{StartTime: "07:45", EndTime: "16:00", Active: true},
			}},
		}

		start, end := GridBounds(employees)
		assert.Equal(t, "07:40", start.String())
		assert.Equal(t, "24:00", end.String())
	})

	t.Run("inactive rules and employees ignored", func(t *testing.T) {
		employees := []*Employee{
			{Active: false, ScheduleRules: []ScheduleRule{
				{StartTime: "06:00", EndTime: "12:00", Active: true},
			}},
			{Active: true, ScheduleRules: []ScheduleRule{
				{StartTime: "05:00", EndTime: "12:00", Active: false},
			}},
		}

		start, end := GridBounds(employees)
		assert.Equal(t, "08:00", start.String())
		assert.Equal(t, "20:00", end.String())
	})
}

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots("09:00", "10:00")
	require.Len(t, slots, 6)
	assert.Equal(t, "09:00", slots[0].String())
	assert.Equal(t, "09:50", slots[5].String())

	day := GenerateDaySlots()
	assert.Len(t, day, 144)
	assert.Equal(t, "00:00", day[0].String())
	assert.Equal(t, "23:50", day[143].String())
}

func TestAlignDown(t *testing.T) {
	assert.Equal(t, "09:00", AlignDown("09:05").String())
	assert.Equal(t, "09:10", AlignDown("09:10").String())
	assert.True(t, IsAligned("14:30"))
	assert.False(t, IsAligned("14:35"))
}

func TestCollapseToRanges(t *testing.T) {
	t.Run("adjacent slots merge", func(t *testing.T) {
		slots := []types.TimeString{"09:00", "09:10", "09:20", "11:00", "11:10"}
		ranges := CollapseToRanges(slots)

		require.Len(t, ranges, 2)
		assert.Equal(t, TimeRange{StartTime: "09:00", EndTime: "09:30"}, ranges[0])
		assert.Equal(t, TimeRange{StartTime: "11:00", EndTime: "11:20"}, ranges[1])
	})

	t.Run("unsorted input", func(t *testing.T) {
		slots := []types.TimeString{"11:00", "09:10", "09:00"}
		ranges := CollapseToRanges(slots)

		require.Len(t, ranges, 2)
		assert.Equal(t, TimeRange{StartTime: "09:00", EndTime: "09:20"}, ranges[0])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, CollapseToRanges(nil))
	})

	t.Run("round trip through expand", func(t *testing.T) {
		slots := []types.TimeString{"08:00", "08:10", "08:20", "10:00", "23:50"}
		got := ExpandRanges(CollapseToRanges(slots))
		assert.Equal(t, slots, got)
	})
}

func TestNextWeekday(t *testing.T) {
	// 1 сентября 2026 - вторник
	base := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	next := NextWeekday(base, time.Monday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 7, next.Day())
}
