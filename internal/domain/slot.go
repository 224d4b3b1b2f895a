package domain

import (
	"sort"
	"time"

	"github.com/m04kA/BRB-ScheduleService/pkg/types"
)

// SlotVerdict is the availability verdict for a single 10-minute slot
type SlotVerdict string

const (
	SlotAvailable           SlotVerdict = "available"
	SlotBlockedBreak        SlotVerdict = "blocked_break"
	SlotBlockedOutOfSchedule SlotVerdict = "blocked_out_of_schedule"
	SlotBlockedException    SlotVerdict = "blocked_exception"
)

// IsAvailable returns true for the AVAILABLE verdict
func (v SlotVerdict) IsAvailable() bool {
	return v == SlotAvailable
}

// ResolveSlot вычисляет вердикт доступности слота для сотрудника.
// Строгий порядок приоритетов:
//  1. Персистентное исключение на дату - единственный источник истины,
//     расписание и перерывы игнорируются.
//  2. Активный перерыв (повторяющийся на этот день недели или разовый
//     на эту дату) блокирует слот.
//  3. Активное правило недельного расписания: доступно при start <= t < end.
//  4. Нет правила - вне расписания.
//
// Активная сессия редактирования исключений обрабатывается уровнем выше:
// пока она открыта, доступность определяется только её blocked-набором.
func ResolveSlot(emp *Employee, exc *AvailabilityException, date time.Time, t types.TimeString) SlotVerdict {
	if exc != nil {
		if exc.Allows(t) {
			return SlotAvailable
		}
		return SlotBlockedException
	}

	if emp.BreakAt(date, t) != nil {
		return SlotBlockedBreak
	}

	rule := emp.RuleForWeekday(int(date.Weekday()))
	if rule == nil {
		return SlotBlockedOutOfSchedule
	}

	if !t.IsBefore(rule.StartTime) && t.IsBefore(rule.EndTime) {
		return SlotAvailable
	}

	return SlotBlockedOutOfSchedule
}

// GenerateSlots возвращает все 10-минутные слоты в [start, end)
func GenerateSlots(start, end types.TimeString) []types.TimeString {
	slots := make([]types.TimeString, 0)
	for m := start.Minutes(); m < end.Minutes(); m += SlotStepMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}
	return slots
}

// GenerateDaySlots возвращает полные сутки слотов (00:00-23:50)
func GenerateDaySlots() []types.TimeString {
	return GenerateSlots(types.TimeString(DayStart), types.TimeString(DayEnd))
}

// AlignDown округляет время вниз до ближайшей 10-минутной границы
func AlignDown(t types.TimeString) types.TimeString {
	m := t.Minutes()
	aligned, _ := types.NewTimeStringFromMinutes(m - m%SlotStepMinutes)
	return aligned
}

// IsAligned проверяет, что время кратно шагу сетки
func IsAligned(t types.TimeString) bool {
	return t.Minutes()%SlotStepMinutes == 0
}

// GridBounds вычисляет границы общей сетки агенды.
// Без пригодных данных расписаний - дефолтное окно 08:00-20:00.
// Иначе от самого раннего начала среди активных правил активных сотрудников
// (с округлением вниз до 10 минут) до конца суток: сетка должна вмещать
// рабочие часы каждого сотрудника в одной общей шкале.
func GridBounds(employees []*Employee) (types.TimeString, types.TimeString) {
	earliest := types.TimeString("")

	for _, emp := range employees {
		if !emp.Active {
			continue
		}
		for _, rule := range emp.ScheduleRules {
			if !rule.Active {
				continue
			}
			if earliest.IsZero() || rule.StartTime.IsBefore(earliest) {
				earliest = rule.StartTime
			}
		}
	}

	if earliest.IsZero() {
		return types.TimeString(DefaultGridStart), types.TimeString(DefaultGridEnd)
	}

	return AlignDown(earliest), types.TimeString(DayEnd)
}

// CollapseToRanges схлопывает отсортированный набор слотов в максимальные
// непрерывные диапазоны: соседние 10-минутные слоты объединяются в один
// {start, end}. Слоты на входе могут быть неотсортированы.
func CollapseToRanges(slots []types.TimeString) []TimeRange {
	if len(slots) == 0 {
		return []TimeRange{}
	}

	minutes := make([]int, 0, len(slots))
	for _, s := range slots {
		minutes = append(minutes, s.Minutes())
	}
	sort.Ints(minutes)

	ranges := make([]TimeRange, 0)
	startM := minutes[0]
	prevM := minutes[0]

	flush := func(endM int) {
		start, _ := types.NewTimeStringFromMinutes(startM)
		end, _ := types.NewTimeStringFromMinutes(endM)
		ranges = append(ranges, TimeRange{StartTime: start, EndTime: end})
	}

	for _, m := range minutes[1:] {
		if m == prevM {
			continue
		}
		if m != prevM+SlotStepMinutes {
			flush(prevM + SlotStepMinutes)
			startM = m
		}
		prevM = m
	}
	flush(prevM + SlotStepMinutes)

	return ranges
}

// ExpandRanges разворачивает диапазоны обратно в набор 10-минутных слотов
func ExpandRanges(ranges []TimeRange) []types.TimeString {
	slots := make([]types.TimeString, 0)
	for _, r := range ranges {
		slots = append(slots, GenerateSlots(r.StartTime, r.EndTime)...)
	}
	return slots
}

// weekday helper for tests and seeding: returns the date of the next
// occurrence of the given weekday starting from base
func NextWeekday(base time.Time, weekday time.Weekday) time.Time {
	d := DateOnly(base)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
