package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayAppointments() []*Appointment {
	return []*Appointment{
		{ID: 10, EmployeeID: 1, Date: monday, StartTime: "14:00", EndTime: "15:00", Status: StatusConfirmed},
		{ID: 11, EmployeeID: 1, Date: monday, StartTime: "16:00", EndTime: "16:30", Status: StatusPending},
		{ID: 12, EmployeeID: 2, Date: monday, StartTime: "14:00", EndTime: "15:00", Status: StatusConfirmed},
		{ID: 13, EmployeeID: 1, Date: monday, StartTime: "10:00", EndTime: "11:00", Status: StatusCancelled},
	}
}

func TestFindConflict_Overlap(t *testing.T) {
	appointments := dayAppointments()

	tests := []struct {
		name   string
		start  string
		end    string
		wantID int64 // 0 - конфликта нет
	}{
		{name: "inside existing", start: "14:30", end: "15:00", wantID: 10},
		{name: "covers existing", start: "13:30", end: "15:30", wantID: 10},
		{name: "overlaps start", start: "13:30", end: "14:10", wantID: 10},
		{name: "overlaps end", start: "14:50", end: "15:30", wantID: 10},
		{name: "touches end exactly", start: "15:00", end: "15:30", wantID: 0},
		{name: "touches start exactly", start: "13:00", end: "14:00", wantID: 0},
		{name: "between appointments", start: "15:00", end: "16:00", wantID: 0},
		{name: "second appointment", start: "16:20", end: "16:50", wantID: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(appointments, 1, monday, ts(t, tt.start), ts(t, tt.end), nil)
			if tt.wantID == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFindConflict_SkipsOtherEmployees(t *testing.T) {
	appointments := dayAppointments()

	// Пересечение есть только у сотрудника 2
	got := FindConflict(appointments, 3, monday, ts(t, "14:00"), ts(t, "15:00"), nil)
	assert.Nil(t, got)
}

func TestFindConflict_SkipsInactive(t *testing.T) {
	appointments := dayAppointments()

	// Запись 13 отменена и не считается конфликтом
	got := FindConflict(appointments, 1, monday, ts(t, "10:00"), ts(t, "11:00"), nil)
	assert.Nil(t, got)
}

func TestFindConflict_ExcludesOwnID(t *testing.T) {
	appointments := dayAppointments()

	// Перенос записи 10 внутри её собственного слота не конфликтует сам с собой
	exclude := int64(10)
	got := FindConflict(appointments, 1, monday, ts(t, "14:10"), ts(t, "15:10"), &exclude)
	assert.Nil(t, got)

	// Но без исключения - конфликтует
	got = FindConflict(appointments, 1, monday, ts(t, "14:10"), ts(t, "15:10"), nil)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.ID)
}

func TestFindConflict_OtherDay(t *testing.T) {
	appointments := dayAppointments()
	otherDay := monday.AddDate(0, 0, 1)

	got := FindConflict(appointments, 1, otherDay, ts(t, "14:00"), ts(t, "15:00"), nil)
	assert.Nil(t, got)
}
