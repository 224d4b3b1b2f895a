package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid morning", input: "09:30"},
		{name: "midnight", input: "00:00"},
		{name: "day end boundary", input: "24:00"},
		{name: "last minute", input: "23:59"},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "minutes out of range", input: "12:60", wantErr: true},
		{name: "past day end", input: "24:01", wantErr: true},
		{name: "no leading zero", input: "9:30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "00:00", want: 0},
		{input: "00:10", want: 10},
		{input: "09:30", want: 570},
		{input: "24:00", want: 1440},
	}

	for _, tt := range tests {
		ts, err := NewTimeStringFromString(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ts.Minutes(), "minutes of %s", tt.input)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start, err := NewTimeStringFromString("14:30")
	require.NoError(t, err)

	end, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, "15:15", end.String())

	// Ровно до конца суток - допустимо
	late, err := NewTimeStringFromString("23:00")
	require.NoError(t, err)
	dayEnd, err := late.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "24:00", dayEnd.String())

	// Выход за границу суток - ошибка
	_, err = late.AddMinutes(61)
	assert.Error(t, err)
}

func TestTimeString_Ordering(t *testing.T) {
	a, _ := NewTimeStringFromString("10:00")
	b, _ := NewTimeStringFromString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))

	// Строгие сравнения: равные времена не "до" и не "после"
	assert.False(t, a.IsBefore(a))
	assert.False(t, a.IsAfter(a))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит как "15:04:05" - секунды отбрасываются
	require.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, "14:30", ts.String())

	require.NoError(t, ts.Scan([]byte("09:10")))
	assert.Equal(t, "09:10", ts.String())

	require.NoError(t, ts.Scan(time.Date(2026, 9, 1, 18, 40, 0, 0, time.UTC)))
	assert.Equal(t, "18:40", ts.String())

	assert.Error(t, ts.Scan(42))
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 9, 1, 8, 5, 0, 0, time.UTC))
	assert.Equal(t, "08:05", ts.String())
}
