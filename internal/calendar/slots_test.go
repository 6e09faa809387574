package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/types"
)

func day(start, end string) domain.DaySchedule {
	return domain.DaySchedule{
		Open:  true,
		Start: types.TimeString(start),
		End:   types.TimeString(end),
	}
}

func TestGenerateDaySlots_ClosedDay(t *testing.T) {
	slots, err := GenerateDaySlots(domain.DaySchedule{Open: false}, 30)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateDaySlots_FullWorkday(t *testing.T) {
	slots, err := GenerateDaySlots(day("09:00", "18:00"), 30)

	require.NoError(t, err)
	require.Len(t, slots, 18)
	assert.Equal(t, types.TimeString("09:00"), slots[0])
	assert.Equal(t, types.TimeString("17:30"), slots[17])
}

func TestGenerateDaySlots_HourInterval(t *testing.T) {
	slots, err := GenerateDaySlots(day("10:00", "14:00"), 60)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:00", "11:00", "12:00", "13:00"}, slots)
}

func TestGenerateDaySlots_IntervalNotDividingWindow(t *testing.T) {
	// 09:00-10:10 шаг 50: последний слот 09:50 не оставляет полного
	// интервала до закрытия, но все равно входит в сетку
	slots, err := GenerateDaySlots(day("09:00", "10:10"), 50)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "09:50"}, slots)
}

func TestGenerateDaySlots_InvalidInterval(t *testing.T) {
	_, err := GenerateDaySlots(day("09:00", "18:00"), 0)

	require.ErrorIs(t, err, ErrInvalidInterval)
}

func TestGenerateDaySlots_LateClosing(t *testing.T) {
	// Сетка не выходит за пределы суток
	slots, err := GenerateDaySlots(day("23:00", "23:59"), 30)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"23:00", "23:30"}, slots)
}

func TestSlotsRequired(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		interval int
		want     int
	}{
		{"exact fit", 60, 30, 2},
		{"rounds up", 45, 30, 2},
		{"single slot", 30, 30, 1},
		{"shorter than interval", 15, 30, 1},
		{"unknown duration degrades to one slot", 0, 30, 1},
		{"negative duration degrades to one slot", -10, 30, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slotsRequired(tt.duration, tt.interval))
		})
	}
}
