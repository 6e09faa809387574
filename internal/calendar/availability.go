package calendar

import (
	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/types"
)

// AvailabilityInput входные данные фильтрации доступности.
// Existing должен содержать записи того же мастера на тот же день.
type AvailabilityInput struct {
	Candidates []types.TimeString
	Existing   []*domain.Appointment

	ServiceDurationMinutes int
	IntervalMinutes        int

	Day domain.DaySchedule

	// ExcludeAppointmentID исключает собственные слоты записи при
	// редактировании (self-exclusion); 0 - не исключать ничего
	ExcludeAppointmentID int64
}

// AvailableSlots возвращает упорядоченное подмножество кандидатов,
// способных принять новую запись указанной длительности.
//
// Слот i доступен, когда слоты i..i+required-1 существуют в сетке
// и ни один из них не заблокирован существующей записью или перерывом.
func AvailableSlots(in AvailabilityInput) []types.TimeString {
	n := len(in.Candidates)
	if n == 0 || in.IntervalMinutes <= 0 {
		return []types.TimeString{}
	}

	required := slotsRequired(in.ServiceDurationMinutes, in.IntervalMinutes)
	blocked := make([]bool, n)

	markOccupied(blocked, in)
	markBreak(blocked, in)

	available := make([]types.TimeString, 0, n)
	for i := 0; i+required <= n; i++ {
		if footprintFree(blocked, i, required) {
			available = append(available, in.Candidates[i])
		}
	}

	return available
}

// markOccupied помечает слоты, занятые существующими записями.
// Каждая запись блокирует ceil(duration/interval) последовательных слотов,
// начиная со своего слота старта.
func markOccupied(blocked []bool, in AvailabilityInput) {
	minutes := candidateMinutes(in.Candidates)

	for _, appt := range in.Existing {
		if in.ExcludeAppointmentID != 0 && appt.ID == in.ExcludeAppointmentID {
			continue
		}

		startMin, err := appt.StartTime.Minutes()
		if err != nil {
			// Некорректное время старта не может заблокировать сетку
			continue
		}

		startIdx := floorIndex(minutes, startMin)
		if startIdx < 0 {
			// Запись началась до первого кандидата; хвост может
			// накрывать начало сетки
			startIdx = 0
		}

		span := slotsRequired(appt.DurationMinutes, in.IntervalMinutes)
		for i := startIdx; i < startIdx+span && i < len(blocked); i++ {
			blocked[i] = true
		}
	}
}

// markBreak помечает слоты, чей старт попадает в окно перерыва
// [breakStart, breakEnd), независимо от записей
func markBreak(blocked []bool, in AvailabilityInput) {
	if !in.Day.HasBreak {
		return
	}
	for i, c := range in.Candidates {
		if in.Day.IsWithinBreak(c) {
			blocked[i] = true
		}
	}
}

func footprintFree(blocked []bool, start, span int) bool {
	for i := start; i < start+span; i++ {
		if blocked[i] {
			return false
		}
	}
	return true
}

// candidateMinutes переводит сетку в минуты с начала суток
func candidateMinutes(candidates []types.TimeString) []int {
	minutes := make([]int, len(candidates))
	for i, c := range candidates {
		m, err := c.Minutes()
		if err != nil {
			m = -1
		}
		minutes[i] = m
	}
	return minutes
}

// floorIndex возвращает индекс последнего кандидата со стартом <= target,
// или -1, если target раньше первого кандидата. Сетка упорядочена по времени.
func floorIndex(minutes []int, target int) int {
	idx := -1
	for i, m := range minutes {
		if m <= target {
			idx = i
		} else {
			break
		}
	}
	return idx
}
