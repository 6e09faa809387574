// Package calendar содержит чистую слотовую математику календаря:
// генерацию сетки кандидатов на день и фильтрацию доступности с учетом
// занятости мастера, перерыва и длительности услуги. Никакого I/O.
//
// Все времена - локальные настенные часы салона (HH:MM) без тайм-зоны;
// поведение на границе перехода на летнее время не определено.
package calendar

import (
	"errors"
	"fmt"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/types"
)

// ErrInvalidInterval возвращается при неположительном шаге сетки
var ErrInvalidInterval = errors.New("calendar: slot interval must be positive")

// GenerateDaySlots генерирует упорядоченную сетку кандидатов старта на день:
// каждое время t = start + k*interval, start <= t < end.
// Для закрытого дня возвращает пустую сетку.
//
// Последний слот может не оставлять полного интервала до закрытия -
// помещается ли услуга, проверяет AvailableSlots, не генератор.
func GenerateDaySlots(day domain.DaySchedule, intervalMinutes int) ([]types.TimeString, error) {
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidInterval, intervalMinutes)
	}

	if !day.Open {
		return []types.TimeString{}, nil
	}

	slots := make([]types.TimeString, 0)
	current := day.Start

	for current.IsBefore(day.End) {
		slots = append(slots, current)

		next, err := current.AddMinutes(intervalMinutes)
		if err != nil {
			// Следующий шаг вышел за пределы суток - сетка закончилась
			break
		}
		current = next
	}

	return slots, nil
}

// slotsRequired возвращает число слотов сетки, занимаемых длительностью.
// Всегда округляет вверх: время мастера не недорезервируется.
// Неизвестная длительность (<= 0) деградирует до одного слота.
func slotsRequired(durationMinutes, intervalMinutes int) int {
	if durationMinutes <= 0 {
		return 1
	}
	return (durationMinutes + intervalMinutes - 1) / intervalMinutes
}
