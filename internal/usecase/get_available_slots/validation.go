package get_available_slots

import (
	"fmt"
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shop_id must be positive, got %d", ErrInvalidInput, req.ShopID)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professional_id must be positive, got %d", ErrInvalidInput, req.ProfessionalID)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive, got %d", ErrInvalidInput, req.ServiceID)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего календарного дня
func isDateInPast(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return day.Before(today)
}

// filterPastSlots убирает слоты сегодняшнего дня, начинающиеся раньше,
// чем now + минимальное время до записи. Для будущих дат список не меняется.
func filterPastSlots(slots []types.TimeString, date, now time.Time, minNoticeMinutes int) []types.TimeString {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if !day.Equal(today) {
		return slots
	}

	cutoff := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	cutoffMinutes := cutoff.Hour()*60 + cutoff.Minute()

	filtered := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		minutes, err := slot.Minutes()
		if err != nil {
			continue
		}
		if minutes >= cutoffMinutes {
			filtered = append(filtered, slot)
		}
	}

	return filtered
}
