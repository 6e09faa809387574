package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// ErrInvalidSchedule возвращается при некорректном дневном расписании
var ErrInvalidSchedule = errors.New("domain: invalid operating schedule")

// DaySchedule describes one weekday's operating window.
// All times are shop-local wall clock (HH:MM); behaviour across a DST
// transition is undefined and unsupported.
type DaySchedule struct {
	Open  bool
	Start types.TimeString
	End   types.TimeString

	HasBreak   bool
	BreakStart types.TimeString
	BreakEnd   types.TimeString
}

// Validate проверяет инварианты дневного расписания:
// start < end, перерыв строго внутри [start, end)
func (d *DaySchedule) Validate() error {
	if !d.Open {
		return nil
	}

	if err := d.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidSchedule, err)
	}
	if err := d.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidSchedule, err)
	}
	if !d.Start.IsBefore(d.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidSchedule, d.Start, d.End)
	}

	if !d.HasBreak {
		return nil
	}

	if err := d.BreakStart.Validate(); err != nil {
		return fmt.Errorf("%w: breakStart: %v", ErrInvalidSchedule, err)
	}
	if err := d.BreakEnd.Validate(); err != nil {
		return fmt.Errorf("%w: breakEnd: %v", ErrInvalidSchedule, err)
	}
	if !d.BreakStart.IsBefore(d.BreakEnd) {
		return fmt.Errorf("%w: breakStart %s must be before breakEnd %s", ErrInvalidSchedule, d.BreakStart, d.BreakEnd)
	}
	if d.BreakStart.IsBefore(d.Start) || d.BreakEnd.IsAfter(d.End) {
		return fmt.Errorf("%w: break %s-%s must lie within %s-%s",
			ErrInvalidSchedule, d.BreakStart, d.BreakEnd, d.Start, d.End)
	}

	return nil
}

// IsWithinBreak returns true if t falls inside [breakStart, breakEnd)
func (d *DaySchedule) IsWithinBreak(t types.TimeString) bool {
	if !d.HasBreak {
		return false
	}
	return !t.IsBefore(d.BreakStart) && t.IsBefore(d.BreakEnd)
}

// OperatingSchedule is a shop's weekly operating schedule
type OperatingSchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday returns the schedule of the given weekday
func (s *OperatingSchedule) ForWeekday(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return DaySchedule{Open: false}
	}
}

// Validate проверяет все дни недели
func (s *OperatingSchedule) Validate() error {
	days := []struct {
		name string
		day  *DaySchedule
	}{
		{"monday", &s.Monday},
		{"tuesday", &s.Tuesday},
		{"wednesday", &s.Wednesday},
		{"thursday", &s.Thursday},
		{"friday", &s.Friday},
		{"saturday", &s.Saturday},
		{"sunday", &s.Sunday},
	}

	for _, d := range days {
		if err := d.day.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

// ShopConfig shop-wide booking and accrual configuration
type ShopConfig struct {
	ShopID int64
	Name   string

	SlotIntervalMinutes     int
	MinBookingNoticeMinutes int

	LoyaltyEnabled   bool
	PointsPerService int

	// Commission base configuration; see commission report usecase
	CommissionIncludesProducts bool
	CommissionOnSubscription   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
