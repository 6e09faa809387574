package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
)

// SettlementMethod is how a completed appointment's charge is recorded
type SettlementMethod string

const (
	SettlementCash           SettlementMethod = "cash"
	SettlementCard           SettlementMethod = "card"
	SettlementInstantPayment SettlementMethod = "instant_payment"
	SettlementCourtesy       SettlementMethod = "courtesy"
	SettlementSubscription   SettlementMethod = "subscription"
)

var (
	// ErrInvalidTransition возвращается при недопустимом переходе статуса.
	// Переходы назад (например completed -> in_progress) всегда ошибка, не no-op.
	ErrInvalidTransition = errors.New("domain: invalid status transition")

	// ErrUnknownStatus возвращается для статуса вне закрытого перечисления
	ErrUnknownStatus = errors.New("domain: unknown appointment status")

	// ErrUnknownSettlementMethod возвращается для неизвестного способа расчета
	ErrUnknownSettlementMethod = errors.New("domain: unknown settlement method")
)

// statusTransitions единая таблица допустимых переходов статуса.
// Движение только вперед; completed терминален.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusInProgress},
	StatusConfirmed:  {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
}

// ParseStatus валидирует строку против закрытого перечисления статусов
func ParseStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted:
		return AppointmentStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// ParseSettlementMethod валидирует строку против перечисления способов расчета
func ParseSettlementMethod(s string) (SettlementMethod, error) {
	switch SettlementMethod(s) {
	case SettlementCash, SettlementCard, SettlementInstantPayment, SettlementCourtesy, SettlementSubscription:
		return SettlementMethod(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSettlementMethod, s)
	}
}

// CanTransitionTo returns true if the transition is allowed by the table
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition for any move not in the table
func ValidateTransition(from, to AppointmentStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// IsTerminal returns true if no further transitions are possible
func (s AppointmentStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IsValidInitialStatus returns true if an appointment may be created
// with this status. Any non-terminal status is allowed at creation:
// self-service bookings default to confirmed, walk-ins may start anywhere.
func (s AppointmentStatus) IsValidInitialStatus() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

// ProductSale is an ancillary product sold alongside an appointment
type ProductSale struct {
	ID            int64
	AppointmentID int64
	ProductID     int64
	Quantity      int
	UnitPrice     float64
}

// Total returns the revenue of this sale line
func (p *ProductSale) Total() float64 {
	return float64(p.Quantity) * p.UnitPrice
}

// Appointment represents a booked service slot for a client with a professional
type Appointment struct {
	ID             int64
	ShopID         int64
	ClientID       int64
	ProfessionalID int64
	ServiceID      int64
	Date           time.Time
	StartTime      types.TimeString
	Status         AppointmentStatus

	// Denormalized service data, captured at booking time
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int

	// Set on the completing transition only
	SettlementMethod *SettlementMethod

	Products []ProductSale
	Notes    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompleted returns true once the appointment reached its terminal status
func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// ProductsTotal returns the summed revenue of all product sales
func (a *Appointment) ProductsTotal() float64 {
	var total float64
	for i := range a.Products {
		total += a.Products[i].Total()
	}
	return total
}

// DayAppointmentsFilter фильтр для выборки записей на день
type DayAppointmentsFilter struct {
	ShopID         int64
	ProfessionalID *int64    // nil - все мастера салона
	Date           time.Time // календарный день
}
