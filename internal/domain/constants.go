package domain

// Default configuration values
const (
	DefaultPointsPerService = 1
)

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240 // 4 hours

	MaxBookingNoticeMinutes = 10080 // 7 days

	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours

	MinCommissionRate = 0.0
	MaxCommissionRate = 1.0

	MaxNotesLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllStatuses полный закрытый перечень статусов записи.
// Отмененного статуса нет: удаление записи - отдельная безусловная операция.
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}

// AllSettlementMethods полный перечень способов расчета
var AllSettlementMethods = []SettlementMethod{
	SettlementCash,
	SettlementCard,
	SettlementInstantPayment,
	SettlementCourtesy,
	SettlementSubscription,
}
