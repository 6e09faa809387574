package get_available_slots

import (
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ShopID         int64     // ID салона
	ProfessionalID int64     // ID мастера
	ServiceID      int64     // ID услуги
	Date           time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Дата, на которую запрашивались слоты
	ShopID          int64              // ID салона
	ProfessionalID  int64              // ID мастера
	ServiceID       int64              // ID услуги
	DurationMinutes int                // Длительность услуги в минутах
	Closed          bool               // Салон закрыт в этот день
	Slots           []types.TimeString // Упорядоченный список доступных стартов
}
