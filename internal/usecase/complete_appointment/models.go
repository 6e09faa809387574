package complete_appointment

import (
	"time"

	"github.com/salonkit/booking-service/pkg/types"
)

// Request модель запроса на завершение записи
type Request struct {
	AppointmentID    int64  // ID записи
	SettlementMethod string // Способ расчета (cash, card, instant_payment, courtesy, subscription)
}

// Response модель ответа с завершенной записью
type Response struct {
	ID               int64            // ID записи
	ShopID           int64            // ID салона
	ClientID         int64            // ID клиента
	ProfessionalID   int64            // ID мастера
	ServiceID        int64            // ID услуги
	Date             time.Time        // Дата записи
	StartTime        types.TimeString // Время начала
	Status           string           // Статус после завершения
	SettlementMethod string           // Зафиксированный способ расчета
	ServiceName      string           // Название услуги
	ServicePrice     float64          // Цена услуги
	PointsAccrued    int              // Начислено баллов лояльности
	UpdatedAt        time.Time        // Время обновления
}
