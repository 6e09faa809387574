package commission_report

import "time"

// Request модель запроса отчета по комиссии мастера
type Request struct {
	ShopID         int64     // ID салона
	ProfessionalID int64     // ID мастера
	StartDate      time.Time // Начало периода (включительно)
	EndDate        time.Time // Конец периода (включительно)
}

// Line строка отчета по одной завершенной записи
type Line struct {
	AppointmentID  int64     // ID записи
	Date           time.Time // Дата записи
	ServiceName    string    // Название услуги
	ServicePrice   float64   // Актуальная цена услуги из каталога
	ProductsTotal  float64   // Выручка по сопутствующим товарам
	Settlement     string    // Способ расчета
	Commissionable bool      // Учитывается ли запись в базе комиссии
}

// Response модель ответа с отчетом по комиссии
type Response struct {
	ShopID         int64     // ID салона
	ProfessionalID int64     // ID мастера
	StartDate      time.Time // Начало периода
	EndDate        time.Time // Конец периода

	CommissionRate   float64 // Ставка комиссии мастера
	ServiceRevenue   float64 // Выручка по услугам за период
	ProductRevenue   float64 // Выручка по товарам за период
	CommissionBase   float64 // База для расчета комиссии
	CommissionAmount float64 // Сумма комиссии
	AppointmentCount int     // Количество завершенных записей

	Lines []Line // Детализация по записям
}
