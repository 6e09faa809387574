package models

import (
	"time"

	"github.com/salonkit/booking-service/internal/domain"
)

// Request модели

// ListShopAppointmentsRequest запрос на получение записей салона на день
type ListShopAppointmentsRequest struct {
	ShopID         int64     `json:"shopId"`
	ProfessionalID *int64    `json:"professionalId,omitempty"` // Фильтр по мастеру (опционально)
	Date           time.Time `json:"date"`
}

// AddProductSaleRequest запрос на добавление продажи товара к записи
type AddProductSaleRequest struct {
	AppointmentID int64 `json:"appointmentId"`
	ProductID     int64 `json:"productId"`
	Quantity      int   `json:"quantity"`
}

// Response модели

// ProductSaleResponse продажа товара в составе записи
type ProductSaleResponse struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	ShopID          int64  `json:"shopId"`
	ClientID        int64  `json:"clientId"`
	ProfessionalID  int64  `json:"professionalId"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	SettlementMethod *string               `json:"settlementMethod,omitempty"`
	Products         []ProductSaleResponse `json:"products,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		ShopID:          a.ShopID,
		ClientID:        a.ClientID,
		ProfessionalID:  a.ProfessionalID,
		ServiceID:       a.ServiceID,
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.SettlementMethod != nil {
		settlement := string(*a.SettlementMethod)
		resp.SettlementMethod = &settlement
	}

	for i := range a.Products {
		p := &a.Products[i]
		resp.Products = append(resp.Products, ProductSaleResponse{
			ID:        p.ID,
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Total:     p.Total(),
		})
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if apptResp := FromDomainAppointment(a); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}
