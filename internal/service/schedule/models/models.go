package models

import (
	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/types"
)

// Request модели

// DayScheduleDTO расписание одного дня недели
type DayScheduleDTO struct {
	Open       bool    `json:"open"`
	Start      *string `json:"start,omitempty"`      // "09:00"
	End        *string `json:"end,omitempty"`        // "18:00"
	BreakStart *string `json:"breakStart,omitempty"` // "13:00"
	BreakEnd   *string `json:"breakEnd,omitempty"`   // "14:00"
}

// WeekScheduleDTO недельное расписание салона
type WeekScheduleDTO struct {
	Monday    DayScheduleDTO `json:"monday"`
	Tuesday   DayScheduleDTO `json:"tuesday"`
	Wednesday DayScheduleDTO `json:"wednesday"`
	Thursday  DayScheduleDTO `json:"thursday"`
	Friday    DayScheduleDTO `json:"friday"`
	Saturday  DayScheduleDTO `json:"saturday"`
	Sunday    DayScheduleDTO `json:"sunday"`
}

// UpdateScheduleRequest запрос на обновление расписания и конфигурации салона
// Поддерживает частичное обновление конфигурации - обновляются только указанные поля
type UpdateScheduleRequest struct {
	Week *WeekScheduleDTO `json:"week,omitempty"`

	SlotIntervalMinutes     *int `json:"slotIntervalMinutes,omitempty"`
	MinBookingNoticeMinutes *int `json:"minBookingNoticeMinutes,omitempty"`

	LoyaltyEnabled   *bool `json:"loyaltyEnabled,omitempty"`
	PointsPerService *int  `json:"pointsPerService,omitempty"`

	CommissionIncludesProducts *bool `json:"commissionIncludesProducts,omitempty"`
	CommissionOnSubscription   *bool `json:"commissionOnSubscription,omitempty"`
}

// ApplyToConfig применяет частичное обновление к конфигурации салона
func (r *UpdateScheduleRequest) ApplyToConfig(cfg *domain.ShopConfig) {
	if r.SlotIntervalMinutes != nil {
		cfg.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.MinBookingNoticeMinutes != nil {
		cfg.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.LoyaltyEnabled != nil {
		cfg.LoyaltyEnabled = *r.LoyaltyEnabled
	}
	if r.PointsPerService != nil {
		cfg.PointsPerService = *r.PointsPerService
	}
	if r.CommissionIncludesProducts != nil {
		cfg.CommissionIncludesProducts = *r.CommissionIncludesProducts
	}
	if r.CommissionOnSubscription != nil {
		cfg.CommissionOnSubscription = *r.CommissionOnSubscription
	}
}

// Response модели

// ScheduleResponse ответ с расписанием и конфигурацией салона
type ScheduleResponse struct {
	ShopID int64  `json:"shopId"`
	Name   string `json:"name"`

	SlotIntervalMinutes     int `json:"slotIntervalMinutes"`
	MinBookingNoticeMinutes int `json:"minBookingNoticeMinutes"`

	LoyaltyEnabled   bool `json:"loyaltyEnabled"`
	PointsPerService int  `json:"pointsPerService"`

	CommissionIncludesProducts bool `json:"commissionIncludesProducts"`
	CommissionOnSubscription   bool `json:"commissionOnSubscription"`

	Week WeekScheduleDTO `json:"week"`
}

// Методы конвертации

// ToDomainWeek конвертирует DTO в domain расписание
func (w *WeekScheduleDTO) ToDomainWeek() *domain.OperatingSchedule {
	return &domain.OperatingSchedule{
		Monday:    w.Monday.toDomainDay(),
		Tuesday:   w.Tuesday.toDomainDay(),
		Wednesday: w.Wednesday.toDomainDay(),
		Thursday:  w.Thursday.toDomainDay(),
		Friday:    w.Friday.toDomainDay(),
		Saturday:  w.Saturday.toDomainDay(),
		Sunday:    w.Sunday.toDomainDay(),
	}
}

func (d *DayScheduleDTO) toDomainDay() domain.DaySchedule {
	day := domain.DaySchedule{Open: d.Open}
	if !d.Open {
		return day
	}

	if d.Start != nil {
		day.Start = types.TimeString(*d.Start)
	}
	if d.End != nil {
		day.End = types.TimeString(*d.End)
	}
	if d.BreakStart != nil && d.BreakEnd != nil {
		day.HasBreak = true
		day.BreakStart = types.TimeString(*d.BreakStart)
		day.BreakEnd = types.TimeString(*d.BreakEnd)
	}

	return day
}

// FromDomain собирает ответ из конфигурации и недельного расписания
func FromDomain(cfg *domain.ShopConfig, week *domain.OperatingSchedule) *ScheduleResponse {
	return &ScheduleResponse{
		ShopID:                     cfg.ShopID,
		Name:                       cfg.Name,
		SlotIntervalMinutes:        cfg.SlotIntervalMinutes,
		MinBookingNoticeMinutes:    cfg.MinBookingNoticeMinutes,
		LoyaltyEnabled:             cfg.LoyaltyEnabled,
		PointsPerService:           cfg.PointsPerService,
		CommissionIncludesProducts: cfg.CommissionIncludesProducts,
		CommissionOnSubscription:   cfg.CommissionOnSubscription,
		Week: WeekScheduleDTO{
			Monday:    fromDomainDay(week.Monday),
			Tuesday:   fromDomainDay(week.Tuesday),
			Wednesday: fromDomainDay(week.Wednesday),
			Thursday:  fromDomainDay(week.Thursday),
			Friday:    fromDomainDay(week.Friday),
			Saturday:  fromDomainDay(week.Saturday),
			Sunday:    fromDomainDay(week.Sunday),
		},
	}
}

func fromDomainDay(d domain.DaySchedule) DayScheduleDTO {
	dto := DayScheduleDTO{Open: d.Open}
	if !d.Open {
		return dto
	}

	start := d.Start.String()
	end := d.End.String()
	dto.Start = &start
	dto.End = &end

	if d.HasBreak {
		breakStart := d.BreakStart.String()
		breakEnd := d.BreakEnd.String()
		dto.BreakStart = &breakStart
		dto.BreakEnd = &breakEnd
	}

	return dto
}
