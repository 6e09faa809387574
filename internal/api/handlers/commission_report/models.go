package commission_report

import (
	"github.com/salonkit/booking-service/internal/domain"
	commissionReport "github.com/salonkit/booking-service/internal/usecase/commission_report"
)

// ReportLine строка отчета по одной записи
type ReportLine struct {
	AppointmentID  int64   `json:"appointmentId"`
	Date           string  `json:"date"`
	ServiceName    string  `json:"serviceName"`
	ServicePrice   float64 `json:"servicePrice"`
	ProductsTotal  float64 `json:"productsTotal"`
	Settlement     string  `json:"settlement,omitempty"`
	Commissionable bool    `json:"commissionable"`
}

// CommissionReportResponse HTTP response model
type CommissionReportResponse struct {
	ShopID         int64  `json:"shopId"`
	ProfessionalID int64  `json:"professionalId"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`

	CommissionRate   float64 `json:"commissionRate"`
	ServiceRevenue   float64 `json:"serviceRevenue"`
	ProductRevenue   float64 `json:"productRevenue"`
	CommissionBase   float64 `json:"commissionBase"`
	CommissionAmount float64 `json:"commissionAmount"`
	AppointmentCount int     `json:"appointmentCount"`

	Lines []ReportLine `json:"lines"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commissionReport.Response) *CommissionReportResponse {
	lines := make([]ReportLine, len(resp.Lines))
	for i, line := range resp.Lines {
		lines[i] = ReportLine{
			AppointmentID:  line.AppointmentID,
			Date:           line.Date.Format(domain.DateFormat),
			ServiceName:    line.ServiceName,
			ServicePrice:   line.ServicePrice,
			ProductsTotal:  line.ProductsTotal,
			Settlement:     line.Settlement,
			Commissionable: line.Commissionable,
		}
	}

	return &CommissionReportResponse{
		ShopID:           resp.ShopID,
		ProfessionalID:   resp.ProfessionalID,
		StartDate:        resp.StartDate.Format(domain.DateFormat),
		EndDate:          resp.EndDate.Format(domain.DateFormat),
		CommissionRate:   resp.CommissionRate,
		ServiceRevenue:   resp.ServiceRevenue,
		ProductRevenue:   resp.ProductRevenue,
		CommissionBase:   resp.CommissionBase,
		CommissionAmount: resp.CommissionAmount,
		AppointmentCount: resp.AppointmentCount,
		Lines:            lines,
	}
}
