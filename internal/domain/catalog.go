package domain

import "time"

// Service is an entry of the shop's service catalog
type Service struct {
	ID              int64
	ShopID          int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool

	// Professionals allowed to perform this service
	EligibleProfessionalIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEligible returns true if the professional may perform this service
func (s *Service) IsEligible(professionalID int64) bool {
	for _, id := range s.EligibleProfessionalIDs {
		if id == professionalID {
			return true
		}
	}
	return false
}

// Professional is a staff member performing services
type Professional struct {
	ID     int64
	ShopID int64
	Name   string
	Active bool

	// CommissionRate fraction in [0,1] applied to completed service revenue
	CommissionRate float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client is a salon customer with an embedded loyalty account
type Client struct {
	ID     int64
	ShopID int64
	Name   string
	Phone  *string

	// PointsBalance is mutated only by the atomic accrual operation;
	// redemption is out of scope for this engine
	PointsBalance int

	CreatedAt time.Time
	UpdatedAt time.Time
}
