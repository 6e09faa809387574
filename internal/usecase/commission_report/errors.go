package commission_report

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("commission_report: shop not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("commission_report: professional not found")

	// ErrInvalidPeriod возвращается при некорректном периоде отчета
	ErrInvalidPeriod = errors.New("commission_report: invalid report period")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("commission_report: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("commission_report: internal error")
)
