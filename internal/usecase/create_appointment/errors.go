package create_appointment

import "errors"

var (
	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = errors.New("create_appointment: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("create_appointment: professional not found")

	// ErrProfessionalNotEligible возвращается, когда мастер не выполняет услугу
	ErrProfessionalNotEligible = errors.New("create_appointment: professional does not perform this service")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrShopClosed возвращается, когда салон закрыт в указанный день
	ErrShopClosed = errors.New("create_appointment: shop is closed on this date")

	// ErrSlotUnavailable возвращается, когда слот занят или не существует в сетке
	ErrSlotUnavailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidDate возвращается при некорректной дате (в том числе в прошлом)
	ErrInvalidDate = errors.New("create_appointment: invalid date")

	// ErrTooLateToBook возвращается при нарушении минимального времени до записи
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrInvalidStatus возвращается при недопустимом начальном статусе
	ErrInvalidStatus = errors.New("create_appointment: invalid initial status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
