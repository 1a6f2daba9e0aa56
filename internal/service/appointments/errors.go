package appointments

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = domain.NewError(domain.ErrNotFound, "appointments: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "appointments: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrDependency, "appointments: internal error")
)
