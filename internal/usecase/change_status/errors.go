package change_status

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "change_status: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = domain.NewError(domain.ErrNotFound, "change_status: appointment not found")

	// ErrAccessDenied возвращается, когда статус меняет не врач и не пациент записи
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "change_status: access denied")

	// ErrConcurrentModification возвращается, когда запись изменили между чтением и записью
	ErrConcurrentModification = domain.NewError(domain.ErrConflict, "change_status: appointment was modified concurrently")

	// ErrDependency возвращается при недоступности хранилища
	ErrDependency = domain.NewError(domain.ErrDependency, "change_status: store unavailable")
)
