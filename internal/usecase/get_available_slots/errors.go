package get_available_slots

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "get_available_slots: invalid input data")

	// ErrScheduleNotFound возвращается, когда у врача нет расписания или расписание не найдено
	ErrScheduleNotFound = domain.NewError(domain.ErrNotFound, "get_available_slots: schedule not found")

	// ErrInvalidSchedule возвращается, когда окно расписания некорректно
	ErrInvalidSchedule = domain.NewError(domain.ErrValidation, "get_available_slots: schedule has an invalid window")

	// ErrDependency возвращается при недоступности хранилищ
	ErrDependency = domain.NewError(domain.ErrDependency, "get_available_slots: store unavailable")
)
