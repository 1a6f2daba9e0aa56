package schedules

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

var (
	// ErrScheduleNotFound возвращается, когда расписание не найдено
	ErrScheduleNotFound = domain.NewError(domain.ErrNotFound, "schedules: schedule not found")

	// ErrAccessDenied возвращается, когда расписание меняет не его врач
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "schedules: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "schedules: invalid input data")

	// ErrScheduleAlreadyExists возвращается при попытке создать второе расписание врача
	ErrScheduleAlreadyExists = domain.NewError(domain.ErrConflict, "schedules: doctor already has a schedule")

	// ErrScheduleInUse возвращается при удалении расписания с активными записями
	ErrScheduleInUse = domain.NewError(domain.ErrConflict, "schedules: schedule has active appointments")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrDependency, "schedules: internal error")
)
