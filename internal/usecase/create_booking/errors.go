package create_booking

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "create_booking: invalid input data")

	// ErrScheduleNotFound возвращается, когда расписание не найдено
	ErrScheduleNotFound = domain.NewError(domain.ErrNotFound, "create_booking: schedule not found")

	// ErrDoctorMismatch возвращается, когда расписание принадлежит другому врачу
	ErrDoctorMismatch = domain.NewError(domain.ErrValidation, "create_booking: schedule belongs to another doctor")

	// ErrInvalidSchedule возвращается, когда расписание непригодно для записи
	ErrInvalidSchedule = domain.NewError(domain.ErrValidation, "create_booking: schedule is not usable")

	// ErrInvalidSlot возвращается, когда расписание не могло сгенерировать такой слот
	ErrInvalidSlot = domain.NewError(domain.ErrValidation, "create_booking: no slot starts at this time")

	// ErrDateInPast возвращается, когда слот уже начался или прошёл
	ErrDateInPast = domain.NewError(domain.ErrValidation, "create_booking: slot is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceDays
	ErrDateTooFarInFuture = domain.NewError(domain.ErrValidation, "create_booking: date is too far in the future")

	// ErrSlotTaken возвращается, когда слот уже занят активной записью
	ErrSlotTaken = domain.NewError(domain.ErrConflict, "create_booking: slot is no longer available")

	// ErrDependency возвращается при недоступности хранилищ
	ErrDependency = domain.NewError(domain.ErrDependency, "create_booking: store unavailable")
)
