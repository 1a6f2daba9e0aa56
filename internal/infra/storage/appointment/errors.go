package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись на приём не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается при нарушении уникального индекса активного слота
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrSerialization возвращается при конфликте сериализуемой транзакции
	ErrSerialization = errors.New("appointment.repository: serialization failure")

	// ErrVersionMismatch возвращается, когда запись изменили параллельно
	ErrVersionMismatch = errors.New("appointment.repository: version mismatch")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
