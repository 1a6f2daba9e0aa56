package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на запись к врачу
type Request struct {
	ScheduleID int64            // ID расписания
	DoctorID   int64            // ID врача, владельца расписания
	PatientID  int64            // ID пациента
	Date       time.Time        // Дата приёма (без времени)
	StartTime  types.TimeString // Время начала слота (например, "08:30")
	Reason     string           // Причина обращения
}

// Response созданная запись в статусе PENDING
type Response struct {
	ID              int64
	ScheduleID      int64
	DoctorID        int64
	PatientID       int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          string
	StatusLabel     string
	Reason          string
	Fee             int64 // снимок стоимости приёма на момент записи

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Options параметры бронирования из конфигурации
type Options struct {
	// MaxAdvanceDays ограничение записи вперёд, 0 без ограничений
	MaxAdvanceDays int

	// Location часовой пояс клиники для определения "сегодня"
	Location *time.Location

	// TimeProvider источник текущего времени, по умолчанию RealTimeProvider
	TimeProvider TimeProvider
}
