package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса слотов. Указывается ScheduleID или DoctorID.
type Request struct {
	ScheduleID int64     // ID расписания
	DoctorID   int64     // ID врача, если расписание не указано
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date                time.Time
	ScheduleID          int64
	DoctorID            int64
	SlotDurationMinutes int
	ConsultationFee     int64
	AvailableCount      int
	Slots               []Slot // упорядочены по времени начала
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}
