package change_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request запрос на смену статуса
type Request struct {
	AppointmentID      int64
	ActorID            int64         // врач или пациент записи, 0 для внутренних вызовов
	Status             domain.Status // целевой статус
	CancellationReason *string       // только для CANCELLED
}

// Response запись после смены статуса
type Response struct {
	ID                 int64
	ScheduleID         int64
	DoctorID           int64
	PatientID          int64
	AppointmentDate    time.Time
	StartTime          types.TimeString
	EndTime            types.TimeString
	Status             domain.Status
	StatusLabel        string
	NextActions        []domain.Action
	Reason             string
	Fee                int64
	CancellationReason *string
	CancelledAt        *time.Time
	Version            int
	InteractedAt       time.Time
}

// Transition results
const (
	resultApplied  = "applied"
	resultIllegal  = "illegal"
	resultConflict = "conflict"
	resultError    = "error"
)
