package get_doctor_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

type ScheduleService interface {
	GetByDoctor(ctx context.Context, doctorID int64) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
