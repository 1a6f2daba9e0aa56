package create_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

type ScheduleService interface {
	Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
