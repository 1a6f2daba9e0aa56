package schedules

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.WorkingSchedule) (*domain.WorkingSchedule, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.WorkingSchedule, error)
	GetActiveByDoctor(ctx context.Context, doctorID int64) (*domain.WorkingSchedule, error)
	Update(ctx context.Context, schedule *domain.WorkingSchedule) error
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository нужен для запрета удаления расписания с активными записями
type AppointmentRepository interface {
	CountActiveBySchedule(ctx context.Context, scheduleID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
