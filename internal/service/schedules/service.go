package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

// Service сервис рабочих расписаний врачей
type Service struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Create создает расписание врача.
// У врача может быть только одно действующее расписание.
func (s *Service) Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Create: creating schedule for doctor=%d", req.UserID)

	schedule := req.ToDomainSchedule()
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.scheduleRepo.Create(ctx, schedule)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleExists) {
			s.logger.Warn("Create: doctor=%d already has a schedule", req.UserID)
			return nil, ErrScheduleAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created schedule id=%d for doctor=%d", created.ID, created.DoctorID)
	return models.FromDomainSchedule(created), nil
}

// GetByDoctor получает действующее расписание врача.
// Публичный метод, доступен всем.
func (s *Service) GetByDoctor(ctx context.Context, doctorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetByDoctor: fetching schedule for doctor=%d", doctorID)

	schedule, err := s.scheduleRepo.GetActiveByDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetByDoctor: doctor=%d has no schedule", doctorID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetByDoctor: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetByDoctor - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// Update обновляет расписание. Доступно только врачу-владельцу.
// Уже созданные записи не пересчитываются: время и стоимость в них зафиксированы.
// Строка расписания блокируется FOR UPDATE, поэтому изменение не пересекается
// с идущим бронированием этого расписания.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule id=%d by user=%d", id, req.UserID)

	var updated *domain.WorkingSchedule

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		schedule, err := s.getOwned(txCtx, "Update", id, req.UserID)
		if err != nil {
			return err
		}

		req.ApplyTo(schedule)
		if err := schedule.Validate(); err != nil {
			s.logger.Warn("Update: validation failed for schedule id=%d: %v", id, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.scheduleRepo.Update(txCtx, schedule); err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = schedule
		return nil
	})
	if err != nil {
		return nil, s.txError("Update", id, err)
	}

	s.logger.Info("Update: successfully updated schedule id=%d", id)
	return models.FromDomainSchedule(updated), nil
}

// Delete удаляет расписание. Доступно только врачу-владельцу.
// Пока на расписание ссылаются активные записи, удаление запрещено.
// Строка расписания блокируется до подсчёта записей: бронирование держит её FOR SHARE,
// поэтому новая запись не появится между подсчётом и удалением.
func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Delete: deleting schedule id=%d by user=%d", id, userID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getOwned(txCtx, "Delete", id, userID); err != nil {
			return err
		}

		active, err := s.appointmentRepo.CountActiveBySchedule(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count active appointments: %v", ErrInternal, err)
		}
		if active > 0 {
			s.logger.Warn("Delete: schedule id=%d has %d active appointments", id, active)
			return fmt.Errorf("%w: %d active appointments", ErrScheduleInUse, active)
		}

		if err := s.scheduleRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return s.txError("Delete", id, err)
	}

	s.logger.Info("Delete: successfully deleted schedule id=%d", id)
	return nil
}

// txError приводит ошибки транзакции к ErrInternal и логирует внутренние сбои
func (s *Service) txError(op string, id int64, err error) error {
	if domain.KindOf(err) == nil {
		err = fmt.Errorf("%w: %s - transaction: %v", ErrInternal, op, err)
	}
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: failed for schedule id=%d: %v", op, id, err)
	}
	return err
}

// getOwned читает расписание с блокировкой строки и проверяет владельца
func (s *Service) getOwned(ctx context.Context, op string, id int64, userID int64) (*domain.WorkingSchedule, error) {
	schedule, err := s.scheduleRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("%s: schedule id=%d not found", op, id)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("%s: repository error for schedule id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if schedule.DoctorID != userID {
		s.logger.Warn("%s: user=%d is not the owner of schedule id=%d", op, userID, id)
		return nil, ErrAccessDenied
	}

	return schedule, nil
}
