package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/slotlock"
)

// UseCase атомарное бронирование слота
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	locker          SlotLocker
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	location        *time.Location
	maxAdvanceDays  int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	locker SlotLocker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	opts Options,
) *UseCase {
	uc := &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    opts.TimeProvider,
		location:        opts.Location,
		maxAdvanceDays:  opts.MaxAdvanceDays,
		logger:          logger,
	}
	if uc.timeProvider == nil {
		uc.timeProvider = &RealTimeProvider{}
	}
	if uc.location == nil {
		uc.location = time.UTC
	}
	return uc
}

// Execute превращает свободный слот в запись PENDING.
//
// Двойная запись исключается тремя уровнями:
// 1. блокировка слота (scheduleId, date, start) на время проверки и вставки;
// 2. повторная проверка активных записей в SERIALIZABLE транзакции с FOR UPDATE;
// 3. частичный уникальный индекс по активным записям слота.
// Любой из них даёт ErrSlotTaken проигравшему запросу.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: schedule=%d, doctor=%d, patient=%d, date=%s, start=%s",
		req.ScheduleID, req.DoctorID, req.PatientID, req.Date.Format(domain.DateFormat), req.StartTime)

	result, err := uc.reserve(ctx, req)
	uc.metrics.ObserveReservation(outcome(err))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created appointment id=%d at %s %s",
		result.ID, result.AppointmentDate.Format(domain.DateFormat), result.StartTime)

	return toResponse(result), nil
}

func (uc *UseCase) reserve(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем расписание
	schedule, err := uc.scheduleRepo.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("CreateBooking: schedule id=%d not found", req.ScheduleID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get schedule id=%d: %v", req.ScheduleID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrDependency, err)
	}

	// 3. Слот должен быть сгенерирован расписанием
	slot, err := uc.resolveSlot(schedule, req)
	if err != nil {
		return nil, err
	}

	// 4. Проверяем дату относительно текущего времени
	if err := validateDate(slot.Date, slot.Start, uc.timeProvider.Now(), uc.location, uc.maxAdvanceDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	key := domain.SlotKey{ScheduleID: schedule.ID, Date: slot.Date, Start: slot.Start}

	var created *domain.Appointment

	// 5. Проверка и вставка под блокировкой слота
	err = uc.locker.WithSlotLock(ctx, key.String(), func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 5.1. Перечитываем расписание с блокировкой FOR SHARE:
			// удаление и изменение расписания ждут коммита этой транзакции
			current, err := uc.scheduleRepo.GetByIDForShare(txCtx, req.ScheduleID)
			if err != nil {
				if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
					uc.logger.Warn("CreateBooking: schedule id=%d removed before reservation", req.ScheduleID)
					return ErrScheduleNotFound
				}
				return err
			}

			// 5.2. Слот должен существовать в актуальной версии расписания
			currentSlot, err := uc.resolveSlot(current, req)
			if err != nil {
				return err
			}

			// 5.3. Активные записи на эту дату с блокировкой строк
			active, err := uc.appointmentRepo.ListActiveBySlotDate(txCtx, current.ID, currentSlot.Date)
			if err != nil {
				return err
			}

			// 5.4. Слот уже занят
			if hasActiveAt(active, currentSlot.Start) {
				return ErrSlotTaken
			}

			// 5.5. Создаём запись со снимком стоимости актуального расписания
			now := uc.timeProvider.Now()
			appointment := &domain.Appointment{
				ScheduleID:      current.ID,
				DoctorID:        current.DoctorID,
				PatientID:       req.PatientID,
				AppointmentDate: currentSlot.Date,
				StartTime:       currentSlot.Start,
				EndTime:         currentSlot.End,
				Status:          domain.StatusPending,
				Reason:          req.Reason,
				Fee:             current.ConsultationFee,
				Version:         1,
				InteractedAt:    now,
			}

			created, err = uc.appointmentRepo.Create(txCtx, appointment)
			return err
		})
	})

	if err != nil {
		return nil, uc.mapReserveError(key, err)
	}

	return created, nil
}

// resolveSlot проверяет принадлежность расписания врачу и находит слот запроса
func (uc *UseCase) resolveSlot(schedule *domain.WorkingSchedule, req *Request) (domain.Slot, error) {
	if schedule.DoctorID != req.DoctorID {
		uc.logger.Warn("CreateBooking: schedule id=%d belongs to doctor=%d, not %d",
			schedule.ID, schedule.DoctorID, req.DoctorID)
		return domain.Slot{}, ErrDoctorMismatch
	}

	if err := schedule.Validate(); err != nil {
		uc.logger.Error("CreateBooking: schedule id=%d is invalid: %v", schedule.ID, err)
		return domain.Slot{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	slot, ok := schedule.SlotAt(req.Date, req.StartTime)
	if !ok {
		uc.logger.Warn("CreateBooking: no slot at %s %s for schedule id=%d",
			req.Date.Format(domain.DateFormat), req.StartTime, schedule.ID)
		return domain.Slot{}, fmt.Errorf("%w: %s %s", ErrInvalidSlot, req.Date.Format(domain.DateFormat), req.StartTime)
	}

	return slot, nil
}

// mapReserveError сводит ошибки блокировки, транзакции и хранилища к видам ошибок
func (uc *UseCase) mapReserveError(key domain.SlotKey, err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken):
		uc.logger.Warn("CreateBooking: %s already taken", key)
		return err
	case errors.Is(err, ErrScheduleNotFound),
		errors.Is(err, ErrDoctorMismatch),
		errors.Is(err, ErrInvalidSchedule),
		errors.Is(err, ErrInvalidSlot):
		return err
	case errors.Is(err, slotlock.ErrLockNotAcquired):
		uc.logger.Warn("CreateBooking: %s is locked by another reservation", key)
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case errors.Is(err, appointmentRepo.ErrSlotTaken),
		errors.Is(err, appointmentRepo.ErrSerialization),
		appointmentRepo.IsConflict(err):
		uc.logger.Warn("CreateBooking: %s lost the race: %v", key, err)
		return fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		uc.logger.Warn("CreateBooking: %s aborted: %v", key, err)
		return fmt.Errorf("%w: %v", ErrDependency, err)
	default:
		uc.logger.Error("CreateBooking: failed to reserve %s: %v", key, err)
		return fmt.Errorf("%w: failed to reserve slot: %v", ErrDependency, err)
	}
}

func outcome(err error) string {
	switch domain.KindOf(err) {
	case nil:
		if err != nil {
			return metrics.ReservationError
		}
		return metrics.ReservationCreated
	case domain.ErrConflict:
		return metrics.ReservationConflict
	case domain.ErrValidation, domain.ErrNotFound:
		return metrics.ReservationValidation
	default:
		return metrics.ReservationError
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		ScheduleID:      a.ScheduleID,
		DoctorID:        a.DoctorID,
		PatientID:       a.PatientID,
		AppointmentDate: a.AppointmentDate,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Status:          string(a.Status),
		StatusLabel:     a.Status.Label(),
		Reason:          a.Reason,
		Fee:             a.Fee,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
