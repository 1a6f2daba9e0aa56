package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
)

// UseCase use case для получения слотов врача на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// loc часовой пояс клиники, nil означает UTC.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		timeProvider:    &RealTimeProvider{},
		location:        loc,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает все слоты расписания на дату с признаком доступности.
// Доступность вычисляется по активным записям при каждом запросе и нигде не кэшируется.
// Слоты, которые уже начались, возвращаются недоступными.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: schedule=%d, doctor=%d, date=%s",
		req.ScheduleID, req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Находим расписание по ID или по врачу
	schedule, err := uc.resolveSchedule(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := schedule.Validate(); err != nil {
		uc.logger.Error("GetAvailableSlots: schedule id=%d is invalid: %v", schedule.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	date := domain.DateOnly(req.Date)
	response := &Response{
		Date:                date,
		ScheduleID:          schedule.ID,
		DoctorID:            schedule.DoctorID,
		SlotDurationMinutes: schedule.SlotDurationMinutes,
		ConsultationFee:     schedule.ConsultationFee,
		Slots:               []Slot{},
	}

	// 3. Генерируем слоты, в нерабочий день список пуст
	candidates := schedule.GenerateSlots(date)
	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: schedule id=%d has no slots on %s", schedule.ID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 4. Активные записи на дату
	appointments, err := uc.appointmentRepo.ListActiveBySlotDate(ctx, schedule.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrDependency, err)
	}

	// 5. Отмечаем занятые и уже начавшиеся слоты
	resolved := domain.ResolveAvailability(candidates, appointments)
	now := uc.timeProvider.Now()

	for i := range resolved {
		if resolved[i].Started(now, uc.location) {
			resolved[i].Available = false
		}
		response.Slots = append(response.Slots, Slot{
			StartTime: resolved[i].Start,
			EndTime:   resolved[i].End,
			Available: resolved[i].Available,
		})
	}
	response.AvailableCount = domain.CountAvailable(resolved)

	uc.logger.Info("GetAvailableSlots: %d/%d slots available for schedule id=%d on %s",
		response.AvailableCount, len(response.Slots), schedule.ID, date.Format(domain.DateFormat))

	return response, nil
}

func (uc *UseCase) resolveSchedule(ctx context.Context, req *Request) (*domain.WorkingSchedule, error) {
	var (
		schedule *domain.WorkingSchedule
		err      error
	)

	if req.ScheduleID > 0 {
		schedule, err = uc.scheduleRepo.GetByID(ctx, req.ScheduleID)
	} else {
		schedule, err = uc.scheduleRepo.GetActiveByDoctor(ctx, req.DoctorID)
	}

	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetAvailableSlots: schedule not found (schedule=%d, doctor=%d)", req.ScheduleID, req.DoctorID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrDependency, err)
	}

	if req.ScheduleID > 0 && req.DoctorID > 0 && schedule.DoctorID != req.DoctorID {
		uc.logger.Warn("GetAvailableSlots: schedule id=%d does not belong to doctor=%d", schedule.ID, req.DoctorID)
		return nil, ErrScheduleNotFound
	}

	return schedule, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ScheduleID < 0 || req.DoctorID < 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	if req.ScheduleID == 0 && req.DoctorID == 0 {
		return fmt.Errorf("%w: scheduleId or doctorId is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
