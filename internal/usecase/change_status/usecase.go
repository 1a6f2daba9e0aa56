package change_status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase смена статуса записи по таблице переходов
type UseCase struct {
	appointmentRepo AppointmentRepository
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute применяет переход статуса.
// Переход вне таблицы возвращает *domain.IllegalTransitionError и ничего не пишет.
// Смены статуса одной записи упорядочены проверкой версии: проигравший
// получает ErrConcurrentModification и должен перечитать запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeStatus: appointment=%d, actor=%d, status=%s", req.AppointmentID, req.ActorID, req.Status)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем запись
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("ChangeStatus: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ChangeStatus: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrDependency, err)
	}

	// 3. Проверяем права: врач меняет любой статус, пациент может только отменить
	if err := authorize(appointment, req); err != nil {
		uc.logger.Warn("ChangeStatus: actor=%d denied for appointment id=%d: %v", req.ActorID, appointment.ID, err)
		return nil, err
	}

	from := appointment.Status
	expectedVersion := appointment.Version

	// 4. Проверяем переход по таблице, запись при отказе не меняется
	if err := appointment.Transition(req.Status, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("ChangeStatus: appointment id=%d: %v", appointment.ID, err)
		uc.metrics.ObserveTransition(string(from), string(req.Status), resultIllegal)
		return nil, err
	}

	if req.Status == domain.StatusCancelled && req.CancellationReason != nil {
		appointment.CancellationReason = ptr.Ptr(strings.TrimSpace(*req.CancellationReason))
	}

	// 5. Сохраняем с проверкой версии
	if err := uc.appointmentRepo.UpdateStatus(ctx, appointment, expectedVersion); err != nil {
		if errors.Is(err, appointmentRepo.ErrVersionMismatch) {
			uc.logger.Warn("ChangeStatus: appointment id=%d version %d is stale", appointment.ID, expectedVersion)
			uc.metrics.ObserveTransition(string(from), string(req.Status), resultConflict)
			return nil, ErrConcurrentModification
		}
		uc.logger.Error("ChangeStatus: failed to update appointment id=%d: %v", appointment.ID, err)
		uc.metrics.ObserveTransition(string(from), string(req.Status), resultError)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrDependency, err)
	}

	uc.metrics.ObserveTransition(string(from), string(req.Status), resultApplied)
	uc.logger.Info("ChangeStatus: appointment id=%d %s -> %s", appointment.ID, from, appointment.Status)

	return toResponse(appointment), nil
}

// authorize ActorID == 0 означает внутренний вызов без проверки прав
func authorize(a *domain.Appointment, req *Request) error {
	switch req.ActorID {
	case 0, a.DoctorID:
		return nil
	case a.PatientID:
		if req.Status == domain.StatusCancelled {
			return nil
		}
		return fmt.Errorf("%w: patient may only cancel", ErrAccessDenied)
	default:
		return ErrAccessDenied
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}

	if !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	if req.CancellationReason != nil {
		if req.Status != domain.StatusCancelled {
			return fmt.Errorf("%w: cancellationReason is only allowed when cancelling", ErrInvalidInput)
		}
		if utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: cancellationReason must be at most %d characters",
				ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
	}

	return nil
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:                 a.ID,
		ScheduleID:         a.ScheduleID,
		DoctorID:           a.DoctorID,
		PatientID:          a.PatientID,
		AppointmentDate:    a.AppointmentDate,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		Status:             a.Status,
		StatusLabel:        a.Status.Label(),
		NextActions:        a.Status.NextActions(),
		Reason:             a.Reason,
		Fee:                a.Fee,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		Version:            a.Version,
		InteractedAt:       a.InteractedAt,
	}
}
