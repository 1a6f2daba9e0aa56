package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Service сервис чтения записей на приём
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видят только её пациент и врач.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if userID != appointment.PatientID && userID != appointment.DoctorID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetPatientAppointments история записей пациента, включая завершённые и отменённые.
// Опционально фильтрует по статусу.
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: patient=%d, user=%d, status=%v", req.PatientID, req.UserID, req.Status)

	if req.UserID != req.PatientID {
		s.logger.Warn("GetPatientAppointments: access denied for user=%d to patient=%d", req.UserID, req.PatientID)
		return nil, ErrAccessDenied
	}

	filter := domain.AppointmentsFilter{PatientID: &req.PatientID, IncludeInactive: true}

	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientAppointments: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = ptr.Ptr(status)
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: fetched %d appointments for patient=%d", len(list), req.PatientID)
	return models.FromDomainAppointmentList(list), nil
}

// GetDoctorAppointments записи врача на день, по умолчанию только активные.
// Доступно только самому врачу.
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: doctor=%d, user=%d, date=%s, includeInactive=%t",
		req.DoctorID, req.UserID, req.Date.Format(domain.DateFormat), req.IncludeInactive)

	if req.UserID != req.DoctorID {
		s.logger.Warn("GetDoctorAppointments: access denied for user=%d to doctor=%d", req.UserID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		DoctorID:        &req.DoctorID,
		Date:            ptr.Ptr(domain.DateOnly(req.Date)),
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: fetched %d appointments for doctor=%d", len(list), req.DoctorID)
	return models.FromDomainAppointmentList(list), nil
}

// StatusCatalogue список статусов с подписями и допустимыми действиями
func (s *Service) StatusCatalogue() []models.StatusResponse {
	return models.FromStatusCatalogue(domain.StatusCatalogue())
}
