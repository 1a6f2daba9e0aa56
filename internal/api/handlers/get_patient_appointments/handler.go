package get_patient_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidPatientID = "некорректный ID пациента"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgInvalidStatus    = "некорректный статус"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/patients/{patientId}/appointments
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseInt(mux.Vars(r)["patientId"], 10, 64)
	if err != nil || patientID <= 0 {
		h.logger.Warn("GET /patients/{id}/appointments - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /patients/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetPatientAppointmentsRequest{
		UserID:    userID,
		PatientID: patientID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetPatientAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /patients/{id}/appointments - Access denied: patient_id=%d, user_id=%d", patientID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /patients/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /patients/{id}/appointments - Failed to get appointments: patient_id=%d, error=%v", patientID, err)
			handlers.RespondDomainError(w, err, nil)
		}
		return
	}

	h.logger.Info("GET /patients/{id}/appointments - Appointments retrieved: patient_id=%d, count=%d", patientID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
