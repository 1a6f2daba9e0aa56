package get_doctor_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgMissingDate     = "дата обязательна"
	msgInvalidParams   = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/doctors/{doctorId}/appointments
// Query params: date (обязательно), includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /doctors/{id}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /doctors/{id}/appointments - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	serviceReq, err := ToServiceRequest(doctorID, userID, dateStr, r.URL.Query().Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetDoctorAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /doctors/{id}/appointments - Access denied: doctor_id=%d, user_id=%d", doctorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /doctors/{id}/appointments - Failed to get appointments: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondDomainError(w, err, nil)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/appointments - Appointments retrieved: doctor_id=%d, date=%s, count=%d",
		doctorID, dateStr, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
