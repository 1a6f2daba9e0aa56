package get_doctor_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
)

const (
	msgInvalidDoctorID  = "некорректный ID врача"
	msgScheduleNotFound = "расписание не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/schedule
// Публичный эндпоинт
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("GET /doctors/{id}/schedule - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	result, err := h.service.GetByDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, schedules.ErrScheduleNotFound) {
			h.logger.Warn("GET /doctors/{id}/schedule - Schedule not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgScheduleNotFound)
			return
		}

		h.logger.Error("GET /doctors/{id}/schedule - Failed to get schedule: doctor_id=%d, error=%v", doctorID, err)
		handlers.RespondDomainError(w, err, nil)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
