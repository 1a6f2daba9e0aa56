package create_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные расписания"
	msgAlreadyExists      = "у врача уже есть расписание"
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

// Handle POST /api/v1/schedules
// Врачом расписания становится пользователь из заголовка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /schedules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("POST /schedules - Invalid data: doctor_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, schedules.ErrScheduleAlreadyExists):
			h.logger.Warn("POST /schedules - Schedule already exists: doctor_id=%d", userID)
			handlers.RespondConflict(w, msgAlreadyExists)

		default:
			h.logger.Error("POST /schedules - Failed to create schedule: doctor_id=%d, error=%v", userID, err)
			handlers.RespondDomainError(w, err, nil)
		}
		return
	}

	h.logger.Info("POST /schedules - Schedule created: schedule_id=%d, doctor_id=%d", result.ID, result.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
