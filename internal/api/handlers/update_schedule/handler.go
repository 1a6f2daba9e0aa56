package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules/models"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные расписания"
	msgNotFound           = "расписание не найдено"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/schedules/{scheduleId}
// Меняются только переданные поля, уже созданные записи не затрагиваются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := strconv.ParseInt(mux.Vars(r)["scheduleId"], 10, 64)
	if err != nil || scheduleID <= 0 {
		h.logger.Warn("PUT /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /schedules/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.Update(r.Context(), scheduleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PUT /schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PUT /schedules/{id} - Access denied: schedule_id=%d, user_id=%d", scheduleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PUT /schedules/{id} - Invalid data: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /schedules/{id} - Failed to update schedule: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondDomainError(w, err, nil)
		}
		return
	}

	h.logger.Info("PUT /schedules/{id} - Schedule updated: schedule_id=%d, user_id=%d", scheduleID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
