package delete_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
)

const (
	msgInvalidScheduleID = "некорректный ID расписания"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "расписание не найдено"
	msgForbidden         = "доступ запрещен"
	msgInUse             = "на расписание есть активные записи"
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

// Handle DELETE /api/v1/schedules/{scheduleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := strconv.ParseInt(mux.Vars(r)["scheduleId"], 10, 64)
	if err != nil || scheduleID <= 0 {
		h.logger.Warn("DELETE /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /schedules/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), scheduleID, userID); err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("DELETE /schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("DELETE /schedules/{id} - Access denied: schedule_id=%d, user_id=%d", scheduleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrScheduleInUse):
			h.logger.Warn("DELETE /schedules/{id} - Schedule in use: schedule_id=%d", scheduleID)
			handlers.RespondConflict(w, msgInUse)

		default:
			h.logger.Error("DELETE /schedules/{id} - Failed to delete schedule: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondDomainError(w, err, nil)
		}
		return
	}

	h.logger.Info("DELETE /schedules/{id} - Schedule deleted: schedule_id=%d, user_id=%d", scheduleID, userID)
	handlers.RespondNoContent(w)
}
