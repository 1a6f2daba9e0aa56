package change_status

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTarget        = "укажите корректный status или action"
	msgInvalidInput         = "некорректные данные запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgIllegalTransition    = "недопустимый переход статуса"
	msgConcurrentChange     = "запись была изменена, обновите данные и повторите"
	msgStoreUnavailable     = "хранилище временно недоступно"
)

type Handler struct {
	useCase ChangeStatusUseCase
	logger  Logger
}

func NewHandler(useCase ChangeStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PUT /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, userID)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/status - Invalid target: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTarget)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var illegal *domain.IllegalTransitionError
		switch {
		case errors.As(err, &illegal):
			h.logger.Warn("PUT /appointments/{id}/status - Illegal transition: appointment_id=%d, %s -> %s",
				appointmentID, illegal.From, illegal.To)
			handlers.RespondConflict(w, fmt.Sprintf("%s: %s -> %s", msgIllegalTransition, illegal.From, illegal.To))

		case errors.Is(err, changeStatus.ErrConcurrentModification):
			h.logger.Warn("PUT /appointments/{id}/status - Concurrent modification: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgConcurrentChange)

		case errors.Is(err, changeStatus.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id}/status - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, changeStatus.ErrAccessDenied):
			h.logger.Warn("PUT /appointments/{id}/status - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, changeStatus.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, changeStatus.ErrDependency):
			h.logger.Error("PUT /appointments/{id}/status - Store unavailable: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("PUT /appointments/{id}/status - Failed to change status: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/status - Status changed: appointment_id=%d, status=%s, user_id=%d",
		result.ID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
