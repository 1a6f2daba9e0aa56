package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidScheduleID = "некорректный ID расписания"
	msgInvalidDoctorID   = "некорректный ID врача"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgScheduleNotFound  = "расписание не найдено"
	msgInvalidSchedule   = "расписание врача некорректно"
	msgStoreUnavailable  = "хранилище временно недоступно"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleBySchedule GET /api/v1/schedules/{scheduleId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) HandleBySchedule(w http.ResponseWriter, r *http.Request) {
	const route = "GET /schedules/{id}/available-slots"

	scheduleID, err := strconv.ParseInt(mux.Vars(r)["scheduleId"], 10, 64)
	if err != nil || scheduleID <= 0 {
		h.logger.Warn("%s - Invalid schedule ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	h.handle(w, r, route, scheduleID, 0)
}

// HandleByDoctor GET /api/v1/doctors/{doctorId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) HandleByDoctor(w http.ResponseWriter, r *http.Request) {
	const route = "GET /doctors/{id}/available-slots"

	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("%s - Invalid doctor ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	h.handle(w, r, route, 0, doctorID)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, scheduleID, doctorID int64) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("%s - Missing date", route)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(scheduleID, doctorID, dateStr)
	if err != nil {
		h.logger.Warn("%s - Invalid date format: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrScheduleNotFound):
			h.logger.Warn("%s - Schedule not found: schedule_id=%d, doctor_id=%d", route, scheduleID, doctorID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidSchedule):
			h.logger.Warn("%s - Invalid schedule: schedule_id=%d, doctor_id=%d", route, scheduleID, doctorID)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, getAvailableSlots.ErrDependency):
			h.logger.Error("%s - Store unavailable: schedule_id=%d, doctor_id=%d, error=%v", route, scheduleID, doctorID, err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("%s - Failed to get slots: schedule_id=%d, doctor_id=%d, error=%v", route, scheduleID, doctorID, err)
			handlers.RespondDomainError(w, err, nil)
		}
		return
	}

	h.logger.Info("%s - Slots retrieved: schedule_id=%d, date=%s, slots=%d, available=%d",
		route, result.ScheduleID, dateStr, len(result.Slots), result.AvailableCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
