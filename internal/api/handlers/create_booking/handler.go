package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "нельзя записать другого пациента"
	msgInvalidDate        = "некорректный формат даты приёма, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные данные записи"
	msgScheduleNotFound   = "расписание не найдено"
	msgDoctorMismatch     = "расписание принадлежит другому врачу"
	msgInvalidSchedule    = "расписание врача некорректно"
	msgInvalidSlot        = "в расписании нет слота с таким временем начала"
	msgDateInPast         = "слот уже начался или прошёл"
	msgDateTooFar         = "дата приёма слишком далеко в будущем"
	msgSlotTaken          = "выбранный слот уже занят"
	msgStoreUnavailable   = "хранилище временно недоступно"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Пациент записывает себя сам
	if req.PatientID == 0 {
		req.PatientID = userID
	}
	if req.PatientID != userID {
		h.logger.Warn("POST /appointments - Patient mismatch: user_id=%d, patient_id=%d", userID, req.PatientID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errParseTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /appointments - Slot taken: schedule_id=%d, date=%s, start=%s",
				req.ScheduleID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrScheduleNotFound):
			h.logger.Warn("POST /appointments - Schedule not found: schedule_id=%d", req.ScheduleID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, createBooking.ErrDoctorMismatch):
			h.logger.Warn("POST /appointments - Doctor mismatch: schedule_id=%d, doctor_id=%d", req.ScheduleID, req.DoctorID)
			handlers.RespondBadRequest(w, msgDoctorMismatch)

		case errors.Is(err, createBooking.ErrInvalidSchedule):
			h.logger.Warn("POST /appointments - Invalid schedule: schedule_id=%d", req.ScheduleID)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /appointments - Invalid slot: schedule_id=%d, date=%s, start=%s",
				req.ScheduleID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /appointments - Slot in the past: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrDependency):
			h.logger.Error("POST /appointments - Store unavailable: schedule_id=%d, error=%v", req.ScheduleID, err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: schedule_id=%d, patient_id=%d, error=%v",
				req.ScheduleID, req.PatientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, schedule_id=%d, patient_id=%d",
		result.ID, result.ScheduleID, result.PatientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
