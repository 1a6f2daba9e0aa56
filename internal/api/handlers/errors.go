package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgValidation        = "некорректные данные запроса"
	msgNotFound          = "ресурс не найден"
	msgForbidden         = "доступ запрещен"
	msgConflict          = "конфликт: данные изменились, обновите и повторите"
	msgIllegalTransition = "недопустимый переход статуса"
	msgDependency        = "хранилище временно недоступно"
)

// StatusFor код HTTP для вида ошибки
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDependency):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает по виду ошибки. messages переопределяет текст
// для конкретных ошибок, остальные получают общий текст своего вида.
func RespondDomainError(w http.ResponseWriter, err error, messages map[error]string) {
	for target, msg := range messages {
		if errors.Is(err, target) {
			RespondError(w, StatusFor(err), msg)
			return
		}
	}

	switch status := StatusFor(err); status {
	case http.StatusBadRequest:
		RespondBadRequest(w, msgValidation)
	case http.StatusNotFound:
		RespondNotFound(w, msgNotFound)
	case http.StatusForbidden:
		RespondForbidden(w, msgForbidden)
	case http.StatusConflict:
		if errors.Is(err, domain.ErrIllegalTransition) {
			RespondConflict(w, msgIllegalTransition)
			return
		}
		RespondConflict(w, msgConflict)
	case http.StatusServiceUnavailable:
		RespondServiceUnavailable(w, msgDependency)
	default:
		RespondInternalError(w)
	}
}
