package get_appointment_statuses

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type Handler struct {
	service AppointmentService
}

func NewHandler(service AppointmentService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/v1/appointment-statuses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.StatusCatalogue())
}
