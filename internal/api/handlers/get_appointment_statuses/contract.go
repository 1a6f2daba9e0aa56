package get_appointment_statuses

import "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"

type AppointmentService interface {
	StatusCatalogue() []models.StatusResponse
}
