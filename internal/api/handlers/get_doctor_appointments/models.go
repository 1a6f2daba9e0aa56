package get_doctor_appointments

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest конвертирует параметры запроса в модель сервиса
func ToServiceRequest(doctorID, userID int64, dateStr, includeInactiveStr string) (*models.GetDoctorAppointmentsRequest, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &models.GetDoctorAppointmentsRequest{
		UserID:   userID,
		DoctorID: doctorID,
		Date:     date,
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
