package create_booking

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	errParseDate = errors.New("invalid appointment date")
	errParseTime = errors.New("invalid start time")
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ScheduleID int64  `json:"scheduleId"`
	DoctorID   int64  `json:"doctorId"`
	PatientID  int64  `json:"patientId,omitempty"` // по умолчанию пользователь из заголовка
	Date       string `json:"date"`                // "2025-03-03"
	StartTime  string `json:"startTime"`           // "08:30"
	Reason     string `json:"reason"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	ScheduleID      int64  `json:"scheduleId"`
	DoctorID        int64  `json:"doctorId"`
	PatientID       int64  `json:"patientId"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Status          string `json:"status"`
	StatusLabel     string `json:"statusLabel"`
	Reason          string `json:"reason"`
	Fee             int64  `json:"fee"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errParseDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errParseTime
	}

	return &createBooking.Request{
		ScheduleID: r.ScheduleID,
		DoctorID:   r.DoctorID,
		PatientID:  r.PatientID,
		Date:       date,
		StartTime:  startTime,
		Reason:     r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		ScheduleID:      resp.ScheduleID,
		DoctorID:        resp.DoctorID,
		PatientID:       resp.PatientID,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		Status:          resp.Status,
		StatusLabel:     resp.StatusLabel,
		Reason:          resp.Reason,
		Fee:             resp.Fee,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
