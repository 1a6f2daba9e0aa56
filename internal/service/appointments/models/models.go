package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// GetPatientAppointmentsRequest история записей пациента
type GetPatientAppointmentsRequest struct {
	UserID    int64   `json:"userId"`
	PatientID int64   `json:"patientId"`
	Status    *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// GetDoctorAppointmentsRequest записи врача на день
type GetDoctorAppointmentsRequest struct {
	UserID          int64     `json:"userId"`
	DoctorID        int64     `json:"doctorId"`
	Date            time.Time `json:"date"`
	IncludeInactive bool      `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	ScheduleID         int64      `json:"scheduleId"`
	DoctorID           int64      `json:"doctorId"`
	PatientID          int64      `json:"patientId"`
	AppointmentDate    string     `json:"appointmentDate"` // "2025-03-03"
	StartTime          string     `json:"startTime"`       // "08:00"
	EndTime            string     `json:"endTime"`         // "08:30"
	Status             string     `json:"status"`
	StatusLabel        string     `json:"statusLabel"`
	Active             bool       `json:"active"`
	NextActions        []string   `json:"nextActions"`
	Reason             string     `json:"reason"`
	Fee                int64      `json:"fee"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	Version            int        `json:"version"`
	InteractedAt       time.Time  `json:"interactedAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// StatusResponse элемент каталога статусов
type StatusResponse struct {
	Status       string   `json:"status"`
	Label        string   `json:"label"`
	Active       bool     `json:"active"`
	Terminal     bool     `json:"terminal"`
	NextActions  []string `json:"nextActions"`
	NextStatuses []string `json:"nextStatuses"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 a.ID,
		ScheduleID:         a.ScheduleID,
		DoctorID:           a.DoctorID,
		PatientID:          a.PatientID,
		AppointmentDate:    a.AppointmentDate.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		Status:             string(a.Status),
		StatusLabel:        a.Status.Label(),
		Active:             a.IsActive(),
		NextActions:        actionStrings(a.Status.NextActions()),
		Reason:             a.Reason,
		Fee:                a.Fee,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		Version:            a.Version,
		InteractedAt:       a.InteractedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	out := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: out, Total: len(out)}
}

// FromStatusCatalogue конвертирует каталог статусов
func FromStatusCatalogue(catalogue []domain.StatusInfo) []StatusResponse {
	out := make([]StatusResponse, 0, len(catalogue))
	for _, info := range catalogue {
		next := make([]string, len(info.NextStatuses))
		for i, s := range info.NextStatuses {
			next[i] = string(s)
		}
		out = append(out, StatusResponse{
			Status:       string(info.Status),
			Label:        info.Label,
			Active:       info.Active,
			Terminal:     info.Terminal,
			NextActions:  actionStrings(info.NextActions),
			NextStatuses: next,
		})
	}
	return out
}

func actionStrings(actions []domain.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}
