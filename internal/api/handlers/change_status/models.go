package change_status

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
)

var (
	errTargetMissing   = errors.New("status or action is required")
	errTargetAmbiguous = errors.New("status and action disagree")
	errUnknownAction   = errors.New("unknown action")
)

// ChangeStatusRequest HTTP request model. Указывается status или action.
type ChangeStatusRequest struct {
	Status             string  `json:"status,omitempty"` // "CONFIRMED"
	Action             string  `json:"action,omitempty"` // "confirm", "cancel", "complete"
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	ScheduleID         int64      `json:"scheduleId"`
	DoctorID           int64      `json:"doctorId"`
	PatientID          int64      `json:"patientId"`
	AppointmentDate    string     `json:"appointmentDate"`
	StartTime          string     `json:"startTime"`
	EndTime            string     `json:"endTime"`
	Status             string     `json:"status"`
	StatusLabel        string     `json:"statusLabel"`
	NextActions        []string   `json:"nextActions"`
	Reason             string     `json:"reason"`
	Fee                int64      `json:"fee"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	Version            int        `json:"version"`
	InteractedAt       string     `json:"interactedAt"`
}

// target разрешает целевой статус из status или action
func (r *ChangeStatusRequest) target() (domain.Status, error) {
	var fromAction domain.Status
	if r.Action != "" {
		status, ok := domain.Action(r.Action).Target()
		if !ok {
			return "", errUnknownAction
		}
		fromAction = status
	}

	if r.Status == "" {
		if fromAction == "" {
			return "", errTargetMissing
		}
		return fromAction, nil
	}

	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return "", err
	}
	if fromAction != "" && fromAction != status {
		return "", errTargetAmbiguous
	}
	return status, nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeStatusRequest) ToUseCaseRequest(appointmentID, userID int64) (*changeStatus.Request, error) {
	status, err := r.target()
	if err != nil {
		return nil, err
	}

	return &changeStatus.Request{
		AppointmentID:      appointmentID,
		ActorID:            userID,
		Status:             status,
		CancellationReason: r.CancellationReason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *changeStatus.Response) *AppointmentResponse {
	actions := make([]string, len(resp.NextActions))
	for i, a := range resp.NextActions {
		actions[i] = string(a)
	}

	return &AppointmentResponse{
		ID:                 resp.ID,
		ScheduleID:         resp.ScheduleID,
		DoctorID:           resp.DoctorID,
		PatientID:          resp.PatientID,
		AppointmentDate:    resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		EndTime:            resp.EndTime.String(),
		Status:             string(resp.Status),
		StatusLabel:        resp.StatusLabel,
		NextActions:        actions,
		Reason:             resp.Reason,
		Fee:                resp.Fee,
		CancellationReason: resp.CancellationReason,
		CancelledAt:        resp.CancelledAt,
		Version:            resp.Version,
		InteractedAt:       resp.InteractedAt.Format(time.RFC3339),
	}
}
