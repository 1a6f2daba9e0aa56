package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ScheduleID      int64           `json:"scheduleId"`
	DoctorID        int64           `json:"doctorId"`
	SlotDuration    int             `json:"slotDuration"`
	ConsultationFee int64           `json:"consultationFee"`
	AvailableCount  int             `json:"availableCount"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"` // "08:00"
	EndTime   string `json:"endTime"`   // "08:30"
	Available bool   `json:"available"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case.
// Заполняется один из scheduleID/doctorID.
func ToUseCaseRequest(scheduleID, doctorID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ScheduleID: scheduleID,
		DoctorID:   doctorID,
		Date:       date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Available: s.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ScheduleID:      resp.ScheduleID,
		DoctorID:        resp.DoctorID,
		SlotDuration:    resp.SlotDurationMinutes,
		ConsultationFee: resp.ConsultationFee,
		AvailableCount:  resp.AvailableCount,
		Slots:           slots,
	}
}
