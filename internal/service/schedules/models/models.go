package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// CreateScheduleRequest запрос на создание расписания.
// Врачом расписания становится пользователь из заголовка.
type CreateScheduleRequest struct {
	UserID              int64             `json:"-"`
	WorkingDays         domain.WeekdaySet `json:"workingDays"`     // ["MON","WED","FRI"]
	StartTime           types.TimeString  `json:"startTime"`       // "08:00"
	EndTime             types.TimeString  `json:"endTime"`         // "17:00"
	SlotDurationMinutes int               `json:"slotDuration"`    // минуты
	ConsultationFee     int64             `json:"consultationFee"` // в минимальных единицах валюты
}

// UpdateScheduleRequest частичное обновление, меняются только переданные поля
type UpdateScheduleRequest struct {
	UserID              int64              `json:"-"`
	WorkingDays         *domain.WeekdaySet `json:"workingDays,omitempty"`
	StartTime           *types.TimeString  `json:"startTime,omitempty"`
	EndTime             *types.TimeString  `json:"endTime,omitempty"`
	SlotDurationMinutes *int               `json:"slotDuration,omitempty"`
	ConsultationFee     *int64             `json:"consultationFee,omitempty"`
}

// Response модели

// ScheduleResponse ответ с данными расписания
type ScheduleResponse struct {
	ID                  int64     `json:"id"`
	DoctorID            int64     `json:"doctorId"`
	WorkingDays         []string  `json:"workingDays"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDuration"`
	ConsultationFee     int64     `json:"consultationFee"`
	SlotsPerDay         int       `json:"slotsPerDay"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.WorkingSchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	slotsPerDay := 0
	if s.SlotDurationMinutes > 0 && s.StartTime.IsBefore(s.EndTime) {
		slotsPerDay = (s.EndTime.Minutes() - s.StartTime.Minutes()) / s.SlotDurationMinutes
	}

	return &ScheduleResponse{
		ID:                  s.ID,
		DoctorID:            s.DoctorID,
		WorkingDays:         s.WorkingDays.Tokens(),
		StartTime:           s.StartTime.String(),
		EndTime:             s.EndTime.String(),
		SlotDurationMinutes: s.SlotDurationMinutes,
		ConsultationFee:     s.ConsultationFee,
		SlotsPerDay:         slotsPerDay,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// ToDomainSchedule конвертирует CreateScheduleRequest в domain модель
func (r *CreateScheduleRequest) ToDomainSchedule() *domain.WorkingSchedule {
	return &domain.WorkingSchedule{
		DoctorID:            r.UserID,
		WorkingDays:         r.WorkingDays,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		ConsultationFee:     r.ConsultationFee,
	}
}

// ApplyTo переносит переданные поля в расписание
func (r *UpdateScheduleRequest) ApplyTo(s *domain.WorkingSchedule) {
	if r.WorkingDays != nil {
		s.WorkingDays = *r.WorkingDays
	}
	if r.StartTime != nil {
		s.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		s.EndTime = *r.EndTime
	}
	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.ConsultationFee != nil {
		s.ConsultationFee = *r.ConsultationFee
	}
}
