package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingSchedule a doctor's recurring weekly availability template.
// A doctor owns at most one active schedule.
type WorkingSchedule struct {
	ID                  int64
	DoctorID            int64
	WorkingDays         WeekdaySet
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	ConsultationFee     int64 // minor currency units

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the schedule is usable for booking
func (s *WorkingSchedule) Validate() error {
	if err := s.StartTime.Validate(); err != nil {
		return NewError(ErrValidation, fmt.Sprintf("invalid startTime: %v", err))
	}
	if err := s.EndTime.Validate(); err != nil {
		return NewError(ErrValidation, fmt.Sprintf("invalid endTime: %v", err))
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return NewError(ErrValidation, fmt.Sprintf("startTime %s must be before endTime %s", s.StartTime, s.EndTime))
	}
	if s.SlotDurationMinutes < MinSlotDurationMinutes || s.SlotDurationMinutes > MaxSlotDurationMinutes {
		return NewError(ErrValidation, fmt.Sprintf("slotDuration must be between %d and %d minutes",
			MinSlotDurationMinutes, MaxSlotDurationMinutes))
	}
	if s.ConsultationFee < 0 {
		return NewError(ErrValidation, "consultationFee must not be negative")
	}
	if s.WorkingDays.IsEmpty() {
		return NewError(ErrValidation, "workingDays must not be empty")
	}
	return nil
}

// WorksOn reports whether the date's weekday is a working day
func (s *WorkingSchedule) WorksOn(date time.Time) bool {
	return s.WorkingDays.Has(date.Weekday())
}

// GenerateSlots returns the candidate slots of the schedule for a calendar date,
// ordered by start time. A trailing partial interval is dropped. Non-working
// days and degenerate windows yield an empty, non-nil slice. The result
// depends only on the inputs.
func (s *WorkingSchedule) GenerateSlots(date time.Time) []Slot {
	slots := make([]Slot, 0)

	if !s.WorksOn(date) || s.SlotDurationMinutes <= 0 {
		return slots
	}

	start, end := s.StartTime.Minutes(), s.EndTime.Minutes()
	if start < 0 || end < 0 || start >= end {
		return slots
	}

	day := DateOnly(date)
	for m := start; m+s.SlotDurationMinutes <= end; m += s.SlotDurationMinutes {
		slotStart, err := types.FromMinutes(m)
		if err != nil {
			break
		}
		slotEnd, err := slotStart.AddMinutes(s.SlotDurationMinutes)
		if err != nil {
			break
		}
		slots = append(slots, Slot{
			Date:  day,
			Start: slotStart,
			End:   slotEnd,
		})
	}

	return slots
}

// SlotAt finds the generated slot starting at start on date
func (s *WorkingSchedule) SlotAt(date time.Time, start types.TimeString) (Slot, bool) {
	for _, slot := range s.GenerateSlots(date) {
		if slot.Start.Equal(start) {
			return slot, true
		}
	}
	return Slot{}, false
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
