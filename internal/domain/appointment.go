package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Appointment one booking of one slot
type Appointment struct {
	ID              int64
	ScheduleID      int64
	DoctorID        int64
	PatientID       int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          Status
	Reason          string

	// Snapshot of the schedule fee at booking time
	Fee int64

	CancellationReason *string
	CancelledAt        *time.Time

	// Optimistic lock counter, incremented on every status change
	Version int

	InteractedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// IsTerminal returns true if no further transitions are possible
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// SlotKey of the slot this appointment occupies
func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{ScheduleID: a.ScheduleID, Date: DateOnly(a.AppointmentDate), Start: a.StartTime}
}

// Transition applies to if the table allows it. On rejection the appointment
// is left untouched.
func (a *Appointment) Transition(to Status, now time.Time) error {
	if !a.Status.CanTransitionTo(to) {
		return &IllegalTransitionError{From: a.Status, To: to}
	}
	a.Status = to
	a.InteractedAt = now
	if to == StatusCancelled {
		cancelledAt := now
		a.CancelledAt = &cancelledAt
	}
	return nil
}

// AppointmentsFilter filter for listing appointments
type AppointmentsFilter struct {
	ScheduleID      *int64
	DoctorID        *int64
	PatientID       *int64
	Date            *time.Time
	Status          *Status
	IncludeInactive bool
}
