package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Slot a derived candidate appointment window; never persisted
type Slot struct {
	Date      time.Time
	Start     types.TimeString
	End       types.TimeString
	Available bool
}

// StartsAt is the instant the slot begins in the clinic timezone
func (s Slot) StartsAt(loc *time.Location) time.Time {
	return SlotStart(s.Date, s.Start, loc)
}

// Started reports whether the slot has begun at now
func (s Slot) Started(now time.Time, loc *time.Location) bool {
	return !now.Before(s.StartsAt(loc))
}

// SlotStart places start on the calendar date of date in loc
func SlotStart(date time.Time, start types.TimeString, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return start.OnDate(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// SlotKey identifies the resource two reservations can contend for
type SlotKey struct {
	ScheduleID int64
	Date       time.Time
	Start      types.TimeString
}

// String is used as the lock name
func (k SlotKey) String() string {
	return fmt.Sprintf("slot:%d:%s:%s", k.ScheduleID, k.Date.Format(DateFormat), k.Start)
}

// ResolveAvailability marks each slot unavailable when an active appointment
// starts at the same minute. Inactive appointments are ignored. The input
// slice is not modified.
func ResolveAvailability(slots []Slot, appointments []*Appointment) []Slot {
	taken := make(map[int]struct{}, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		taken[a.StartTime.Minutes()] = struct{}{}
	}

	resolved := make([]Slot, len(slots))
	for i, slot := range slots {
		_, busy := taken[slot.Start.Minutes()]
		slot.Available = !busy
		resolved[i] = slot
	}
	return resolved
}

// CountAvailable number of available slots
func CountAvailable(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
