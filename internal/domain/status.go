package domain

import (
	"fmt"
	"strings"
)

// Status appointment lifecycle state
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the only place the lifecycle rules are written down.
// Terminal statuses have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

var statusLabels = map[Status]string{
	StatusPending:   "Awaiting confirmation",
	StatusConfirmed: "Confirmed",
	StatusCompleted: "Completed",
	StatusCancelled: "Cancelled",
}

// AllStatuses in lifecycle order
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// ActiveStatuses statuses that occupy a slot
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// ParseStatus parses an uppercase token, case-insensitive
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", NewError(ErrValidation, fmt.Sprintf("unknown appointment status %q", s))
	}
	return status, nil
}

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive reports whether an appointment in this status occupies its slot
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

// CanTransitionTo reports whether s -> target is an edge of the table
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable in one step
func (s Status) NextStatuses() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Label human-readable name
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) String() string {
	return string(s)
}

// Action operation a caller may offer on an appointment
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

var actionTargets = map[Status]Action{
	StatusConfirmed: ActionConfirm,
	StatusCancelled: ActionCancel,
	StatusCompleted: ActionComplete,
}

// Target status the action leads to
func (a Action) Target() (Status, bool) {
	for status, action := range actionTargets {
		if action == a {
			return status, true
		}
	}
	return "", false
}

// NextActions actions allowed from s, derived from the transition table
func (s Status) NextActions() []Action {
	next := transitions[s]
	actions := make([]Action, 0, len(next))
	for _, target := range next {
		actions = append(actions, actionTargets[target])
	}
	return actions
}

// StatusInfo catalogue entry used by UI and reporting
type StatusInfo struct {
	Status       Status
	Label        string
	Active       bool
	Terminal     bool
	NextActions  []Action
	NextStatuses []Status
}

// StatusCatalogue describes every status
func StatusCatalogue() []StatusInfo {
	out := make([]StatusInfo, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		out = append(out, StatusInfo{
			Status:       s,
			Label:        s.Label(),
			Active:       s.IsActive(),
			Terminal:     s.IsTerminal(),
			NextActions:  s.NextActions(),
			NextStatuses: s.NextStatuses(),
		})
	}
	return out
}
