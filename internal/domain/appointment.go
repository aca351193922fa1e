package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimeLayout time-of-day format for appointments
const TimeLayout = "15:04"

// UnknownPatientName placeholder used when an appointment's patient cannot be resolved
const UnknownPatientName = "Unknown Patient"

var (
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// AppointmentStatus appointment lifecycle status
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses all statuses in lifecycle order
var AppointmentStatuses = []AppointmentStatus{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentCompleted,
	AppointmentCancelled,
}

// Valid reports whether s is a known appointment status
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s under the strict policy
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// Appointment scheduled encounter between one patient and a doctor/department
type Appointment struct {
	ID          int64             `json:"id"`
	PatientID   int64             `json:"patientId"`
	PatientName string            `json:"patientName"` // denormalized copy of the patient's name
	Date        string            `json:"date"`        // YYYY-MM-DD
	Time        string            `json:"time"`        // HH:MM
	Doctor      string            `json:"doctor"`
	Department  string            `json:"department"`
	Notes       string            `json:"notes,omitempty"`
	Status      AppointmentStatus `json:"status"`
}

// StartsAt combined date+time. ok is false when either part does not parse.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, a.Date+"T"+a.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AppointmentInput submitted appointment form
type AppointmentInput struct {
	PatientID  int64  `json:"patientId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Doctor     string `json:"doctor"`
	Department string `json:"department"`
	Notes      string `json:"notes"`
}

// TransitionPolicy decides whether an appointment may move between two statuses
type TransitionPolicy string

const (
	// TransitionStrict scheduled -> {confirmed, cancelled}, confirmed -> {completed, cancelled}
	TransitionStrict TransitionPolicy = "strict"
	// TransitionPermissive any status may follow any other
	TransitionPermissive TransitionPolicy = "permissive"
)

var strictTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled: {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// ParseTransitionPolicy maps a config value to a policy, defaulting to strict
func ParseTransitionPolicy(s string) TransitionPolicy {
	if TransitionPolicy(s) == TransitionPermissive {
		return TransitionPermissive
	}
	return TransitionStrict
}

// Check returns nil when from -> to is allowed. Re-applying the current status is always allowed.
func (p TransitionPolicy) Check(from, to AppointmentStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == to || p == TransitionPermissive {
		return nil
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}

// NextStatuses statuses reachable from s under the policy
func (p TransitionPolicy) NextStatuses(s AppointmentStatus) []AppointmentStatus {
	if p == TransitionPermissive {
		out := make([]AppointmentStatus, 0, len(AppointmentStatuses)-1)
		for _, st := range AppointmentStatuses {
			if st != s {
				out = append(out, st)
			}
		}
		return out
	}
	return append([]AppointmentStatus(nil), strictTransitions[s]...)
}
