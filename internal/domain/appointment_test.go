package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransitionPolicy_Strict(t *testing.T) {
	p := TransitionStrict

	assert.NoError(t, p.Check(AppointmentScheduled, AppointmentConfirmed))
	assert.NoError(t, p.Check(AppointmentScheduled, AppointmentCancelled))
	assert.NoError(t, p.Check(AppointmentConfirmed, AppointmentCompleted))
	assert.NoError(t, p.Check(AppointmentConfirmed, AppointmentCancelled))
	assert.NoError(t, p.Check(AppointmentCompleted, AppointmentCompleted))

	err := p.Check(AppointmentCompleted, AppointmentScheduled)
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	err = p.Check(AppointmentScheduled, AppointmentCompleted)
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	err = p.Check(AppointmentCancelled, AppointmentConfirmed)
	assert.True(t, errors.Is(err, ErrIllegalTransition))
}

func TestTransitionPolicy_Permissive(t *testing.T) {
	p := TransitionPermissive
	assert.NoError(t, p.Check(AppointmentCompleted, AppointmentScheduled))
	assert.NoError(t, p.Check(AppointmentCancelled, AppointmentConfirmed))
	assert.True(t, errors.Is(p.Check(AppointmentScheduled, "archived"), ErrInvalidStatus))
}

func TestTransitionPolicy_NextStatuses(t *testing.T) {
	assert.Equal(t, []AppointmentStatus{AppointmentConfirmed, AppointmentCancelled}, TransitionStrict.NextStatuses(AppointmentScheduled))
	assert.Empty(t, TransitionStrict.NextStatuses(AppointmentCompleted))
	assert.Len(t, TransitionPermissive.NextStatuses(AppointmentCompleted), 3)
}

func TestParseTransitionPolicy(t *testing.T) {
	assert.Equal(t, TransitionPermissive, ParseTransitionPolicy("permissive"))
	assert.Equal(t, TransitionStrict, ParseTransitionPolicy("strict"))
	assert.Equal(t, TransitionStrict, ParseTransitionPolicy(""))
}

func TestAppointment_StartsAt(t *testing.T) {
	a := Appointment{Date: "2024-01-20", Time: "14:30"}
	got, ok := a.StartsAt(nil)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC), got)

	_, ok = Appointment{Date: "2024-01-20"}.StartsAt(time.UTC)
	assert.False(t, ok)
}
