package service

import (
	"testing"
	"time"

	"clinic-register/internal/domain"
	"clinic-register/internal/repository"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

func TestComputeStats_Defaults(t *testing.T) {
	st := ComputeStats(repository.DefaultPatients(), repository.DefaultAppointments(), testNow)

	assert.Equal(t, 3, st.TotalPatients)
	assert.Equal(t, 1, st.TodaysAppointments)
	assert.Equal(t, 3, st.ActiveCases)
	assert.Equal(t, 2, st.PatientsByStatus[domain.PatientActive])
	assert.Equal(t, 1, st.PatientsByStatus[domain.PatientRecovery])
	assert.Equal(t, 2, st.AppointmentsByStatus[domain.AppointmentScheduled])
	assert.Equal(t, 1, st.AppointmentsByStatus[domain.AppointmentConfirmed])
	assert.Equal(t, 0, st.AppointmentsByStatus[domain.AppointmentCancelled])
	assert.Equal(t, 0.0, st.CompletionRate)
	assert.Equal(t, 100.0, st.MonthlyGrowth, "no patients last month")
}

func TestComputeStats_Rates(t *testing.T) {
	created := func(s string) time.Time {
		ts, _ := time.Parse(domain.DateLayout, s)
		return ts
	}
	patients := []domain.Patient{
		{ID: 1, Condition: "Asthma", CreatedAt: created("2023-12-05")},
		{ID: 2, Condition: "", CreatedAt: created("2023-12-28")},
		{ID: 3, Condition: "Flu", CreatedAt: created("2024-01-02")},
		{ID: 4, Condition: "Flu", CreatedAt: created("2024-01-10")},
		{ID: 5, Condition: "Flu", CreatedAt: created("2024-01-19")},
		{ID: 6, Condition: "Flu", CreatedAt: created("2023-10-01")},
	}
	appointments := []domain.Appointment{
		{ID: 1, Date: "2024-01-20", Status: domain.AppointmentCompleted},
		{ID: 2, Date: "2024-01-20", Status: domain.AppointmentCancelled},
		{ID: 3, Date: "2024-01-22", Status: domain.AppointmentScheduled},
		{ID: 4, Date: "2024-01-25", Status: domain.AppointmentConfirmed},
	}

	st := ComputeStats(patients, appointments, testNow)

	assert.Equal(t, 5, st.ActiveCases)
	assert.Equal(t, 2, st.TodaysAppointments)
	assert.Equal(t, 33.3, st.CompletionRate)
	assert.Equal(t, 50.0, st.MonthlyGrowth)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, nil, testNow)
	assert.Zero(t, st.TotalPatients)
	assert.Zero(t, st.CompletionRate)
	assert.Zero(t, st.MonthlyGrowth)
	assert.Len(t, st.AppointmentsByStatus, len(domain.AppointmentStatuses))
}

func TestComputeStats_NegativeGrowth(t *testing.T) {
	patients := []domain.Patient{
		{ID: 1, CreatedAt: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, -50.0, ComputeStats(patients, nil, testNow).MonthlyGrowth)
}
