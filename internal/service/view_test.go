package service

import (
	"testing"
	"time"

	"clinic-register/internal/domain"
	"clinic-register/internal/repository"

	"github.com/stretchr/testify/assert"
)

func ids[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func patientID(p domain.Patient) int64         { return p.ID }
func appointmentID(a domain.Appointment) int64 { return a.ID }

func TestSearchPatients(t *testing.T) {
	patients := repository.DefaultPatients()

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{"empty is identity", "", []int64{1, 2, 3}},
		{"whitespace is matched literally", "   ", []int64{}},
		{"trailing space is not trimmed", "doe ", []int64{}},
		{"name case-insensitive", "JOHN", []int64{1}},
		{"condition substring", "diab", []int64{2}},
		{"matches name or condition", "th", []int64{2, 3}}, // "Smith", "Arthritis"
		{"no match", "zzz", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SearchPatients(patients, tt.text), patientID))
		})
	}
}

func TestUpcomingAppointments_FilterAndOrder(t *testing.T) {
	set := []domain.Appointment{
		{ID: 1, Date: "2024-01-22", Time: "09:00"},
		{ID: 2, Date: "2024-01-19", Time: "09:00"},
		{ID: 3, Date: "2024-01-20", Time: "14:00"},
		{ID: 4, Date: "2024-01-20", Time: "08:30"},
		{ID: 5, Date: "2024-01-22", Time: "09:00"},
	}
	got := UpcomingAppointments(set, "2024-01-20", time.UTC)
	assert.Equal(t, []int64{4, 3, 1, 5}, ids(got, appointmentID))
	assert.Equal(t, int64(1), set[0].ID, "input must not be reordered")
}

func TestUpcomingAppointments_UnparseableSortsLast(t *testing.T) {
	set := []domain.Appointment{
		{ID: 1, Date: "2024-02-01", Time: "late"},
		{ID: 2, Date: "2024-02-01", Time: "10:00"},
	}
	assert.Equal(t, []int64{2, 1}, ids(UpcomingAppointments(set, "2024-01-20", time.UTC), appointmentID))
}

func TestTodaysAppointments(t *testing.T) {
	set := []domain.Appointment{
		{ID: 1, Date: "2024-01-20", Time: "15:00"},
		{ID: 2, Date: "2024-01-21", Time: "09:00"},
		{ID: 3, Date: "2024-01-20", Time: "08:00"},
	}
	assert.Equal(t, []int64{1, 3}, ids(TodaysAppointments(set, "2024-01-20"), appointmentID))
	assert.Empty(t, TodaysAppointments(set, "2023-12-31"))
}

func TestAppointmentsForPatient(t *testing.T) {
	set := []domain.Appointment{
		{ID: 1, PatientID: 7, Date: "2024-03-01", Time: "10:00"},
		{ID: 2, PatientID: 8, Date: "2024-01-01", Time: "10:00"},
		{ID: 3, PatientID: 7, Date: "2024-01-15", Time: "10:00"},
	}
	assert.Equal(t, []int64{3, 1}, ids(AppointmentsForPatient(set, 7, time.UTC), appointmentID))
	assert.Empty(t, AppointmentsForPatient(set, 99, time.UTC))
}

func TestRecentPatients(t *testing.T) {
	patients := repository.DefaultPatients()
	assert.Equal(t, []int64{1, 2}, ids(RecentPatients(patients, 2), patientID))
	assert.Len(t, RecentPatients(patients, 10), 3)
	assert.Empty(t, RecentPatients(patients, -1))
}
