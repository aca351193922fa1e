package service

import (
	"sort"
	"strings"
	"time"

	"clinic-register/internal/domain"
)

// SearchPatients case-insensitive substring match on name or condition.
// Empty text returns the input unchanged; any other text, spaces included, is matched as typed.
func SearchPatients(patients []domain.Patient, text string) []domain.Patient {
	if text == "" {
		return patients
	}
	q := strings.ToLower(text)
	out := make([]domain.Patient, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Condition), q) {
			out = append(out, p)
		}
	}
	return out
}

// UpcomingAppointments appointments on or after today, earliest first.
// Equal start times keep insertion order; unparseable date/time sorts last.
func UpcomingAppointments(appointments []domain.Appointment, today string, loc *time.Location) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.Date >= today {
			out = append(out, a)
		}
	}
	sortChronologically(out, loc)
	return out
}

// TodaysAppointments appointments dated today, insertion order
func TodaysAppointments(appointments []domain.Appointment, today string) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range appointments {
		if a.Date == today {
			out = append(out, a)
		}
	}
	return out
}

// AppointmentsForPatient the patient's appointments, earliest first
func AppointmentsForPatient(appointments []domain.Appointment, patientID int64, loc *time.Location) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	sortChronologically(out, loc)
	return out
}

// RecentPatients first n patients in insertion order
func RecentPatients(patients []domain.Patient, n int) []domain.Patient {
	if n < 0 {
		n = 0
	}
	if n > len(patients) {
		n = len(patients)
	}
	return patients[:n]
}

func sortChronologically(appointments []domain.Appointment, loc *time.Location) {
	sort.SliceStable(appointments, func(i, j int) bool {
		ti, okI := appointments[i].StartsAt(loc)
		tj, okJ := appointments[j].StartsAt(loc)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		default:
			return okI && !okJ
		}
	})
}
