package service

import (
	"math"
	"time"

	"clinic-register/internal/domain"
)

// Stats dashboard figures, derived on every call
type Stats struct {
	TotalPatients        int                              `json:"totalPatients"`
	TodaysAppointments   int                              `json:"todaysAppointments"`
	ActiveCases          int                              `json:"activeCases"` // patients with a recorded condition
	PatientsByStatus     map[domain.PatientStatus]int     `json:"patientsByStatus"`
	AppointmentsByStatus map[domain.AppointmentStatus]int `json:"appointmentsByStatus"`
	CompletionRate       float64                          `json:"completionRate"` // % of non-cancelled appointments completed
	MonthlyGrowth        float64                          `json:"monthlyGrowth"`  // % change in patients created, this month vs last
}

// ComputeStats derives the dashboard figures. now fixes both "today" and the month boundaries.
func ComputeStats(patients []domain.Patient, appointments []domain.Appointment, now time.Time) Stats {
	today := now.Format(domain.DateLayout)
	loc := now.Location()

	st := Stats{
		TotalPatients:        len(patients),
		PatientsByStatus:     make(map[domain.PatientStatus]int),
		AppointmentsByStatus: make(map[domain.AppointmentStatus]int, len(domain.AppointmentStatuses)),
	}
	for _, s := range domain.AppointmentStatuses {
		st.AppointmentsByStatus[s] = 0
	}

	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	var createdThis, createdLast int

	for _, p := range patients {
		if p.Condition != "" {
			st.ActiveCases++
		}
		st.PatientsByStatus[p.Status]++

		created := p.CreatedAt.In(loc)
		switch {
		case !created.Before(thisMonth):
			createdThis++
		case !created.Before(lastMonth):
			createdLast++
		}
	}

	for _, a := range appointments {
		if a.Date == today {
			st.TodaysAppointments++
		}
		st.AppointmentsByStatus[a.Status]++
	}

	completed := st.AppointmentsByStatus[domain.AppointmentCompleted]
	if open := len(appointments) - st.AppointmentsByStatus[domain.AppointmentCancelled]; open > 0 {
		st.CompletionRate = percent(float64(completed) / float64(open))
	}

	switch {
	case createdLast > 0:
		st.MonthlyGrowth = percent(float64(createdThis-createdLast) / float64(createdLast))
	case createdThis > 0:
		st.MonthlyGrowth = 100
	}
	return st
}

// percent ratio as a percentage rounded to one decimal
func percent(ratio float64) float64 {
	return math.Round(ratio*1000) / 10
}
