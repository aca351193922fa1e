package repository

import (
	"time"

	"clinic-register/internal/domain"
)

func seedDate(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

// DefaultPatients records loaded when the patient slot is empty
func DefaultPatients() []domain.Patient {
	return []domain.Patient{
		{
			ID: 1, Name: "John Doe", Age: 45,
			Email: "john.doe@email.com", Phone: "1234567890",
			Condition: "Hypertension", BloodType: "A+", Allergies: "Penicillin",
			LastVisit: "2024-01-15", CreatedAt: seedDate("2024-01-01"),
			Status: domain.PatientActive,
		},
		{
			ID: 2, Name: "Jane Smith", Age: 32,
			Email: "jane.smith@email.com", Phone: "0987654321",
			Condition: "Diabetes", BloodType: "B-", Allergies: "None",
			LastVisit: "2024-01-10", CreatedAt: seedDate("2024-01-02"),
			Status: domain.PatientActive,
		},
		{
			ID: 3, Name: "Michael Brown", Age: 58,
			Email: "m.brown@email.com", Phone: "5551234567",
			Condition: "Arthritis", BloodType: "O+", Allergies: "Aspirin",
			LastVisit: "2024-01-12", CreatedAt: seedDate("2024-01-03"),
			Status: domain.PatientRecovery,
		},
	}
}

// DefaultAppointments records loaded when the appointment slot is empty
func DefaultAppointments() []domain.Appointment {
	return []domain.Appointment{
		{
			ID: 1, PatientID: 1, PatientName: "John Doe",
			Date: "2024-01-20", Time: "10:00",
			Doctor: "Dr. Sarah Brown", Department: "Cardiology",
			Notes:  "Regular checkup and blood pressure monitoring",
			Status: domain.AppointmentScheduled,
		},
		{
			ID: 2, PatientID: 2, PatientName: "Jane Smith",
			Date: "2024-01-21", Time: "14:30",
			Doctor: "Dr. James Wilson", Department: "Endocrinology",
			Notes:  "Diabetes management and insulin adjustment",
			Status: domain.AppointmentScheduled,
		},
		{
			ID: 3, PatientID: 3, PatientName: "Michael Brown",
			Date: "2024-01-22", Time: "11:15",
			Doctor: "Dr. Emily Chen", Department: "Rheumatology",
			Notes:  "Joint pain evaluation and treatment plan review",
			Status: domain.AppointmentConfirmed,
		},
	}
}
