package repository

import (
	"context"
	"fmt"

	"clinic-register/internal/domain"

	"go.uber.org/zap"
)

// AppointmentRepository CRUD and status lifecycle over the register's appointment set
type AppointmentRepository struct {
	reg *Register
}

// Create validates in, resolves the patient name and appends a scheduled appointment.
// An unresolved patient gets the placeholder name unless the register rejects unknown patients.
func (a *AppointmentRepository) Create(ctx context.Context, in domain.AppointmentInput) (domain.Appointment, error) {
	r := a.reg
	if errs := domain.ValidateAppointmentInput(in, r.Today()); len(errs) > 0 {
		return domain.Appointment{}, errs
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := domain.UnknownPatientName
	if idx := r.patientIndex(in.PatientID); idx >= 0 {
		name = r.patients[idx].Name
	} else if r.rejectUnknownPatient {
		return domain.Appointment{}, domain.FieldErrors{"patientId": "Patient not found"}
	} else {
		r.logger.Warn("appointment references unknown patient", zap.Int64("patient_id", in.PatientID))
	}

	appt := domain.Appointment{
		ID:          r.nextAppointmentID(),
		PatientID:   in.PatientID,
		PatientName: name,
		Date:        in.Date,
		Time:        in.Time,
		Doctor:      in.Doctor,
		Department:  in.Department,
		Notes:       in.Notes,
		Status:      domain.AppointmentScheduled,
	}
	r.appointments = append(r.appointments, appt)
	r.saveAppointments(ctx)

	r.logger.Info("appointment created",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("patient_id", appt.PatientID),
	)
	return appt, nil
}

// UpdateStatus replaces only the status, subject to the register's transition policy
func (a *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (domain.Appointment, error) {
	if !status.Valid() {
		return domain.Appointment{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	r := a.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.appointmentIndex(id)
	if idx < 0 {
		return domain.Appointment{}, fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	from := r.appointments[idx].Status
	if err := r.transitions.Check(from, status); err != nil {
		return domain.Appointment{}, err
	}
	if from == status {
		return r.appointments[idx], nil
	}

	r.appointments[idx].Status = status
	r.saveAppointments(ctx)

	r.logger.Info("appointment status changed",
		zap.Int64("appointment_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)
	return r.appointments[idx], nil
}

// Delete removes a single appointment
func (a *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	r := a.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.appointmentIndex(id)
	if idx < 0 {
		return fmt.Errorf("appointment %d: %w", id, ErrNotFound)
	}
	r.appointments = append(r.appointments[:idx], r.appointments[idx+1:]...)
	r.saveAppointments(ctx)
	return nil
}

func (a *AppointmentRepository) FindByID(_ context.Context, id int64) (domain.Appointment, bool) {
	r := a.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.appointmentIndex(id)
	if idx < 0 {
		return domain.Appointment{}, false
	}
	return r.appointments[idx], true
}

// List copy of all appointments in insertion order
func (a *AppointmentRepository) List(_ context.Context) []domain.Appointment {
	r := a.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAppointments(r.appointments)
}

// ListByPatient appointments referencing patientID, insertion order
func (a *AppointmentRepository) ListByPatient(_ context.Context, patientID int64) []domain.Appointment {
	r := a.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Appointment, 0)
	for _, appt := range r.appointments {
		if appt.PatientID == patientID {
			out = append(out, appt)
		}
	}
	return out
}

func (r *Register) appointmentIndex(id int64) int {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			return i
		}
	}
	return -1
}

// nextAppointmentID creation-time based id, bumped past the largest existing id
func (r *Register) nextAppointmentID() int64 {
	id := r.clock().UnixMilli()
	for _, a := range r.appointments {
		if a.ID >= id {
			id = a.ID + 1
		}
	}
	return id
}
