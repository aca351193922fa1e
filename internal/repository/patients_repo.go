package repository

import (
	"context"
	"fmt"

	"clinic-register/internal/domain"

	"go.uber.org/zap"
)

// PatientRepository CRUD over the register's patient set
type PatientRepository struct {
	reg *Register
}

// Create validates in, assigns the next id and appends the record
func (p *PatientRepository) Create(ctx context.Context, in domain.PatientInput) (domain.Patient, error) {
	if errs := domain.ValidatePatientInput(in); len(errs) > 0 {
		return domain.Patient{}, errs
	}

	r := p.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now()
	patient := domain.Patient{
		ID:        r.nextPatientID(),
		LastVisit: now.Format(domain.DateLayout),
		CreatedAt: now,
		Status:    domain.PatientActive,
	}
	in.Apply(&patient)

	r.patients = append(r.patients, patient)
	r.savePatients(ctx)

	r.logger.Info("patient created", zap.Int64("patient_id", patient.ID))
	return patient, nil
}

// Update replaces the record in place, keeping id and createdAt.
// A rename is copied onto the patient's appointments.
func (p *PatientRepository) Update(ctx context.Context, id int64, in domain.PatientInput) (domain.Patient, error) {
	if errs := domain.ValidatePatientInput(in); len(errs) > 0 {
		return domain.Patient{}, errs
	}

	r := p.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.patientIndex(id)
	if idx < 0 {
		return domain.Patient{}, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}

	old := r.patients[idx]
	updated := domain.Patient{
		ID:        old.ID,
		CreatedAt: old.CreatedAt,
		LastVisit: r.Today(),
		Status:    domain.PatientActive,
	}
	in.Apply(&updated)
	r.patients[idx] = updated
	r.savePatients(ctx)

	if updated.Name != old.Name {
		renamed := 0
		for i := range r.appointments {
			if r.appointments[i].PatientID == id {
				r.appointments[i].PatientName = updated.Name
				renamed++
			}
		}
		if renamed > 0 {
			r.saveAppointments(ctx)
		}
	}

	r.logger.Info("patient updated", zap.Int64("patient_id", id))
	return updated, nil
}

// SetStatus changes only the care status
func (p *PatientRepository) SetStatus(ctx context.Context, id int64, status domain.PatientStatus) (domain.Patient, error) {
	if !status.Valid() {
		return domain.Patient{}, domain.FieldErrors{"status": "Valid status is required"}
	}

	r := p.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.patientIndex(id)
	if idx < 0 {
		return domain.Patient{}, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	r.patients[idx].Status = status
	r.savePatients(ctx)
	return r.patients[idx], nil
}

// Delete removes the patient and every appointment that references it.
// Returns how many appointments were removed along with it.
func (p *PatientRepository) Delete(ctx context.Context, id int64) (int, error) {
	r := p.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.patientIndex(id)
	if idx < 0 {
		return 0, fmt.Errorf("patient %d: %w", id, ErrNotFound)
	}
	r.patients = append(r.patients[:idx], r.patients[idx+1:]...)

	kept := r.appointments[:0]
	removed := 0
	for _, a := range r.appointments {
		if a.PatientID == id {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.appointments = kept

	r.savePatients(ctx)
	r.saveAppointments(ctx)

	r.logger.Info("patient deleted",
		zap.Int64("patient_id", id),
		zap.Int("appointments_removed", removed),
	)
	return removed, nil
}

// FindByID returns a copy of the patient
func (p *PatientRepository) FindByID(_ context.Context, id int64) (domain.Patient, bool) {
	r := p.reg
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.patientIndex(id)
	if idx < 0 {
		return domain.Patient{}, false
	}
	return r.patients[idx], true
}

// List copy of all patients in insertion order
func (p *PatientRepository) List(_ context.Context) []domain.Patient {
	r := p.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePatients(r.patients)
}

func (r *Register) patientIndex(id int64) int {
	for i := range r.patients {
		if r.patients[i].ID == id {
			return i
		}
	}
	return -1
}

// nextPatientID one past the highest id seen by this process, so a deleted id is not handed out again.
// Appointment patient ids count too: a new patient must not inherit a dangling appointment.
func (r *Register) nextPatientID() int64 {
	for _, p := range r.patients {
		if p.ID > r.patientSeq {
			r.patientSeq = p.ID
		}
	}
	for _, a := range r.appointments {
		if a.PatientID > r.patientSeq {
			r.patientSeq = a.PatientID
		}
	}
	r.patientSeq++
	return r.patientSeq
}
