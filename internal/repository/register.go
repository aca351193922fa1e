package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"clinic-register/internal/domain"
	"clinic-register/internal/store"

	"go.uber.org/zap"
)

// ErrNotFound returned when an id does not resolve. The operation made no change.
var ErrNotFound = errors.New("not found")

// Storage keys of the two record sets
const (
	PatientsKey     = "healthcare-patients"
	AppointmentsKey = "healthcare-appointments"
)

// Options register construction options
type Options struct {
	Namespace            string                  // key prefix, e.g. "clinic" -> "clinic:healthcare-patients"
	Clock                func() time.Time        // defaults to time.Now
	Location             *time.Location          // defines "today"; defaults to UTC
	Transitions          domain.TransitionPolicy // defaults to strict
	RejectUnknownPatient bool                    // reject appointments whose patient does not resolve
	SeedPatients         []domain.Patient        // used when nothing is stored yet
	SeedAppointments     []domain.Appointment
}

// PersistStatus durability state of the register. Saves never fail a mutation, they land here.
type PersistStatus struct {
	Failures    int        `json:"failures"`
	LastError   string     `json:"last_error,omitempty"`
	LastErrorAt *time.Time `json:"last_error_at,omitempty"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
}

// Register owns the patient and appointment sets for one process.
// All reads and writes of both sets go through mu, so a cascade delete is atomic
// and concurrent callers (HTTP handlers) see one writer at a time.
type Register struct {
	mu sync.Mutex

	patients     []domain.Patient
	appointments []domain.Appointment

	patientSlot     *store.Slot[[]domain.Patient]
	appointmentSlot *store.Slot[[]domain.Appointment]

	clock                func() time.Time
	loc                  *time.Location
	transitions          domain.TransitionPolicy
	rejectUnknownPatient bool

	patientSeq int64 // highest patient id handed out

	persist PersistStatus
	logger  *zap.Logger
}

// Open loads both sets from kv, falling back to the seeds when a slot is empty or unreadable
func Open(ctx context.Context, kv store.KV, opts Options, logger *zap.Logger) *Register {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Transitions == "" {
		opts.Transitions = domain.TransitionStrict
	}

	r := &Register{
		patientSlot:          store.NewSlot[[]domain.Patient](kv, namespaced(opts.Namespace, PatientsKey), logger),
		appointmentSlot:      store.NewSlot[[]domain.Appointment](kv, namespaced(opts.Namespace, AppointmentsKey), logger),
		clock:                opts.Clock,
		loc:                  opts.Location,
		transitions:          opts.Transitions,
		rejectUnknownPatient: opts.RejectUnknownPatient,
		logger:               logger,
	}
	r.patients = clonePatients(r.patientSlot.Load(ctx, opts.SeedPatients))
	r.appointments = cloneAppointments(r.appointmentSlot.Load(ctx, opts.SeedAppointments))

	logger.Info("register loaded",
		zap.Int("patients", len(r.patients)),
		zap.Int("appointments", len(r.appointments)),
		zap.String("transitions", string(r.transitions)),
	)
	return r
}

func namespaced(ns, key string) string {
	if ns == "" {
		return key
	}
	return ns + ":" + key
}

// Patients patient repository view over the register
func (r *Register) Patients() *PatientRepository { return &PatientRepository{reg: r} }

// Appointments appointment repository view over the register
func (r *Register) Appointments() *AppointmentRepository { return &AppointmentRepository{reg: r} }

// Now current time in the register's location
func (r *Register) Now() time.Time { return r.clock().In(r.loc) }

// Today current calendar date, YYYY-MM-DD
func (r *Register) Today() string { return r.Now().Format(domain.DateLayout) }

// Location the register's calendar location
func (r *Register) Location() *time.Location { return r.loc }

// Transitions the active appointment status policy
func (r *Register) Transitions() domain.TransitionPolicy { return r.transitions }

// PersistStatus durability state since the register was opened
func (r *Register) PersistStatus() PersistStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist
}

// Snapshot copies of both sets, taken atomically
func (r *Register) Snapshot() ([]domain.Patient, []domain.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePatients(r.patients), cloneAppointments(r.appointments)
}

// savePatients and saveAppointments must be called with mu held.
// The write outlives the caller's cancellation: the in-memory change is already made.
func (r *Register) savePatients(ctx context.Context) {
	r.recordSave(r.patientSlot.Save(context.WithoutCancel(ctx), r.patients))
}

func (r *Register) saveAppointments(ctx context.Context) {
	r.recordSave(r.appointmentSlot.Save(context.WithoutCancel(ctx), r.appointments))
}

func (r *Register) recordSave(err error) {
	now := r.clock()
	if err != nil {
		r.persist.Failures++
		r.persist.LastError = err.Error()
		r.persist.LastErrorAt = &now
		return
	}
	r.persist.LastSavedAt = &now
}

func clonePatients(in []domain.Patient) []domain.Patient {
	out := make([]domain.Patient, len(in))
	copy(out, in)
	return out
}

func cloneAppointments(in []domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, len(in))
	copy(out, in)
	return out
}
