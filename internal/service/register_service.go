package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-register/internal/domain"
	"clinic-register/internal/events"
	"clinic-register/internal/repository"

	"go.uber.org/zap"
)

// Appointment list views
const (
	ViewAll      = ""
	ViewUpcoming = "upcoming"
	ViewToday    = "today"
)

// RecentPatientsLimit size of the dashboard's new-patients panel
const RecentPatientsLimit = 3

// ErrUnknownView appointment list view not recognised
var ErrUnknownView = errors.New("unknown view")

// Dashboard everything the overview screen shows
type Dashboard struct {
	Stats          Stats                `json:"stats"`
	Today          []domain.Appointment `json:"today"`
	Upcoming       []domain.Appointment `json:"upcoming"`
	RecentPatients []domain.Patient     `json:"recentPatients"`
	GeneratedAt    time.Time            `json:"generatedAt"`
}

// PatientDetail patient record with its appointments
type PatientDetail struct {
	Patient      domain.Patient       `json:"patient"`
	Appointments []domain.Appointment `json:"appointments"`
}

// RegisterService entry point for the API: repositories, projections and change events
type RegisterService struct {
	reg          *repository.Register
	patients     *repository.PatientRepository
	appointments *repository.AppointmentRepository
	notifier     *events.Notifier
	logger       *zap.Logger
}

func NewRegisterService(reg *repository.Register, notifier *events.Notifier, logger *zap.Logger) *RegisterService {
	if notifier == nil {
		notifier = events.NewNotifier(nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegisterService{
		reg:          reg,
		patients:     reg.Patients(),
		appointments: reg.Appointments(),
		notifier:     notifier,
		logger:       logger,
	}
}

// ---- patients ----

func (s *RegisterService) ListPatients(ctx context.Context, query string) []domain.Patient {
	return SearchPatients(s.patients.List(ctx), query)
}

func (s *RegisterService) GetPatient(ctx context.Context, id int64) (PatientDetail, error) {
	p, ok := s.patients.FindByID(ctx, id)
	if !ok {
		return PatientDetail{}, fmt.Errorf("patient %d: %w", id, repository.ErrNotFound)
	}
	return PatientDetail{
		Patient:      p,
		Appointments: AppointmentsForPatient(s.appointments.ListByPatient(ctx, id), id, s.reg.Location()),
	}, nil
}

func (s *RegisterService) PatientAppointments(ctx context.Context, id int64) ([]domain.Appointment, error) {
	d, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Appointments, nil
}

func (s *RegisterService) CreatePatient(ctx context.Context, in domain.PatientInput) (domain.Patient, error) {
	p, err := s.patients.Create(ctx, in)
	if err != nil {
		return domain.Patient{}, err
	}
	s.notifier.Notify(ctx, events.PatientCreated, p.ID, p)
	return p, nil
}

func (s *RegisterService) UpdatePatient(ctx context.Context, id int64, in domain.PatientInput) (domain.Patient, error) {
	p, err := s.patients.Update(ctx, id, in)
	if err != nil {
		return domain.Patient{}, err
	}
	s.notifier.Notify(ctx, events.PatientUpdated, p.ID, p)
	return p, nil
}

func (s *RegisterService) SetPatientStatus(ctx context.Context, id int64, status domain.PatientStatus) (domain.Patient, error) {
	p, err := s.patients.SetStatus(ctx, id, status)
	if err != nil {
		return domain.Patient{}, err
	}
	s.notifier.Notify(ctx, events.PatientUpdated, p.ID, p)
	return p, nil
}

// DeletePatient removes the patient and every appointment that references it
func (s *RegisterService) DeletePatient(ctx context.Context, id int64) (int, error) {
	removed, err := s.patients.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	s.notifier.Notify(ctx, events.PatientDeleted, id, map[string]int{"appointmentsRemoved": removed})
	return removed, nil
}

// ---- appointments ----

func (s *RegisterService) ListAppointments(ctx context.Context, view string) ([]domain.Appointment, error) {
	all := s.appointments.List(ctx)
	switch view {
	case ViewAll, "all":
		return all, nil
	case ViewUpcoming:
		return UpcomingAppointments(all, s.reg.Today(), s.reg.Location()), nil
	case ViewToday:
		return TodaysAppointments(all, s.reg.Today()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

func (s *RegisterService) GetAppointment(ctx context.Context, id int64) (domain.Appointment, error) {
	a, ok := s.appointments.FindByID(ctx, id)
	if !ok {
		return domain.Appointment{}, fmt.Errorf("appointment %d: %w", id, repository.ErrNotFound)
	}
	return a, nil
}

func (s *RegisterService) CreateAppointment(ctx context.Context, in domain.AppointmentInput) (domain.Appointment, error) {
	a, err := s.appointments.Create(ctx, in)
	if err != nil {
		return domain.Appointment{}, err
	}
	s.notifier.Notify(ctx, events.AppointmentCreated, a.ID, a)
	return a, nil
}

func (s *RegisterService) UpdateAppointmentStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (domain.Appointment, error) {
	a, err := s.appointments.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Appointment{}, err
	}
	s.notifier.Notify(ctx, events.AppointmentStatusChanged, a.ID, a)
	return a, nil
}

func (s *RegisterService) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, events.AppointmentDeleted, id, nil)
	return nil
}

// NextStatuses statuses the appointment may move to under the active policy
func (s *RegisterService) NextStatuses(a domain.Appointment) []domain.AppointmentStatus {
	return s.reg.Transitions().NextStatuses(a.Status)
}

// ---- views ----

// Dashboard overview built from one consistent snapshot
func (s *RegisterService) Dashboard(ctx context.Context) Dashboard {
	patients, appointments := s.reg.Snapshot()
	now := s.reg.Now()
	today := now.Format(domain.DateLayout)
	return Dashboard{
		Stats:          ComputeStats(patients, appointments, now),
		Today:          TodaysAppointments(appointments, today),
		Upcoming:       UpcomingAppointments(appointments, today, s.reg.Location()),
		RecentPatients: RecentPatients(patients, RecentPatientsLimit),
		GeneratedAt:    now,
	}
}

// Snapshot both record sets, for export
func (s *RegisterService) Snapshot() ([]domain.Patient, []domain.Appointment) {
	return s.reg.Snapshot()
}

// PersistStatus durability state of the underlying register
func (s *RegisterService) PersistStatus() repository.PersistStatus {
	return s.reg.PersistStatus()
}

// Now current time in the clinic's location
func (s *RegisterService) Now() time.Time { return s.reg.Now() }
