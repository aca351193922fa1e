package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	MinAge = 0
	MaxAge = 150
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// FieldErrors field name -> message. An empty map means the input is valid.
type FieldErrors map[string]string

// Error joins the messages in field order so the output is stable
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when there are no field errors
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// NormalizePhone strips every non-digit character
func NormalizePhone(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// ValidEmail reports whether email looks like an address
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone reports whether phone has exactly 10 digits once normalized
func ValidPhone(phone string) bool {
	return len(NormalizePhone(phone)) == 10
}

// ValidatePatientInput checks a patient form. Email and phone are only checked when present.
func ValidatePatientInput(in PatientInput) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	if in.Age == nil || *in.Age < MinAge || *in.Age > MaxAge {
		errs["age"] = "Valid age is required"
	}
	if in.Email != "" && !ValidEmail(in.Email) {
		errs["email"] = "Valid email is required"
	}
	if in.Phone != "" && !ValidPhone(in.Phone) {
		errs["phone"] = "Valid phone number is required"
	}
	if strings.TrimSpace(in.Condition) == "" {
		errs["condition"] = "Condition is required"
	}
	return errs
}

// ValidateAppointmentInput checks an appointment form against today's date (YYYY-MM-DD).
// Patient existence is resolved by the repository, not here.
func ValidateAppointmentInput(in AppointmentInput, today string) FieldErrors {
	errs := FieldErrors{}
	if in.PatientID <= 0 {
		errs["patientId"] = "Patient is required"
	}
	switch {
	case strings.TrimSpace(in.Date) == "":
		errs["date"] = "Date is required"
	case !validDate(in.Date):
		errs["date"] = "Valid date is required"
	case today != "" && in.Date < today:
		errs["date"] = "Date cannot be in the past"
	}
	switch {
	case strings.TrimSpace(in.Time) == "":
		errs["time"] = "Time is required"
	case !validTime(in.Time):
		errs["time"] = "Valid time is required"
	}
	if strings.TrimSpace(in.Doctor) == "" {
		errs["doctor"] = "Doctor is required"
	}
	if strings.TrimSpace(in.Department) == "" {
		errs["department"] = "Department is required"
	}
	return errs
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// validTime HH:MM, two-digit hour so stored times sort as text
func validTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
