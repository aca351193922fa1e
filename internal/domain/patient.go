package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout calendar date format used for lastVisit and appointment dates
const DateLayout = "2006-01-02"

// PatientStatus patient care status
type PatientStatus string

const (
	PatientActive   PatientStatus = "active"
	PatientRecovery PatientStatus = "recovery"
	PatientInactive PatientStatus = "inactive"
)

// Valid reports whether s is a known patient status
func (s PatientStatus) Valid() bool {
	switch s {
	case PatientActive, PatientRecovery, PatientInactive:
		return true
	}
	return false
}

// Patient patient record (JSON field names match the stored format)
type Patient struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Age       int           `json:"age"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Condition string        `json:"condition"` // primary diagnosis / reason for care
	BloodType string        `json:"bloodType,omitempty"`
	Allergies string        `json:"allergies,omitempty"`
	LastVisit string        `json:"lastVisit"` // YYYY-MM-DD, reset on every create/update
	CreatedAt time.Time     `json:"createdAt"` // set once at creation
	Status    PatientStatus `json:"status"`
}

// PatientInput submitted patient form.
// Age is a pointer so that an absent age can be told apart from 0.
type PatientInput struct {
	Name      string `json:"name"`
	Age       *int   `json:"age"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Condition string `json:"condition"`
	BloodType string `json:"bloodType"`
	Allergies string `json:"allergies"`
}

// Apply copies the form fields onto p. Identity, dates and status are left to the caller.
func (in PatientInput) Apply(p *Patient) {
	p.Name = in.Name
	if in.Age != nil {
		p.Age = *in.Age
	}
	p.Email = in.Email
	p.Phone = in.Phone
	p.Condition = in.Condition
	p.BloodType = in.BloodType
	p.Allergies = in.Allergies
}

// FromPatient builds the edit form for an existing record
func FromPatient(p Patient) PatientInput {
	age := p.Age
	return PatientInput{
		Name:      p.Name,
		Age:       &age,
		Email:     p.Email,
		Phone:     p.Phone,
		Condition: p.Condition,
		BloodType: p.BloodType,
		Allergies: p.Allergies,
	}
}

// UnmarshalJSON also accepts records saved by the browser client, where createdAt
// may be a bare YYYY-MM-DD date and age may be a numeric string.
func (p *Patient) UnmarshalJSON(data []byte) error {
	type plain Patient
	aux := struct {
		*plain
		Age       json.RawMessage `json:"age"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	age, err := decodeLooseInt(aux.Age)
	if err != nil {
		return fmt.Errorf("patient %d age: %w", p.ID, err)
	}
	p.Age = age

	created, err := decodeLooseTime(aux.CreatedAt)
	if err != nil {
		return fmt.Errorf("patient %d createdAt: %w", p.ID, err)
	}
	p.CreatedAt = created
	return nil
}

func decodeLooseInt(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] != '"' {
		var n int
		err := json.Unmarshal(raw, &n)
		return n, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func decodeLooseTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(DateLayout, s)
}
