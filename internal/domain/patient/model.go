package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

// Patient is a clinic patient record. RecordNumber is assigned once at
// creation and never changes afterwards.
type Patient struct {
	ID                 uuid.UUID  `json:"id"`
	RecordNumber       string     `json:"record_number"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email,omitempty"`
	PhoneNumber        string     `json:"phone_number,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	Allergies          string     `json:"allergies,omitempty"`
	MedicalHistory     string     `json:"medical_history,omitempty"`
	CurrentMedications string     `json:"current_medications,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Ref is the compact patient representation embedded in other entities.
type Ref struct {
	ID           uuid.UUID `json:"id"`
	RecordNumber string    `json:"record_number"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
}

// Ref returns the compact reference form of the patient.
func (p *Patient) Ref() Ref {
	return Ref{ID: p.ID, RecordNumber: p.RecordNumber, FirstName: p.FirstName, LastName: p.LastName}
}

// AppointmentSummary is the view of an appointment embedded under a patient.
type AppointmentSummary struct {
	ID           uuid.UUID        `json:"id"`
	RecordNumber string           `json:"record_number"`
	Clinician    identity.UserRef `json:"clinician"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      time.Time        `json:"end_time"`
	Status       string           `json:"status"`
}

// Detail is a patient with their appointments embedded, newest first.
type Detail struct {
	Patient
	Appointments []AppointmentSummary `json:"appointments"`
}
