package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

// Status is an appointment's workflow state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Appointment books a patient with a clinician over the half-open interval
// [StartTime, EndTime). Note is written by scheduling staff, ClinicianNote by
// the assigned clinician.
type Appointment struct {
	ID            uuid.UUID `json:"id"`
	RecordNumber  string    `json:"record_number"`
	PatientID     uuid.UUID `json:"patient_id"`
	ClinicianID   uuid.UUID `json:"clinician_id"`
	CreatedByID   uuid.UUID `json:"created_by_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        Status    `json:"status"`
	Note          string    `json:"note,omitempty"`
	ClinicianNote string    `json:"clinician_note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Detail is an appointment with its related entities embedded.
type Detail struct {
	Appointment
	Patient   patient.Ref      `json:"patient"`
	Clinician identity.UserRef `json:"clinician"`
	CreatedBy identity.UserRef `json:"created_by"`
}

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role identity.Role
}

// CreateInput is the payload for booking an appointment.
type CreateInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	ClinicianID uuid.UUID `json:"clinician_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Note        string    `json:"note"`
}

// StaffChanges are the fields scheduling staff may change. Nil means the
// field was not supplied.
type StaffChanges struct {
	PatientID   *uuid.UUID
	ClinicianID *uuid.UUID
	StartTime   *time.Time
	EndTime     *time.Time
	Note        *string
}

func (c StaffChanges) empty() bool {
	return c.PatientID == nil && c.ClinicianID == nil &&
		c.StartTime == nil && c.EndTime == nil && c.Note == nil
}

// reschedules reports whether the changes move the appointment in time or to
// another clinician, requiring a fresh conflict check.
func (c StaffChanges) reschedules() bool {
	return c.ClinicianID != nil || c.StartTime != nil || c.EndTime != nil
}

// ClinicianChanges are the fields the assigned clinician may change.
type ClinicianChanges struct {
	Status        *Status
	ClinicianNote *string
}

func (c ClinicianChanges) empty() bool {
	return c.Status == nil && c.ClinicianNote == nil
}

// UpdateCommand splits an update request into role-scoped field groups. Each
// group is applied only when the actor's role permits it; fields outside the
// actor's group are silently ignored.
type UpdateCommand struct {
	Staff     StaffChanges
	Clinician ClinicianChanges
}
