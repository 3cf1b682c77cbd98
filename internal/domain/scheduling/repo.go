package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

// ListFilter narrows appointment listings. Nil fields match everything.
type ListFilter struct {
	ClinicianID *uuid.UUID
	PatientID   *uuid.UUID
}

// AppointmentRepository persists appointments. Implementations return
// ErrNotFound for lookups that match no row.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error)

	// ListByClinician returns ALL of a clinician's appointments for the
	// conflict scan, unpaginated.
	ListByClinician(ctx context.Context, clinicianID uuid.UUID) ([]*Appointment, error)
	// ListByPatient returns a patient's appointments, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
}

// UserDirectory resolves staff accounts for clinician validation and detail
// embedding. Satisfied by the identity repository.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// PatientSource resolves patient records for validation and detail embedding.
// Satisfied by the patient repository.
type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// TxRunner executes fn inside a single transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
