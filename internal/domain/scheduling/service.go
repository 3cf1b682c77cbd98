package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/recordnum"
)

var (
	// ErrInvalid marks validation failures (400).
	ErrInvalid = errors.New("validation failed")
	// ErrNotFound marks lookups that matched no appointment (404).
	ErrNotFound = errors.New("appointment not found")
	// ErrConflict marks time-slot collisions (409).
	ErrConflict = errors.New("time slot conflicts with an existing appointment")
	// ErrAccessDenied marks ownership violations (403).
	ErrAccessDenied = errors.New("access denied")
)

// Service owns appointment creation and mutation under the non-overlap and
// role-gating rules.
type Service struct {
	repo     AppointmentRepository
	users    UserDirectory
	patients PatientSource
	alloc    *recordnum.Allocator
	tx       TxRunner
}

func NewService(repo AppointmentRepository, users UserDirectory, patients PatientSource, alloc *recordnum.Allocator, tx TxRunner) *Service {
	return &Service{repo: repo, users: users, patients: patients, alloc: alloc, tx: tx}
}

// hasConflict scans every other appointment of the clinician for an overlap
// with [start, end). exclude skips the appointment being updated.
func (s *Service) hasConflict(ctx context.Context, clinicianID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	existing, err := s.repo.ListByClinician(ctx, clinicianID)
	if err != nil {
		return false, err
	}
	for _, a := range existing {
		if a.ID == exclude {
			continue
		}
		if overlaps(a.StartTime, a.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// resolveClinician verifies the id belongs to a user with the CLINICIAN role.
func (s *Service) resolveClinician(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, fmt.Errorf("%w: clinician not found", ErrInvalid)
		}
		return nil, err
	}
	if u.Role != identity.RoleClinician {
		return nil, fmt.Errorf("%w: user %s is not a clinician", ErrInvalid, id)
	}
	return u, nil
}

// resolvePatient verifies the patient exists.
func (s *Service) resolvePatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, fmt.Errorf("%w: patient not found", ErrInvalid)
		}
		return nil, err
	}
	return p, nil
}

// Create books an appointment. The conflict check, record number allocation
// and insert run in one transaction so the appointment either exists with a
// record number or not at all.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*Detail, error) {
	if in.PatientID == uuid.Nil || in.ClinicianID == uuid.Nil || in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: patient_id, clinician_id, start_time and end_time are required", ErrInvalid)
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalid)
	}

	clinician, err := s.resolveClinician(ctx, in.ClinicianID)
	if err != nil {
		return nil, err
	}
	pat, err := s.resolvePatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		PatientID:   in.PatientID,
		ClinicianID: in.ClinicianID,
		CreatedByID: actor.ID,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      StatusPending,
		Note:        in.Note,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		conflict, err := s.hasConflict(ctx, in.ClinicianID, in.StartTime, in.EndTime, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}

		rn, err := s.alloc.Allocate(ctx, recordnum.KindAppointment)
		if err != nil {
			return err
		}
		a.RecordNumber = rn
		return s.repo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return s.detailWith(ctx, a, pat, clinician)
}

// Update applies the role-scoped field groups of cmd to the appointment.
// Staff changes apply only for RECEPTION/ADMIN actors; workflow changes only
// for the assigned clinician. Fields outside the actor's group are ignored.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, cmd UpdateCommand) (*Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case identity.RoleReception, identity.RoleAdmin:
		if err := s.applyStaffChanges(ctx, a, cmd.Staff); err != nil {
			return nil, err
		}
	case identity.RoleClinician:
		if a.ClinicianID != actor.ID {
			return nil, ErrAccessDenied
		}
		if err := applyClinicianChanges(a, cmd.Clinician); err != nil {
			return nil, err
		}
	default:
		return nil, ErrAccessDenied
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.detail(ctx, a)
}

// applyStaffChanges mutates a in place with the scheduling fields, enforcing
// the effective-interval rule and the conflict check when the appointment
// moves in time or to another clinician.
func (s *Service) applyStaffChanges(ctx context.Context, a *Appointment, ch StaffChanges) error {
	if ch.empty() {
		return nil
	}

	effClinician := a.ClinicianID
	if ch.ClinicianID != nil {
		if _, err := s.resolveClinician(ctx, *ch.ClinicianID); err != nil {
			return err
		}
		effClinician = *ch.ClinicianID
	}
	if ch.PatientID != nil {
		if _, err := s.resolvePatient(ctx, *ch.PatientID); err != nil {
			return err
		}
	}

	effStart, effEnd := a.StartTime, a.EndTime
	if ch.StartTime != nil {
		effStart = *ch.StartTime
	}
	if ch.EndTime != nil {
		effEnd = *ch.EndTime
	}
	if !effEnd.After(effStart) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalid)
	}

	if ch.reschedules() {
		conflict, err := s.hasConflict(ctx, effClinician, effStart, effEnd, a.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}
	}

	a.ClinicianID = effClinician
	a.StartTime = effStart
	a.EndTime = effEnd
	if ch.PatientID != nil {
		a.PatientID = *ch.PatientID
	}
	if ch.Note != nil {
		a.Note = *ch.Note
	}
	return nil
}

// applyClinicianChanges mutates a in place with the workflow fields.
func applyClinicianChanges(a *Appointment, ch ClinicianChanges) error {
	if ch.Status != nil {
		if !ch.Status.Valid() {
			return fmt.Errorf("%w: status must be PENDING or COMPLETED", ErrInvalid)
		}
		a.Status = *ch.Status
	}
	if ch.ClinicianNote != nil {
		a.ClinicianNote = *ch.ClinicianNote
	}
	return nil
}

// Delete removes the appointment unconditionally. Route-level authorization
// restricts this to admins.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one appointment with related entities. Clinicians can only
// fetch their own appointments; someone else's yields ErrAccessDenied, not
// ErrNotFound.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleClinician && a.ClinicianID != actor.ID {
		return nil, ErrAccessDenied
	}
	return s.detail(ctx, a)
}

// List returns appointments visible to the actor. Clinicians see only their
// own; staff may filter by clinician or patient.
func (s *Service) List(ctx context.Context, actor Actor, f ListFilter, limit, offset int) ([]*Detail, int, error) {
	if actor.Role == identity.RoleClinician {
		own := actor.ID
		f.ClinicianID = &own
	}

	appts, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	details := make([]*Detail, 0, len(appts))
	for _, a := range appts {
		d, err := s.detail(ctx, a)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, d)
	}
	return details, total, nil
}

// ForPatient returns a patient's appointments as embeddable summaries,
// newest first. Implements the patient package's AppointmentSource.
func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID) ([]patient.AppointmentSummary, error) {
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	summaries := make([]patient.AppointmentSummary, 0, len(appts))
	for _, a := range appts {
		clinician, err := s.users.GetByID(ctx, a.ClinicianID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, patient.AppointmentSummary{
			ID:           a.ID,
			RecordNumber: a.RecordNumber,
			Clinician:    clinician.Ref(),
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			Status:       string(a.Status),
		})
	}
	return summaries, nil
}

// detail embeds the appointment's related entities by id lookup.
func (s *Service) detail(ctx context.Context, a *Appointment) (*Detail, error) {
	pat, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		return nil, err
	}
	clinician, err := s.users.GetByID(ctx, a.ClinicianID)
	if err != nil {
		return nil, err
	}
	return s.detailWith(ctx, a, pat, clinician)
}

func (s *Service) detailWith(ctx context.Context, a *Appointment, pat *patient.Patient, clinician *identity.User) (*Detail, error) {
	createdBy, err := s.users.GetByID(ctx, a.CreatedByID)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Appointment: *a,
		Patient:     pat.Ref(),
		Clinician:   clinician.Ref(),
		CreatedBy:   createdBy.Ref(),
	}, nil
}
