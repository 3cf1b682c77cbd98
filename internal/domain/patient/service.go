package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/recordnum"
)

var (
	// ErrInvalid marks validation failures (400).
	ErrInvalid = errors.New("validation failed")
	// ErrNotFound marks lookups that matched no patient (404).
	ErrNotFound = errors.New("patient not found")
)

// Service implements patient CRUD. Creation allocates the PAT record number
// and inserts the row in one transaction so a patient never exists without a
// record number.
type Service struct {
	repo         Repository
	alloc        *recordnum.Allocator
	tx           TxRunner
	appointments AppointmentSource
}

func NewService(repo Repository, alloc *recordnum.Allocator, tx TxRunner, appointments AppointmentSource) *Service {
	return &Service{repo: repo, alloc: alloc, tx: tx, appointments: appointments}
}

func validate(p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", ErrInvalid)
	}
	return nil
}

// Creation demands the full demographic set; updates only need the name.
func validateCreate(p *Patient) error {
	if p.FirstName == "" || p.LastName == "" || p.Gender == "" || p.DateOfBirth == nil {
		return fmt.Errorf("%w: first_name, last_name, gender and date_of_birth are required", ErrInvalid)
	}
	return nil
}

// Create allocates a record number and persists the patient.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validateCreate(p); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		rn, err := s.alloc.Allocate(ctx, recordnum.KindPatient)
		if err != nil {
			return err
		}
		p.RecordNumber = rn
		return s.repo.Create(ctx, p)
	})
}

// Get returns the patient with their appointments embedded.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.ForPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []AppointmentSummary{}
	}
	return &Detail{Patient: *p, Appointments: appts}, nil
}

// Update rewrites the patient's mutable fields. The record number is kept as
// assigned at creation regardless of the input.
func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.RecordNumber = existing.RecordNumber
	return s.repo.Update(ctx, p)
}

// Delete removes the patient. Their appointments go with them (the schema
// cascades the delete).
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// List returns patients newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}
