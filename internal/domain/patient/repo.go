package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patient records. Implementations return ErrNotFound for
// lookups that match no row. Update never touches the record number column.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

// AppointmentSource supplies a patient's appointments for embedding in the
// detail view. Implemented by the scheduling service via an adapter wired in
// main.
type AppointmentSource interface {
	ForPatient(ctx context.Context, patientID uuid.UUID) ([]AppointmentSummary, error)
}

// TxRunner executes fn inside a single transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
