package recordnum

import (
	"context"
	"fmt"
)

// Kind identifies which record-number sequence to draw from.
type Kind string

const (
	KindPatient     Kind = "patient"
	KindAppointment Kind = "appointment"
)

// counterName returns the name of the database counter backing this kind.
func (k Kind) counterName() (string, error) {
	switch k {
	case KindPatient:
		return "patient_counter", nil
	case KindAppointment:
		return "appointment_counter", nil
	}
	return "", fmt.Errorf("unknown record number kind %q", k)
}

// prefix returns the display prefix for record numbers of this kind.
func (k Kind) prefix() string {
	switch k {
	case KindPatient:
		return "PAT"
	case KindAppointment:
		return "APT"
	}
	return ""
}

// Format renders a sequence value as a display record number, e.g. PAT-001.
// Values are zero-padded to three digits and grow naturally beyond 999.
func Format(kind Kind, n int64) string {
	return fmt.Sprintf("%s-%03d", kind.prefix(), n)
}

// Allocator hands out sequential record numbers. Each call to Allocate consumes
// one value from the underlying counter; values are never reused, even when
// the record they were minted for is later deleted.
type Allocator struct {
	store CounterStore
}

// NewAllocator creates an Allocator backed by the given counter store.
func NewAllocator(store CounterStore) *Allocator {
	return &Allocator{store: store}
}

// Allocate returns the next record number for kind. Safe for concurrent use;
// the increment is a single atomic statement in the store.
func (a *Allocator) Allocate(ctx context.Context, kind Kind) (string, error) {
	name, err := kind.counterName()
	if err != nil {
		return "", err
	}
	n, err := a.store.Increment(ctx, name)
	if err != nil {
		return "", fmt.Errorf("increment %s: %w", name, err)
	}
	return Format(kind, n), nil
}
