package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) AppointmentRepository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, record_number, patient_id, clinician_id, created_by_id,
	start_time, end_time, status, note, clinician_note, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.RecordNumber, &a.PatientID, &a.ClinicianID,
		&a.CreatedByID, &a.StartTime, &a.EndTime, &a.Status, &a.Note,
		&a.ClinicianNote, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, record_number, patient_id, clinician_id,
			created_by_id, start_time, end_time, status, note, clinician_note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		a.ID, a.RecordNumber, a.PatientID, a.ClinicianID, a.CreatedByID,
		a.StartTime, a.EndTime, a.Status, a.Note, a.ClinicianNote).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET patient_id = $2, clinician_id = $3,
			start_time = $4, end_time = $5, status = $6, note = $7,
			clinician_note = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.PatientID, a.ClinicianID, a.StartTime, a.EndTime, a.Status,
		a.Note, a.ClinicianNote)

	err := row.Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	const where = ` WHERE ($1::uuid IS NULL OR clinician_id = $1)
		AND ($2::uuid IS NULL OR patient_id = $2)`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments`+where,
		f.ClinicianID, f.PatientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointments`+where+`
		ORDER BY start_time DESC LIMIT $3 OFFSET $4`,
		f.ClinicianID, f.PatientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appts, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *repoPG) ListByClinician(ctx context.Context, clinicianID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE clinician_id = $1 ORDER BY start_time`,
		clinicianID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE patient_id = $1 ORDER BY start_time DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}
