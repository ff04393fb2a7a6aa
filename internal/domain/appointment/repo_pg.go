package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinic-server/internal/platform/db"
	"github.com/clinicore/clinic-server/pkg/apperror"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `a.id, a.patient_id, a.appointment_number, a.appointment_date,
	a.appointment_time, a.type, a.doctor_name, a.notes, a.status,
	p.name, p.patient_number, a.created_at, a.updated_at`

const apptFrom = ` FROM appointments a JOIN patients p ON p.id = a.patient_id`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			patient_id, appointment_number, appointment_date, appointment_time,
			type, doctor_name, notes, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.AppointmentNumber, a.AppointmentDate, a.AppointmentTime,
		a.Type, a.DoctorName, a.Notes, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if db.IsUniqueViolation(err, "appointments_appointment_number_key") {
		return ErrDuplicateNumber
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppt(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("appointment", id)
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET
			patient_id=$2, appointment_date=$3, appointment_time=$4,
			type=$5, doctor_name=$6, notes=$7, status=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.AppointmentDate, a.AppointmentTime,
		a.Type, a.DoctorName, a.Notes, a.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("appointment", a.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("appointment", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	var conds []string
	var args []interface{}
	if f.PatientID > 0 {
		args = append(args, f.PatientID)
		conds = append(conds, fmt.Sprintf("a.patient_id = $%d", len(args)))
	}
	switch f.Scope {
	case ScopeUpcoming:
		args = append(args, f.Today)
		conds = append(conds, fmt.Sprintf(
			"a.appointment_date >= $%d AND a.status IN ('scheduled','confirmed')", len(args)))
	case ScopeToday:
		args = append(args, f.Today)
		conds = append(conds, fmt.Sprintf("a.appointment_date = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+apptFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT `+apptCols+apptFrom+where+`
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) CountUpcoming(ctx context.Context, today time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE appointment_date >= $1 AND status IN ('scheduled','confirmed')`, today).Scan(&n)
	return n, err
}

func (r *repoPG) CountToday(ctx context.Context, today time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE appointment_date = $1`, today).Scan(&n)
	return n, err
}

func (r *repoPG) ListUpcoming(ctx context.Context, today time.Time, limit int) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+apptFrom+`
		WHERE a.appointment_date >= $1 AND a.status IN ('scheduled','confirmed')
		ORDER BY a.appointment_date, a.appointment_time
		LIMIT $2`, today, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	appts, _, err := collectAppts(rows, 0)
	return appts, err
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.AppointmentNumber, &a.AppointmentDate,
		&a.AppointmentTime, &a.Type, &a.DoctorName, &a.Notes, &a.Status,
		&a.PatientName, &a.PatientNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAppts(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.AppointmentNumber, &a.AppointmentDate,
			&a.AppointmentTime, &a.Type, &a.DoctorName, &a.Notes, &a.Status,
			&a.PatientName, &a.PatientNumber, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, rows.Err()
}
