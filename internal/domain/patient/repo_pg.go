package patient

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

const patientCols = `p.id, p.patient_number, p.name, p.date_of_birth, p.gender,
	p.phone, p.email, p.address, p.emergency_contact_name, p.emergency_contact_phone,
	p.medical_history, p.allergies, p.status, p.created_at, p.updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patients (
			patient_number, name, date_of_birth, gender,
			phone, email, address, emergency_contact_name, emergency_contact_phone,
			medical_history, allergies, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		p.PatientNumber, p.Name, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.Address, p.EmergencyContactName, p.EmergencyContactPhone,
		p.MedicalHistory, p.Allergies, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if db.IsUniqueViolation(err, "patients_patient_number_key") {
		return ErrDuplicateNumber
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients p WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("patient", id)
	}
	return p, err
}

func (r *repoPG) GetByNumber(ctx context.Context, number string) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients p WHERE p.patient_number = $1`, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("patient", 0)
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients SET
			name=$2, date_of_birth=$3, gender=$4,
			phone=$5, email=$6, address=$7,
			emergency_contact_name=$8, emergency_contact_phone=$9,
			medical_history=$10, allergies=$11, status=$12, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.Address,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.MedicalHistory, p.Allergies, p.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("patient", p.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("patient", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	var conds []string
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.patient_number ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Today)
	todayArg := len(args)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+patientCols+`,
			(SELECT COUNT(*) FROM appointments a
			 WHERE a.patient_id = p.id
			   AND a.appointment_date >= $%d
			   AND a.status IN ('scheduled','confirmed')) AS upcoming
		FROM patients p`+where+`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, todayArg, todayArg+1, todayArg+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.PatientNumber, &p.Name, &p.DateOfBirth, &p.Gender,
			&p.Phone, &p.Email, &p.Address, &p.EmergencyContactName, &p.EmergencyContactPhone,
			&p.MedicalHistory, &p.Allergies, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&p.UpcomingAppointments,
		); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}

func (r *repoPG) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.PatientNumber, &p.Name, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.MedicalHistory, &p.Allergies, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
