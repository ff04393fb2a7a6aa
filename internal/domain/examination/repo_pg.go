package examination

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const examCols = `e.id, e.patient_id, e.appointment_id, e.examination_date, e.examination_type,
	e.height, e.weight, e.blood_pressure_systolic, e.blood_pressure_diastolic,
	e.heart_rate, e.temperature, e.lab_results, e.diagnosis, e.recommendations,
	e.medications, e.doctor_name, p.name, p.patient_number, e.created_at, e.updated_at`

const examFrom = ` FROM examination_results e JOIN patients p ON p.id = e.patient_id`

func (r *repoPG) Create(ctx context.Context, res *ExaminationResult) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO examination_results (
			patient_id, appointment_id, examination_date, examination_type,
			height, weight, blood_pressure_systolic, blood_pressure_diastolic,
			heart_rate, temperature, lab_results, diagnosis, recommendations,
			medications, doctor_name
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at`,
		res.PatientID, res.AppointmentID, res.ExaminationDate, res.ExaminationType,
		res.Height, res.Weight, res.BPSystolic, res.BPDiastolic,
		res.HeartRate, res.Temperature, res.LabResults, res.Diagnosis, res.Recommendations,
		res.Medications, res.DoctorName,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*ExaminationResult, error) {
	res, err := scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examCols+examFrom+` WHERE e.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("examination result", id)
	}
	return res, err
}

func (r *repoPG) Update(ctx context.Context, res *ExaminationResult) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE examination_results SET
			patient_id=$2, appointment_id=$3, examination_date=$4, examination_type=$5,
			height=$6, weight=$7, blood_pressure_systolic=$8, blood_pressure_diastolic=$9,
			heart_rate=$10, temperature=$11, lab_results=$12, diagnosis=$13,
			recommendations=$14, medications=$15, doctor_name=$16, updated_at=NOW()
		WHERE id = $1`,
		res.ID, res.PatientID, res.AppointmentID, res.ExaminationDate, res.ExaminationType,
		res.Height, res.Weight, res.BPSystolic, res.BPDiastolic,
		res.HeartRate, res.Temperature, res.LabResults, res.Diagnosis,
		res.Recommendations, res.Medications, res.DoctorName,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("examination result", res.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM examination_results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("examination result", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*ExaminationResult, int, error) {
	where := ""
	var args []interface{}
	if f.PatientID > 0 {
		args = append(args, f.PatientID)
		where = " WHERE e.patient_id = $1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+examFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT `+examCols+examFrom+where+`
		ORDER BY e.examination_date DESC, e.id DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := collectExams(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*ExaminationResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examCols+examFrom+` ORDER BY e.examination_date DESC, e.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

func scanExam(row pgx.Row) (*ExaminationResult, error) {
	var e ExaminationResult
	err := row.Scan(
		&e.ID, &e.PatientID, &e.AppointmentID, &e.ExaminationDate, &e.ExaminationType,
		&e.Height, &e.Weight, &e.BPSystolic, &e.BPDiastolic,
		&e.HeartRate, &e.Temperature, &e.LabResults, &e.Diagnosis, &e.Recommendations,
		&e.Medications, &e.DoctorName, &e.PatientName, &e.PatientNumber, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectExams(rows pgx.Rows) ([]*ExaminationResult, error) {
	var results []*ExaminationResult
	for rows.Next() {
		var e ExaminationResult
		if err := rows.Scan(
			&e.ID, &e.PatientID, &e.AppointmentID, &e.ExaminationDate, &e.ExaminationType,
			&e.Height, &e.Weight, &e.BPSystolic, &e.BPDiastolic,
			&e.HeartRate, &e.Temperature, &e.LabResults, &e.Diagnosis, &e.Recommendations,
			&e.Medications, &e.DoctorName, &e.PatientName, &e.PatientNumber, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, &e)
	}
	return results, rows.Err()
}
