package examination

import (
	"context"
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

// PatientChecker and AppointmentChecker verify the payload's references.
type PatientChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type AppointmentChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo         Repository
	patients     PatientChecker
	appointments AppointmentChecker
	now          func() time.Time
}

func NewService(repo Repository, patients PatientChecker, appointments AppointmentChecker) *Service {
	return &Service{repo: repo, patients: patients, appointments: appointments, now: time.Now}
}

// Record validates and persists a new examination result.
func (s *Service) Record(ctx context.Context, in Input) (*ExaminationResult, error) {
	if errs, err := s.validate(ctx, in); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, errs
	}

	r := &ExaminationResult{}
	in.apply(r)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	r.BMI = r.ComputeBMI()
	return r, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*ExaminationResult, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.BMI = r.ComputeBMI()
	return r, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*ExaminationResult, error) {
	if errs, err := s.validate(ctx, in); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, errs
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(r)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	r.BMI = r.ComputeBMI()
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*ExaminationResult, int, error) {
	results, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range results {
		r.BMI = r.ComputeBMI()
	}
	return results, total, nil
}

// ListByPatient returns a patient's examination results, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*ExaminationResult, int, error) {
	return s.List(ctx, Filter{PatientID: patientID}, limit, offset)
}

// ListRecent returns the most recent results across all patients, for the
// dashboard.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*ExaminationResult, error) {
	results, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		r.BMI = r.ComputeBMI()
	}
	return results, nil
}

// validate runs the field rules and then checks that the referenced patient
// and, if set, the referenced appointment exist. Reference failures are
// reported as field errors alongside the rest.
func (s *Service) validate(ctx context.Context, in Input) (apperror.Fields, error) {
	errs := in.Validate(s.now())
	if errs == nil {
		errs = apperror.Fields{}
	}
	if _, seen := errs["patient_id"]; !seen {
		ok, err := s.patients.Exists(ctx, in.PatientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("patient_id", "patient does not exist")
		}
	}
	if in.AppointmentID != nil {
		ok, err := s.appointments.Exists(ctx, *in.AppointmentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("appointment_id", "appointment does not exist")
		}
	}
	if len(errs) > 0 {
		return errs, nil
	}
	return nil, nil
}
