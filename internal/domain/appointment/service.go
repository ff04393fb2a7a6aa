package appointment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

// maxNumberAttempts bounds the redraw loop when the day's appointment number
// space fills up (999 slots per calendar date).
const maxNumberAttempts = 10

// PatientChecker verifies the foreign key on booking payloads.
type PatientChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientChecker
	now      func() time.Time
	draw     func(n int) int
}

func NewService(repo Repository, patients PatientChecker) *Service {
	return &Service{repo: repo, patients: patients, now: time.Now, draw: rand.IntN}
}

// formatNumber renders an appointment number: A, the booking date as
// YYYYMMDD, then a 3-digit zero-padded sequence in [1, 999].
func formatNumber(bookedOn time.Time, seq int) string {
	return fmt.Sprintf("A%s%03d", bookedOn.Format("20060102"), seq)
}

// Book validates the payload, assigns a unique appointment number and
// persists the record. The unique index arbitrates concurrent number draws.
func (s *Service) Book(ctx context.Context, in Input) (*Appointment, error) {
	now := s.now()
	errs := in.Validate(now)
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
	if len(errs) > 0 {
		return nil, errs
	}

	a := &Appointment{}
	in.apply(a)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		a.AppointmentNumber = formatNumber(now, s.draw(999)+1)
		err := s.repo.Create(ctx, a)
		if errors.Is(err, ErrDuplicateNumber) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, apperror.ErrNumberExhausted
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies an edit payload. The past-date rule applies to edits the
// same as to bookings; the appointment number never changes.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Appointment, error) {
	now := s.now()
	if errs := in.Validate(now); errs != nil {
		return nil, errs
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PatientID != a.PatientID {
		ok, err := s.patients.Exists(ctx, in.PatientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.Fields{"patient_id": "patient does not exist"}
		}
	}
	in.apply(a)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the appointment. Examination results that referenced it
// keep their data; the database clears the link.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	f.Today = dateOnly(s.now())
	return s.repo.List(ctx, f, limit, offset)
}

// ListByPatient returns a patient's appointments, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error) {
	return s.List(ctx, Filter{PatientID: patientID}, limit, offset)
}

// Exists reports whether an appointment id refers to a stored record. Used
// by the examination service to validate its optional link.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) CountUpcoming(ctx context.Context) (int, error) {
	return s.repo.CountUpcoming(ctx, dateOnly(s.now()))
}

func (s *Service) CountToday(ctx context.Context) (int, error) {
	return s.repo.CountToday(ctx, dateOnly(s.now()))
}

func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]*Appointment, error) {
	return s.repo.ListUpcoming(ctx, dateOnly(s.now()), limit)
}
