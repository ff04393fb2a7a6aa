package patient

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

// maxNumberAttempts bounds the redraw loop when the year's patient number
// space fills up. Past this the create fails with ErrNumberExhausted.
const maxNumberAttempts = 10

type Service struct {
	repo Repository
	now  func() time.Time
	draw func(n int) int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, draw: rand.IntN}
}

// formatNumber renders a patient number: P, the 4-digit year, then a 4-digit
// zero-padded sequence in [1, 9999].
func formatNumber(year, seq int) string {
	return fmt.Sprintf("P%04d%04d", year, seq)
}

// Register validates the payload, assigns a unique patient number and
// persists the record. The database unique index arbitrates concurrent
// number draws; a losing insert redraws.
func (s *Service) Register(ctx context.Context, in Input) (*Patient, error) {
	now := s.now()
	if errs := in.Validate(now); errs != nil {
		return nil, errs
	}

	p := &Patient{}
	in.apply(p)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		p.PatientNumber = formatNumber(now.Year(), s.draw(9999)+1)
		err := s.repo.Create(ctx, p)
		if errors.Is(err, ErrDuplicateNumber) {
			continue
		}
		if err != nil {
			return nil, err
		}
		p.Age = p.AgeAt(now)
		return p, nil
	}
	return nil, apperror.ErrNumberExhausted
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Age = p.AgeAt(s.now())
	return p, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Patient, error) {
	p, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	p.Age = p.AgeAt(s.now())
	return p, nil
}

// Update applies an edit payload to an existing patient. The patient number
// is immutable and never touched.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Patient, error) {
	now := s.now()
	if errs := in.Validate(now); errs != nil {
		return nil, errs
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	p.Age = p.AgeAt(now)
	return p, nil
}

// Delete removes the patient. Appointments and examination results cascade
// at the database level.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	now := s.now()
	f.Today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	patients, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range patients {
		p.Age = p.AgeAt(now)
	}
	return patients, total, nil
}

// Exists reports whether a patient id refers to a stored record. Used by the
// appointment and examination services to validate foreign keys.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountRegisteredSince(ctx context.Context, since time.Time) (int, error) {
	return s.repo.CountCreatedSince(ctx, since)
}
