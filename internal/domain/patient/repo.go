package patient

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateNumber reports that an insert lost the race for a patient
// number. The caller redraws a candidate and retries.
var ErrDuplicateNumber = errors.New("patient number already taken")

// Filter narrows List. Zero values mean "no restriction". Today is the
// wall-clock date used to count each patient's upcoming appointments.
type Filter struct {
	Status string
	Query  string
	Today  time.Time
}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByNumber(ctx context.Context, number string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}
