package appointment

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateNumber reports that an insert lost the race for an appointment
// number. The caller redraws a candidate and retries.
var ErrDuplicateNumber = errors.New("appointment number already taken")

// Scope selects one of the read-time predicates. Predicates are evaluated
// against the wall-clock date at query time, never stored.
type Scope string

const (
	ScopeAll      Scope = ""
	ScopeUpcoming Scope = "upcoming"
	ScopeToday    Scope = "today"
)

// Filter narrows List. Today carries the date the scope predicates are
// evaluated against.
type Filter struct {
	PatientID int64
	Scope     Scope
	Today     time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CountUpcoming(ctx context.Context, today time.Time) (int, error)
	CountToday(ctx context.Context, today time.Time) (int, error)
	ListUpcoming(ctx context.Context, today time.Time, limit int) ([]*Appointment, error)
}
