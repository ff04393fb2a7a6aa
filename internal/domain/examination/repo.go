package examination

import "context"

// Filter narrows List. Zero PatientID means all patients.
type Filter struct {
	PatientID int64
}

type Repository interface {
	Create(ctx context.Context, r *ExaminationResult) error
	GetByID(ctx context.Context, id int64) (*ExaminationResult, error)
	Update(ctx context.Context, r *ExaminationResult) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*ExaminationResult, int, error)
	ListRecent(ctx context.Context, limit int) ([]*ExaminationResult, error)
}
