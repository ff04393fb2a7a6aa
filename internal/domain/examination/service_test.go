package examination

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/clinicore/clinic-server/pkg/apperror"
)

// -- Mocks --

type mockRepo struct {
	results map[int64]*ExaminationResult
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{results: make(map[int64]*ExaminationResult)}
}

func (m *mockRepo) Create(_ context.Context, r *ExaminationResult) error {
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	cp := *r
	m.results[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*ExaminationResult, error) {
	r, ok := m.results[id]
	if !ok {
		return nil, apperror.NotFound("examination result", id)
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, r *ExaminationResult) error {
	if _, ok := m.results[r.ID]; !ok {
		return apperror.NotFound("examination result", r.ID)
	}
	cp := *r
	m.results[r.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.results[id]; !ok {
		return apperror.NotFound("examination result", id)
	}
	delete(m.results, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*ExaminationResult, int, error) {
	var result []*ExaminationResult
	for _, r := range m.results {
		if f.PatientID > 0 && r.PatientID != f.PatientID {
			continue
		}
		cp := *r
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListRecent(ctx context.Context, limit int) ([]*ExaminationResult, error) {
	all, _, err := m.List(ctx, Filter{}, limit, 0)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ExaminationDate.After(all[j].ExaminationDate)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type mockChecker map[int64]bool

func (m mockChecker) Exists(_ context.Context, id int64) (bool, error) {
	return m[id], nil
}

// -- Tests --

func newTestService(repo *mockRepo, patients, appointments mockChecker) *Service {
	svc := NewService(repo, patients, appointments)
	svc.now = func() time.Time { return date(2024, 6, 15) }
	return svc
}

func TestRecord_ComputesBMI(t *testing.T) {
	svc := newTestService(newMockRepo(), mockChecker{1: true}, mockChecker{})

	in := validInput()
	in.Height = fptr(170)
	in.Weight = fptr(70)
	r, err := svc.Record(context.Background(), in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if r.BMI == nil || *r.BMI != 24.2 {
		t.Errorf("bmi = %v, want 24.2", r.BMI)
	}
}

func TestRecord_BMIAbsentWithoutVitals(t *testing.T) {
	svc := newTestService(newMockRepo(), mockChecker{1: true}, mockChecker{})

	in := validInput()
	in.Weight = fptr(70)
	r, err := svc.Record(context.Background(), in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if r.BMI != nil {
		t.Errorf("bmi = %v, want absent", *r.BMI)
	}
}

func TestRecord_UnknownPatient(t *testing.T) {
	svc := newTestService(newMockRepo(), mockChecker{}, mockChecker{})

	_, err := svc.Record(context.Background(), validInput())
	fields, ok := apperror.AsFields(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fields["patient_id"]; !ok {
		t.Errorf("expected error on patient_id, got %v", fields)
	}
}

func TestRecord_UnknownAppointment(t *testing.T) {
	svc := newTestService(newMockRepo(), mockChecker{1: true}, mockChecker{})

	in := validInput()
	apptID := int64(9)
	in.AppointmentID = &apptID
	_, err := svc.Record(context.Background(), in)
	fields, ok := apperror.AsFields(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fields["appointment_id"]; !ok {
		t.Errorf("expected error on appointment_id, got %v", fields)
	}
}

func TestRecord_OutOfRangeVital(t *testing.T) {
	svc := newTestService(newMockRepo(), mockChecker{1: true}, mockChecker{})

	in := validInput()
	in.HeartRate = iptr(400)
	_, err := svc.Record(context.Background(), in)
	fields, ok := apperror.AsFields(err)
	if !ok {
		t.Fatalf("expected field errors, got %v", err)
	}
	if _, ok := fields["heart_rate"]; !ok {
		t.Errorf("expected error on heart_rate, got %v", fields)
	}
}

func TestUpdate_RecomputesBMI(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, mockChecker{1: true}, mockChecker{})

	in := validInput()
	in.Height = fptr(170)
	in.Weight = fptr(70)
	r, err := svc.Record(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	in.Weight = fptr(80)
	updated, err := svc.Update(context.Background(), r.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BMI == nil || *updated.BMI != 27.7 {
		t.Errorf("bmi = %v, want 27.7", updated.BMI)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), mockChecker{1: true}, mockChecker{})
	if _, err := svc.Get(context.Background(), 99); !apperror.IsNotFound(err) {
		t.Fatalf("got %v, want not-found", err)
	}
}

func TestListByPatient(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, mockChecker{1: true, 2: true}, mockChecker{})

	for _, pid := range []int64{1, 1, 2} {
		in := validInput()
		in.PatientID = pid
		in.Height = fptr(170)
		in.Weight = fptr(70)
		if _, err := svc.Record(context.Background(), in); err != nil {
			t.Fatal(err)
		}
	}

	results, total, err := svc.ListByPatient(context.Background(), 1, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("results = %d (total %d), want 2", len(results), total)
	}
	for _, r := range results {
		if r.BMI == nil {
			t.Error("expected derived bmi on listed records")
		}
	}
}
