package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinic-server/internal/domain/appointment"
	"github.com/clinicore/clinic-server/internal/domain/examination"
)

type stubAppointments struct{ appts []*appointment.Appointment }

func (s *stubAppointments) ListByPatient(_ context.Context, _ int64, _, _ int) ([]*appointment.Appointment, int, error) {
	return s.appts, len(s.appts), nil
}

type stubExaminations struct{ results []*examination.ExaminationResult }

func (s *stubExaminations) ListByPatient(_ context.Context, _ int64, _, _ int) ([]*examination.ExaminationResult, int, error) {
	return s.results, len(s.results), nil
}

func newTestHandler(repo *mockRepo) (*Handler, *echo.Echo) {
	h := NewHandler(newTestService(repo), &stubAppointments{}, &stubExaminations{})
	return h, echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler(newMockRepo())

	body := `{"name":"Jane Roe","date_of_birth":"1990-03-02","gender":"female"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.PatientNumber == "" {
		t.Error("expected assigned patient number in response")
	}
	if p.Age != 34 {
		t.Errorf("age = %d, want 34", p.Age)
	}
}

func TestHandler_Create_ValidationError(t *testing.T) {
	h, e := newTestHandler(newMockRepo())

	body := `{"name":"Jane Roe"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %v, want 422", err)
	}
}

func TestHandler_Get(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo)

	p, err := h.svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var detail struct {
		Patient
		Appointments       []*appointment.Appointment       `json:"appointments"`
		ExaminationResults []*examination.ExaminationResult `json:"examination_results"`
	}
	json.Unmarshal(rec.Body.Bytes(), &detail)
	if detail.PatientNumber != p.PatientNumber {
		t.Errorf("patient number = %q, want %q", detail.PatientNumber, p.PatientNumber)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler(newMockRepo())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404", err)
	}
}

func TestHandler_List_BadStatus(t *testing.T) {
	h, e := newTestHandler(newMockRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?status=archived", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}

func TestHandler_Delete(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo)

	if _, err := h.svc.Register(context.Background(), validInput()); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler(newMockRepo())
	api := e.Group("/api/v1")

	h.RegisterRoutes(api)

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}
	expected := []string{
		"GET:/api/v1/patients",
		"GET:/api/v1/patients/:id",
		"POST:/api/v1/patients",
		"PUT:/api/v1/patients/:id",
		"DELETE:/api/v1/patients/:id",
	}
	for _, path := range expected {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}
