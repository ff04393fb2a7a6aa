package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler(repo *mockRepo, patients mockPatients) (*Handler, *echo.Echo) {
	return NewHandler(newTestService(repo, patients)), echo.New()
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), mockPatients{1: true})

	body := `{"patient_id":1,"appointment_date":"2024-06-20","appointment_time":"09:30","type":"general_checkup"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Appointment
	json.Unmarshal(rec.Body.Bytes(), &a)
	if a.AppointmentNumber == "" {
		t.Error("expected assigned appointment number in response")
	}
}

func TestHandler_Create_PastDate(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), mockPatients{1: true})

	body := `{"patient_id":1,"appointment_date":"2024-06-10","appointment_time":"09:30","type":"general_checkup"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %v, want 422", err)
	}
}

func TestHandler_List_BadScope(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), mockPatients{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?scope=past", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}

func TestHandler_List_UpcomingScope(t *testing.T) {
	repo := newMockRepo()
	h, e := newTestHandler(repo, mockPatients{1: true})

	if _, err := h.svc.Book(context.Background(), validInput()); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?scope=upcoming", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Delete_NotFound(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), mockPatients{})

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.Delete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404", err)
	}
}

func TestHandler_RegisterRoutes(t *testing.T) {
	h, e := newTestHandler(newMockRepo(), mockPatients{})
	api := e.Group("/api/v1")

	h.RegisterRoutes(api)

	routePaths := make(map[string]bool)
	for _, r := range e.Routes() {
		routePaths[r.Method+":"+r.Path] = true
	}
	expected := []string{
		"GET:/api/v1/appointments",
		"GET:/api/v1/appointments/:id",
		"POST:/api/v1/appointments",
		"PUT:/api/v1/appointments/:id",
		"DELETE:/api/v1/appointments/:id",
	}
	for _, path := range expected {
		if !routePaths[path] {
			t.Errorf("missing expected route: %s", path)
		}
	}
}
