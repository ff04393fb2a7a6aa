package patient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinic-server/internal/domain/appointment"
	"github.com/clinicore/clinic-server/internal/domain/examination"
	"github.com/clinicore/clinic-server/internal/platform/auth"
	"github.com/clinicore/clinic-server/pkg/apperror"
	"github.com/clinicore/clinic-server/pkg/pagination"
)

// AppointmentLister supplies a patient's appointments for the detail view.
type AppointmentLister interface {
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*appointment.Appointment, int, error)
}

// ExaminationLister supplies a patient's examination results for the detail
// view.
type ExaminationLister interface {
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*examination.ExaminationResult, int, error)
}

type Handler struct {
	svc          *Service
	appointments AppointmentLister
	examinations ExaminationLister
}

func NewHandler(svc *Service, appointments AppointmentLister, examinations ExaminationLister) *Handler {
	return &Handler{svc: svc, appointments: appointments, examinations: examinations}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "doctor", "staff"))
	read.GET("/patients", h.List)
	read.GET("/patients/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin", "staff"))
	write.POST("/patients", h.Create)
	write.PUT("/patients/:id", h.Update)
	write.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

// detailResponse is the patient show screen: the record plus its latest
// appointments and examination results.
type detailResponse struct {
	*Patient
	Appointments       []*appointment.Appointment      `json:"appointments"`
	ExaminationResults []*examination.ExaminationResult `json:"examination_results"`
}

const detailHistoryLimit = 50

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, id)
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	appts, _, err := h.appointments.ListByPatient(ctx, id, detailHistoryLimit, 0)
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	results, _, err := h.examinations.ListByPatient(ctx, id, detailHistoryLimit, 0)
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, detailResponse{
		Patient:            p,
		Appointments:       appts,
		ExaminationResults: results,
	})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	}
	if f.Status != "" && !validStatuses[f.Status] {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be active or inactive")
	}
	patients, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return apperror.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
