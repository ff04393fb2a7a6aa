package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinic-server/internal/platform/auth"
	"github.com/clinicore/clinic-server/pkg/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Overview, auth.RequireRole("admin", "doctor", "staff"))
}

func (h *Handler) Overview(c echo.Context) error {
	o, err := h.svc.Overview(c.Request().Context())
	if err != nil {
		return apperror.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, o)
}
