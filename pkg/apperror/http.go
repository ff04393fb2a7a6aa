package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPError translates a domain error into the HTTP error the handlers
// return. Validation failures carry the field→message set in the body.
func ToHTTPError(err error) *echo.HTTPError {
	if f, ok := AsFields(err); ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "The given data was invalid.",
			"errors":  f,
		})
	}
	if IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if errors.Is(err, ErrNumberExhausted) {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			"could not allocate a unique record number, please retry")
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return echo.NewHTTPError(http.StatusConflict, ce.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
