package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	satbrowse "github.com/psagers/sat-browse"
)

// codes maps domain error codes to HTTP status codes.
var codes = map[string]int{
	satbrowse.ECONFLICT:     http.StatusConflict,
	satbrowse.EINVALID:      http.StatusBadRequest,
	satbrowse.ENOTFOUND:     http.StatusNotFound,
	satbrowse.EUNAUTHORIZED: http.StatusUnauthorized,
	satbrowse.EFORBIDDEN:    http.StatusForbidden,
	satbrowse.EINTERNAL:     http.StatusInternalServerError,
}

// errorStatusCode returns the HTTP status for a domain error code.
func errorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// httpErrorHandler translates errors into JSON responses. Domain errors keep
// their message; anything else is masked as an internal error.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := satbrowse.ErrorCode(err)
	message := satbrowse.ErrorMessage(err)
	status := errorStatusCode(code)

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if status >= 500 {
		s.logger.Error("internal error",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	if err := c.JSON(status, map[string]string{"error": message}); err != nil {
		s.logger.Error("failed to write error response", slog.String("error", err.Error()))
	}
}
