package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/pipeline/internal/board"
	"github.com/alexanderramin/pipeline/internal/domain"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrInvalidPermutation):
		return http.StatusBadRequest, "invalid_permutation"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrColumnNotEmpty):
		return http.StatusConflict, "column_not_empty"
	case errors.Is(err, board.ErrDragInProgress):
		return http.StatusConflict, "drag_in_progress"
	case errors.Is(err, board.ErrMovePending):
		return http.StatusConflict, "move_pending"
	case errors.Is(err, board.ErrColumnsLocked):
		return http.StatusConflict, "columns_locked"
	case errors.Is(err, board.ErrColumnBusy):
		return http.StatusConflict, "column_busy"
	case errors.Is(err, board.ErrStaleGesture):
		return http.StatusConflict, "stale_gesture"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, board.ErrClosed):
		return http.StatusServiceUnavailable, "closed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		_ = c.JSON(he.Code, errorResponse{Error: msg, Code: "http"})
		return
	}

	status, code := statusFor(err)
	resp := errorResponse{Error: err.Error(), Code: code}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("http_error", "uri", c.Request().RequestURI, "error", err.Error())
	}
	_ = c.JSON(status, resp)
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
}
