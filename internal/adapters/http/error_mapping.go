package httpadapter

import (
	"net/http"

	"github.com/snipvault/snipvault/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrCaptureNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInvalidPlan):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
