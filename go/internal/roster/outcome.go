package roster

import (
	"errors"
	"net/http"

	"github.com/mcdev12/sportsball/go/internal/apperrors"
	"github.com/rs/zerolog/log"
)

// Outcome maps an error kind to the HTTP status and message a client sees.
// Validation is checked before Conflict so a duplicate username reads as bad
// input. Persistence and unclassified failures never expose their cause.
func Outcome(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		log.Error().Err(err).Msg("request failed")
		return http.StatusInternalServerError, "internal server error"
	}
}
