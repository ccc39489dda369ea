package httpx

import (
	"errors"
	"net/http"

	"github.com/vellum-suite/vellum/internal/shared"
)

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes a failure envelope for the domain error taxonomy.
// Validation errors carry the field map so forms can highlight inputs.
// Errors outside the taxonomy fall back to an RFC7807 problem.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		Problem(w, status, http.StatusText(status), shared.UserSafeMessage(err))
		return
	}
	env := Envelope{Success: false, Message: shared.UserSafeMessage(err)}
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		env.Message = "validation failed"
		env.Errors = verr.Fields
	}
	JSON(w, status, env)
}
