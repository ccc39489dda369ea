package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vellum-suite/vellum/internal/shared"
)

func TestRespondErrorDomainEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("%w: brand is referenced by 3 documents", shared.ErrConflict))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.Contains(t, env.Message, "referenced by 3 documents")
}

func TestRespondErrorValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, shared.NewValidationError("name", "name is required"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.Equal(t, "validation failed", env.Message)
	require.Equal(t, "name is required", env.Errors["name"])
}

func TestRespondErrorUnexpectedFallsBackToProblem(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, http.StatusInternalServerError, problem.Status)
	require.NotContains(t, problem.Detail, "connection refused")
}
