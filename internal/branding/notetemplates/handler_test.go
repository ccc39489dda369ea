package notetemplates

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vellum-suite/vellum/internal/rbac"
	"github.com/vellum-suite/vellum/internal/shared"
	"github.com/vellum-suite/vellum/internal/view"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(newMemoryTemplateRepo())
	return NewHandler(logger, service, templates, shared.NewCSRFManager("test-secret"), rbac.Middleware{})
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/branding/note-templates", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseInputActiveDefaultsTrueWhenOmitted(t *testing.T) {
	req := formRequest(url.Values{
		"type":    {"footer"},
		"name":    {"Standard footer"},
		"content": {"Thank you for your business"},
	})

	input, err := parseInput(req)
	require.NoError(t, err)
	require.True(t, input.IsActive)
	require.False(t, input.IsDefault)
}

func TestParseInputUncheckedBoxDeactivates(t *testing.T) {
	req := formRequest(url.Values{
		"type":      {"footer"},
		"name":      {"Standard footer"},
		"content":   {"Thank you for your business"},
		"is_active": {"0"},
	})

	input, err := parseInput(req)
	require.NoError(t, err)
	require.False(t, input.IsActive)
}

func TestParseInputCheckedBoxWinsOverCompanion(t *testing.T) {
	req := formRequest(url.Values{
		"type":       {"footer"},
		"name":       {"Standard footer"},
		"content":    {"Thank you for your business"},
		"is_active":  {"0", "1"},
		"is_default": {"on"},
	})

	input, err := parseInput(req)
	require.NoError(t, err)
	require.True(t, input.IsActive)
	require.True(t, input.IsDefault)
}

func TestListUnknownTypeRedirectsWithFlash(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/branding/note-templates?type=bogus", nil)
	sess := &shared.Session{}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/branding/note-templates", rec.Header().Get("Location"))
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	require.Equal(t, "error", flash.Kind)
}

func TestListUnknownTypeJSONUnprocessable(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/branding/note-templates?type=bogus&format=json", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
