package httpx

import (
	"net/http"
	"strings"
)

// WantsJSON reports whether the caller asked for a JSON representation.
// The signal is explicit: a format=json query parameter, a JSON Accept
// header, or the XMLHttpRequest marker. Services never see this; only the
// handler boundary consults it.
func WantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
