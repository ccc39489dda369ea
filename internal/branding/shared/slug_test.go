package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Consulting", "consulting"},
		{"Site Survey", "site-survey"},
		{"Déjà Vu", "deja-vu"},
		{"  spaced   out  ", "spaced-out"},
		{"Hooks & Fittings (steel)", "hooks-fittings-steel"},
		{"already-slugged", "already-slugged"},
		{"UPPER_case 9", "upper-case-9"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
