package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// BrandingScopes feeds permission seeding at startup; a constant missing
// here would leave its routes permanently denied.
func TestBrandingScopesCoverEveryPermission(t *testing.T) {
	require.ElementsMatch(t, []string{
		PermBrandView, PermBrandEdit,
		PermNoteTemplateView, PermNoteTemplateEdit,
		PermLogoView, PermLogoEdit,
		PermCategoryView, PermCategoryEdit,
	}, BrandingScopes())
}
