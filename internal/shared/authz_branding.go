package shared

// Branding permissions.
const (
	PermBrandView = "branding.brand.view"
	PermBrandEdit = "branding.brand.edit"

	PermNoteTemplateView = "branding.notetemplate.view"
	PermNoteTemplateEdit = "branding.notetemplate.edit"

	PermLogoView = "branding.logo.view"
	PermLogoEdit = "branding.logo.edit"

	PermCategoryView = "branding.category.view"
	PermCategoryEdit = "branding.category.edit"
)

// BrandingScopes lists all permissions related to branding administration.
func BrandingScopes() []string {
	return []string{
		PermBrandView,
		PermBrandEdit,
		PermNoteTemplateView,
		PermNoteTemplateEdit,
		PermLogoView,
		PermLogoEdit,
		PermCategoryView,
		PermCategoryEdit,
	}
}
