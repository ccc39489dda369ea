package notetemplates

// NoteTemplateInput carries the fields a caller may set on a template.
// IsActive defaults to true and IsDefault to false when the caller omits
// them; the handler applies those defaults before the service runs.
type NoteTemplateInput struct {
	Type      string `json:"type" validate:"required"`
	Name      string `json:"name" validate:"required,max=120"`
	Content   string `json:"content" validate:"required"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}
