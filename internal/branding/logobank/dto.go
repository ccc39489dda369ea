package logobank

// LogoInput carries the user-editable fields of a logo bank entry. The image
// itself travels separately as a multipart upload.
type LogoInput struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
	IsDefault bool    `json:"is_default"`
}
