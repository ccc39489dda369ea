package brands

// BrandInput carries the fields a caller may set on a brand.
type BrandInput struct {
	Name           string `json:"name" validate:"required,max=120"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,len=6,hexadecimal"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,len=6,hexadecimal"`
	IsActive       bool   `json:"is_active"`
}
