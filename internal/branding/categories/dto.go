package categories

// CategoryInput carries the user-editable fields of a service category. An
// empty slug is derived from the name.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        string  `json:"slug" validate:"omitempty,max=140"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       string  `json:"color" validate:"omitempty,len=6,hexadecimal"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=60"`
	SortOrder   int     `json:"sort_order" validate:"min=0"`
	IsActive    bool    `json:"is_active"`
}

// QuickAddInput is the minimal variant used inline from the service item
// editor. Everything beyond the name takes defaults.
type QuickAddInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

// QuickAddResult is the compact payload the inline editor consumes.
type QuickAddResult struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}
