package categories

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vellum-suite/vellum/internal/shared"
)

const defaultColor = "6b7280"

func (s *Service) validate(in *CategoryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Color = strings.TrimPrefix(strings.TrimSpace(in.Color), "#")
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		if trimmed == "" {
			in.Description = nil
		} else {
			in.Description = &trimmed
		}
	}
	if in.Icon != nil {
		trimmed := strings.TrimSpace(*in.Icon)
		if trimmed == "" {
			in.Icon = nil
		} else {
			in.Icon = &trimmed
		}
	}

	if err := s.validator.Struct(in); err != nil {
		verr := &shared.ValidationError{Fields: map[string]string{}}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				verr.Add("name", "name is required and at most 120 characters")
			case "Slug":
				verr.Add("slug", "slug must be at most 140 characters")
			case "Description":
				verr.Add("description", "description must be at most 500 characters")
			case "Color":
				verr.Add("color", "must be a 6 digit hex color")
			case "Icon":
				verr.Add("icon", "icon must be at most 60 characters")
			case "SortOrder":
				verr.Add("sort_order", "sort order must be zero or positive")
			default:
				verr.Add(strings.ToLower(fieldErr.Field()), "invalid value")
			}
		}
		return verr
	}
	return nil
}

func (s *Service) validateQuickAdd(in *QuickAddInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return shared.NewValidationError("name", "name is required and at most 120 characters")
	}
	return nil
}
