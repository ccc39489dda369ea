package logobank

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vellum-suite/vellum/internal/shared"
)

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"svg":  {},
}

func (s *Service) validate(in *LogoInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Notes != nil {
		trimmed := strings.TrimSpace(*in.Notes)
		if trimmed == "" {
			in.Notes = nil
		} else {
			in.Notes = &trimmed
		}
	}

	if err := s.validator.Struct(in); err != nil {
		verr := &shared.ValidationError{Fields: map[string]string{}}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				verr.Add("name", "name is required and at most 120 characters")
			case "Notes":
				verr.Add("notes", "notes must be at most 500 characters")
			default:
				verr.Add(strings.ToLower(fieldErr.Field()), "invalid value")
			}
		}
		return verr
	}
	return nil
}

func validateExtension(ext string) error {
	if _, ok := allowedExtensions[ext]; !ok {
		return shared.NewValidationError("file", "unsupported image type, use jpg, jpeg, png, gif or svg")
	}
	return nil
}
