package brands

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vellum-suite/vellum/internal/shared"
)

func (s *Service) validate(in *BrandInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.PrimaryColor = strings.TrimPrefix(strings.TrimSpace(in.PrimaryColor), "#")
	in.SecondaryColor = strings.TrimPrefix(strings.TrimSpace(in.SecondaryColor), "#")

	if err := s.validator.Struct(in); err != nil {
		verr := &shared.ValidationError{Fields: map[string]string{}}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Name":
				verr.Add("name", "name is required and at most 120 characters")
			case "PrimaryColor":
				verr.Add("primary_color", "must be a 6 digit hex color")
			case "SecondaryColor":
				verr.Add("secondary_color", "must be a 6 digit hex color")
			default:
				verr.Add(strings.ToLower(fieldErr.Field()), "invalid value")
			}
		}
		return verr
	}
	return nil
}
