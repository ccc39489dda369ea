package notetemplates

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vellum-suite/vellum/internal/shared"
)

func (s *Service) validate(in *NoteTemplateInput) error {
	in.Type = strings.TrimSpace(strings.ToLower(in.Type))
	in.Name = strings.TrimSpace(in.Name)

	verr := &shared.ValidationError{Fields: map[string]string{}}
	if err := s.validator.Struct(in); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Type":
				verr.Add("type", "type is required")
			case "Name":
				verr.Add("name", "name is required and at most 120 characters")
			case "Content":
				verr.Add("content", "content is required")
			default:
				verr.Add(strings.ToLower(fieldErr.Field()), "invalid value")
			}
		}
	}
	if in.Type != "" && !TemplateType(in.Type).Valid() {
		verr.Add("type", "unknown template type")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
