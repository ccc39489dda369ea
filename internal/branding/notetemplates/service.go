package notetemplates

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

// Service implements the note template manager.
type Service struct {
	repo      Repository
	validator *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validator.New()}
}

// List returns a page of the company's templates.
func (s *Service) List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]NoteTemplate, int, error) {
	if filters.Type != "" && !TemplateType(filters.Type).Valid() {
		return nil, 0, shared.NewValidationError("type", "unknown template type")
	}
	return s.repo.List(ctx, companyID, filters)
}

// Get returns a single template after the tenant check.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*NoteTemplate, error) {
	return s.owned(ctx, companyID, id)
}

// GetByType returns every template of the given type plus the current
// default for that type, for the document builder to prefill content.
func (s *Service) GetByType(ctx context.Context, companyID int64, typ string) (*TypeListing, error) {
	t := TemplateType(typ)
	if !t.Valid() {
		return nil, shared.NewValidationError("type", "unknown template type")
	}
	templates, err := s.repo.ListByType(ctx, companyID, t)
	if err != nil {
		return nil, err
	}
	listing := &TypeListing{Templates: templates}
	for i := range templates {
		if templates[i].IsDefault {
			listing.Default = &templates[i]
			break
		}
	}
	return listing, nil
}

// Create validates input and persists a template. Promoting it to default
// demotes the previous default of the same (company, type) in one
// transaction.
func (s *Service) Create(ctx context.Context, companyID int64, in NoteTemplateInput) (*NoteTemplate, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	template := NoteTemplate{
		CompanyID: companyID,
		Type:      TemplateType(in.Type),
		Name:      in.Name,
		Content:   in.Content,
		IsDefault: in.IsDefault,
		IsActive:  in.IsActive,
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		created, err := repo.Create(ctx, template)
		if err != nil {
			return fmt.Errorf("create note template: %w", err)
		}
		id = created
		if template.IsDefault {
			return repo.ClearDefault(ctx, companyID, template.Type, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update validates input and replaces template fields, keeping the
// single-default invariant within the (company, type) scope.
func (s *Service) Update(ctx context.Context, companyID, id int64, in NoteTemplateInput) (*NoteTemplate, error) {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Type = TemplateType(in.Type)
	updated.Name = in.Name
	updated.Content = in.Content
	updated.IsDefault = in.IsDefault
	updated.IsActive = in.IsActive

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, updated); err != nil {
			return fmt.Errorf("update note template: %w", err)
		}
		if updated.IsDefault {
			return repo.ClearDefault(ctx, companyID, updated.Type, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a template. Templates carry no dependency guard.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	if _, err := s.owned(ctx, companyID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SetDefault promotes the template within its (company, type) scope.
func (s *Service) SetDefault(ctx context.Context, companyID, id int64) error {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.ClearDefault(ctx, companyID, existing.Type, id); err != nil {
			return err
		}
		return repo.MarkDefault(ctx, id)
	})
}

func (s *Service) owned(ctx context.Context, companyID, id int64) (*NoteTemplate, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "invalid template id")
	}
	template, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if template.CompanyID != companyID {
		return nil, shared.ErrForbidden
	}
	return template, nil
}
