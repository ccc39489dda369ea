package categories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

// Service implements the service category manager. Every operation takes the
// caller's company id explicitly; categories owned by another company are
// Forbidden.
type Service struct {
	logger    *slog.Logger
	repo      Repository
	validator *validator.Validate
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo, validator: validator.New()}
}

// List returns a page of the company's categories with dependent item
// counts.
func (s *Service) List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]CategoryUsage, int, error) {
	return s.repo.List(ctx, companyID, filters)
}

// Get returns a single category after the tenant check.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*ServiceCategory, error) {
	return s.owned(ctx, companyID, id)
}

// Create validates input, derives a slug from the name when none is given
// and persists the category under the caller's company.
func (s *Service) Create(ctx context.Context, companyID int64, in CategoryInput) (*ServiceCategory, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	slug, err := s.resolveSlug(ctx, companyID, in.Slug, in.Name, 0)
	if err != nil {
		return nil, err
	}

	category := ServiceCategory{
		CompanyID:   companyID,
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		SortOrder:   in.SortOrder,
		IsActive:    in.IsActive,
	}
	if category.Color == "" {
		category.Color = defaultColor
	}

	id, err := s.repo.Create(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update validates input and replaces the category fields, re-deriving the
// slug when it was cleared.
func (s *Service) Update(ctx context.Context, companyID, id int64, in CategoryInput) (*ServiceCategory, error) {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	slug, err := s.resolveSlug(ctx, companyID, in.Slug, in.Name, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = in.Name
	updated.Slug = slug
	updated.Description = in.Description
	updated.Color = in.Color
	updated.Icon = in.Icon
	updated.SortOrder = in.SortOrder
	updated.IsActive = in.IsActive
	if updated.Color == "" {
		updated.Color = defaultColor
	}

	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a category unless service items still reference it.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	if _, err := s.owned(ctx, companyID, id); err != nil {
		return err
	}

	count, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return fmt.Errorf("count category items: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category is used by %d service items", shared.ErrConflict, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, companyID, id int64) (*ServiceCategory, error) {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, !existing.IsActive); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// QuickAdd creates a minimal category from the inline editor. Only a name is
// supplied; slug, color and ordering take defaults.
func (s *Service) QuickAdd(ctx context.Context, companyID int64, in QuickAddInput) (*QuickAddResult, error) {
	if err := s.validateQuickAdd(&in); err != nil {
		return nil, err
	}
	slug, err := s.resolveSlug(ctx, companyID, "", in.Name, 0)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, ServiceCategory{
		CompanyID: companyID,
		Name:      in.Name,
		Slug:      slug,
		Color:     defaultColor,
		IsActive:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("quick add category: %w", err)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &QuickAddResult{ID: created.ID, Name: created.Name, Slug: created.Slug, Color: created.Color}, nil
}

func (s *Service) owned(ctx context.Context, companyID, id int64) (*ServiceCategory, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "invalid category id")
	}
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.CompanyID != companyID {
		return nil, shared.ErrForbidden
	}
	return category, nil
}

// resolveSlug derives the slug from the name when absent and enforces
// per-company uniqueness. exceptID skips the record being updated.
func (s *Service) resolveSlug(ctx context.Context, companyID int64, slug, name string, exceptID int64) (string, error) {
	if slug == "" {
		slug = brandingshared.Slugify(name)
	} else {
		slug = brandingshared.Slugify(slug)
	}
	if slug == "" {
		return "", shared.NewValidationError("slug", "a slug could not be derived from the name")
	}

	existing, err := s.repo.FindBySlug(ctx, companyID, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return slug, nil
		}
		return "", err
	}
	if existing.ID != exceptID {
		return "", shared.NewValidationError("slug", "slug is already in use")
	}
	return slug, nil
}
