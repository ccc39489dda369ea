package brands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

// Service implements the brand manager. Every operation takes the caller's
// company id explicitly; entities owned by another company are Forbidden.
type Service struct {
	logger    *slog.Logger
	repo      Repository
	files     brandingshared.FileStore
	validator *validator.Validate
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, files brandingshared.FileStore) *Service {
	return &Service{
		logger:    logger,
		repo:      repo,
		files:     files,
		validator: validator.New(),
	}
}

// List returns the company's brands, default first then alphabetical, with
// document reference counts for display.
func (s *Service) List(ctx context.Context, companyID int64) ([]BrandUsage, error) {
	return s.repo.List(ctx, companyID)
}

// Get returns a single brand after the tenant check.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Brand, error) {
	return s.owned(ctx, companyID, id)
}

// Create validates input, stores an optional logo upload and persists the
// brand under the caller's company.
func (s *Service) Create(ctx context.Context, companyID int64, in BrandInput, logo *brandingshared.Upload) (*Brand, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	brand := Brand{
		CompanyID:      companyID,
		Name:           in.Name,
		PrimaryColor:   in.PrimaryColor,
		SecondaryColor: in.SecondaryColor,
		IsActive:       in.IsActive,
	}

	if logo != nil {
		path, err := s.storeLogo(ctx, companyID, logo)
		if err != nil {
			return nil, err
		}
		brand.LogoPath = &path
	}

	id, err := s.repo.Create(ctx, brand)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update validates input and replaces brand fields. A newly supplied logo
// replaces the stored file; removing the old file is best-effort.
func (s *Service) Update(ctx context.Context, companyID, id int64, in BrandInput, logo *brandingshared.Upload) (*Brand, error) {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = in.Name
	updated.PrimaryColor = in.PrimaryColor
	updated.SecondaryColor = in.SecondaryColor
	updated.IsActive = in.IsActive

	if logo != nil {
		path, err := s.storeLogo(ctx, companyID, logo)
		if err != nil {
			return nil, err
		}
		if existing.LogoPath != nil {
			s.cleanupFile(ctx, *existing.LogoPath)
		}
		updated.LogoPath = &path
	}

	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a brand unless documents still reference it. The stored
// logo file is removed best-effort after the record is gone.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return err
	}

	quotations, invoices, err := s.repo.CountDocumentRefs(ctx, id)
	if err != nil {
		return fmt.Errorf("count brand references: %w", err)
	}
	if quotations+invoices > 0 {
		return fmt.Errorf("%w: brand is referenced by %d documents", shared.ErrConflict, quotations+invoices)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if existing.LogoPath != nil {
		s.cleanupFile(ctx, *existing.LogoPath)
	}
	return nil
}

// SetDefault promotes the brand to the company default, demoting any other
// default in the same transaction.
func (s *Service) SetDefault(ctx context.Context, companyID, id int64) error {
	if _, err := s.owned(ctx, companyID, id); err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.ClearDefault(ctx, companyID, id); err != nil {
			return err
		}
		return repo.MarkDefault(ctx, id)
	})
}

// ToggleActive flips the active flag.
func (s *Service) ToggleActive(ctx context.Context, companyID, id int64) (*Brand, error) {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, !existing.IsActive); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) owned(ctx context.Context, companyID, id int64) (*Brand, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "invalid brand id")
	}
	brand, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand.CompanyID != companyID {
		return nil, shared.ErrForbidden
	}
	return brand, nil
}

func (s *Service) storeLogo(ctx context.Context, companyID int64, logo *brandingshared.Upload) (string, error) {
	name := uuid.NewString()
	if ext := logo.Ext(); ext != "" {
		name += "." + ext
	}
	dir := fmt.Sprintf("brands/company_%d", companyID)
	path, err := s.files.Store(ctx, dir, name, logo.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}
	return path, nil
}

// cleanupFile removes a replaced or orphaned logo file. Failures are logged
// and never abort the primary operation.
func (s *Service) cleanupFile(ctx context.Context, path string) {
	if err := s.files.Delete(ctx, path); err != nil {
		s.logger.Warn("brand logo cleanup failed", slog.String("path", path), slog.Any("error", err))
	}
}
