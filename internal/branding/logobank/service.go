package logobank

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
}

// ServedFile describes a logo image resolved for delivery.
type ServedFile struct {
	AbsPath     string
	Name        string
	ContentType string
	ModTime     time.Time
}

// Service implements the logo bank manager. Every operation takes the
// caller's company id explicitly; entries owned by another company are
// Forbidden.
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

// List returns the company's logos, most recent first.
func (s *Service) List(ctx context.Context, companyID int64) ([]Logo, error) {
	return s.repo.List(ctx, companyID)
}

// Get returns a single logo after the tenant check.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Logo, error) {
	return s.owned(ctx, companyID, id)
}

// Create stores the upload and persists the entry. The first logo a company
// uploads becomes the default automatically; a later upload only becomes
// default when the input asks for it, demoting the previous default in the
// same transaction.
func (s *Service) Create(ctx context.Context, companyID int64, in LogoInput, upload brandingshared.Upload) (*Logo, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	if err := validateExtension(upload.Ext()); err != nil {
		return nil, err
	}

	path, err := s.storeFile(ctx, companyID, upload)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		count, err := repo.CountForCompany(ctx, companyID)
		if err != nil {
			return err
		}
		logo := Logo{
			CompanyID: companyID,
			Name:      in.Name,
			FilePath:  path,
			Notes:     in.Notes,
			IsDefault: count == 0 || in.IsDefault,
		}
		id, err = repo.Create(ctx, logo)
		if err != nil {
			return err
		}
		if logo.IsDefault {
			return repo.ClearDefault(ctx, companyID, id)
		}
		return nil
	})
	if err != nil {
		s.cleanupFile(ctx, path)
		return nil, fmt.Errorf("create logo: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update changes name and notes. The stored image is immutable; replacing it
// means uploading a new entry.
func (s *Service) Update(ctx context.Context, companyID, id int64, in LogoInput) (*Logo, error) {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = in.Name
	updated.Notes = in.Notes
	if err := s.repo.Update(ctx, id, updated); err != nil {
		return nil, fmt.Errorf("update logo: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a logo. The last remaining logo cannot be deleted. When the
// default is deleted, the oldest surviving logo is promoted in the same
// transaction so the company is never left without a default. The stored
// file is removed best-effort after the record is gone.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	existing, err := s.owned(ctx, companyID, id)
	if err != nil {
		return err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		count, err := repo.CountForCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return fmt.Errorf("%w: the last logo cannot be deleted", shared.ErrConflict)
		}
		if existing.IsDefault {
			next, err := repo.FirstOther(ctx, companyID, id)
			if err != nil {
				return err
			}
			if err := repo.MarkDefault(ctx, next.ID); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cleanupFile(ctx, existing.FilePath)
	return nil
}

// SetDefault promotes the logo to the company default, demoting any other
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

// Serve resolves the logo's file on disk for delivery. A record whose file
// has gone missing reads as NotFound rather than an internal error.
func (s *Service) Serve(ctx context.Context, companyID, id int64) (*ServedFile, error) {
	logo, err := s.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	abs, err := s.files.Abs(logo.FilePath)
	if err != nil {
		return nil, fmt.Errorf("resolve logo file: %w", err)
	}
	info, err := s.files.Stat(logo.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	upload := brandingshared.Upload{Filename: logo.FilePath}
	ct, ok := contentTypes[upload.Ext()]
	if !ok {
		ct = "application/octet-stream"
	}
	return &ServedFile{
		AbsPath:     abs,
		Name:        logo.Name,
		ContentType: ct,
		ModTime:     info.ModTime(),
	}, nil
}

// ListForClient returns the compact listing embedded in the document
// composer, with cache-busted file URLs keyed by the last update timestamp.
func (s *Service) ListForClient(ctx context.Context, companyID int64) ([]ClientLogo, error) {
	logos, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]ClientLogo, 0, len(logos))
	for _, l := range logos {
		out = append(out, ClientLogo{
			ID:        l.ID,
			Name:      l.Name,
			URL:       fmt.Sprintf("/branding/logos/%d/file?v=%d", l.ID, l.UpdatedAt.Unix()),
			IsDefault: l.IsDefault,
			Notes:     l.Notes,
		})
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, companyID, id int64) (*Logo, error) {
	if id <= 0 {
		return nil, shared.NewValidationError("id", "invalid logo id")
	}
	logo, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if logo.CompanyID != companyID {
		return nil, shared.ErrForbidden
	}
	return logo, nil
}

func (s *Service) storeFile(ctx context.Context, companyID int64, upload brandingshared.Upload) (string, error) {
	name := uuid.NewString() + "." + upload.Ext()
	dir := fmt.Sprintf("logos/company_%d", companyID)
	path, err := s.files.Store(ctx, dir, name, upload.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}
	return path, nil
}

// cleanupFile removes an orphaned image. Failures are logged and never abort
// the primary operation.
func (s *Service) cleanupFile(ctx context.Context, path string) {
	if err := s.files.Delete(ctx, path); err != nil {
		s.logger.Warn("logo file cleanup failed", slog.String("path", path), slog.Any("error", err))
	}
}
