package categories

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

type memoryCategoryRepo struct {
	categories map[int64]ServiceCategory
	items      map[int64]int
	nextID     int64
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[int64]ServiceCategory), items: make(map[int64]int)}
}

func (r *memoryCategoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryCategoryRepo) List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]CategoryUsage, int, error) {
	var out []CategoryUsage
	for id, c := range r.categories {
		if c.CompanyID != companyID {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filters.Search)) {
			continue
		}
		if filters.IsActive != nil && c.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, CategoryUsage{ServiceCategory: c, ItemCount: r.items[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, len(out), nil
}

func (r *memoryCategoryRepo) Get(ctx context.Context, id int64) (*ServiceCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memoryCategoryRepo) FindBySlug(ctx context.Context, companyID int64, slug string) (*ServiceCategory, error) {
	for _, c := range r.categories {
		if c.CompanyID == companyID && c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryCategoryRepo) Create(ctx context.Context, category ServiceCategory) (int64, error) {
	r.nextID++
	category.ID = r.nextID
	r.categories[category.ID] = category
	return category.ID, nil
}

func (r *memoryCategoryRepo) Update(ctx context.Context, id int64, category ServiceCategory) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	category.ID = id
	r.categories[id] = category
	return nil
}

func (r *memoryCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memoryCategoryRepo) SetActive(ctx context.Context, id int64, active bool) error {
	c, ok := r.categories[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.IsActive = active
	r.categories[id] = c
	return nil
}

func (r *memoryCategoryRepo) CountItems(ctx context.Context, categoryID int64) (int, error) {
	return r.items[categoryID], nil
}

func newCategoryService(repo Repository) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func TestCreateDerivesSlug(t *testing.T) {
	svc := newCategoryService(newMemoryCategoryRepo())

	category, err := svc.Create(context.Background(), 1, CategoryInput{Name: "Déjà Vu Consulting", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "deja-vu-consulting", category.Slug)
	require.Equal(t, defaultColor, category.Color)
}

func TestCreateKeepsExplicitSlug(t *testing.T) {
	svc := newCategoryService(newMemoryCategoryRepo())

	category, err := svc.Create(context.Background(), 1, CategoryInput{Name: "Consulting", Slug: "advice", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "advice", category.Slug)
}

func TestCreateDuplicateSlugRejected(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(newMemoryCategoryRepo())

	_, err := svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "slug")
}

func TestCreateSameSlugDifferentCompany(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(newMemoryCategoryRepo())

	_, err := svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)
}

func TestUpdateKeepsOwnSlug(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(newMemoryCategoryRepo())

	category, err := svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, category.ID, CategoryInput{Name: "Consulting", Slug: category.Slug, IsActive: false})
	require.NoError(t, err)
	require.Equal(t, category.Slug, updated.Slug)
	require.False(t, updated.IsActive)
}

func TestDeleteWithItemsConflict(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCategoryRepo()
	svc := newCategoryService(repo)

	category, err := svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)
	repo.items[category.ID] = 4

	err = svc.Delete(ctx, 1, category.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, repo.categories, category.ID)
}

func TestDeleteUnusedCategory(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCategoryRepo()
	svc := newCategoryService(repo)

	category, err := svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, category.ID))
	require.NotContains(t, repo.categories, category.ID)
}

func TestGetOtherCompanyForbidden(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(newMemoryCategoryRepo())

	theirs, err := svc.Create(ctx, 2, CategoryInput{Name: "Theirs", IsActive: true})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 1, theirs.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestQuickAddDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCategoryRepo()
	svc := newCategoryService(repo)

	result, err := svc.QuickAdd(ctx, 1, QuickAddInput{Name: "Site Survey"})
	require.NoError(t, err)
	require.Equal(t, "site-survey", result.Slug)
	require.Equal(t, defaultColor, result.Color)

	created := repo.categories[result.ID]
	require.True(t, created.IsActive)
	require.Zero(t, created.SortOrder)
}

func TestQuickAddRequiresName(t *testing.T) {
	svc := newCategoryService(newMemoryCategoryRepo())

	_, err := svc.QuickAdd(context.Background(), 1, QuickAddInput{Name: "   "})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(newMemoryCategoryRepo())

	category, err := svc.Create(ctx, 1, CategoryInput{Name: "Consulting", IsActive: true})
	require.NoError(t, err)

	toggled, err := svc.ToggleActive(ctx, 1, category.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsActive)
}

func TestListFiltersActive(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCategoryRepo()
	svc := newCategoryService(repo)

	_, err := svc.Create(ctx, 1, CategoryInput{Name: "Active one", IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, CategoryInput{Name: "Dormant", IsActive: false})
	require.NoError(t, err)

	active := true
	out, total, err := svc.List(ctx, 1, brandingshared.ListFilters{IsActive: &active})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, out, 1)
	require.Equal(t, "Active one", out[0].Name)
}
