package brands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

type memoryBrandRepo struct {
	brands map[int64]Brand
	refs   map[int64][2]int
	nextID int64
}

func newMemoryBrandRepo() *memoryBrandRepo {
	return &memoryBrandRepo{brands: make(map[int64]Brand), refs: make(map[int64][2]int)}
}

func (r *memoryBrandRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryBrandRepo) List(ctx context.Context, companyID int64) ([]BrandUsage, error) {
	var out []BrandUsage
	for id, b := range r.brands {
		if b.CompanyID != companyID {
			continue
		}
		counts := r.refs[id]
		out = append(out, BrandUsage{Brand: b, QuotationCount: counts[0], InvoiceCount: counts[1]})
	}
	return out, nil
}

func (r *memoryBrandRepo) Get(ctx context.Context, id int64) (*Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r *memoryBrandRepo) Create(ctx context.Context, brand Brand) (int64, error) {
	r.nextID++
	brand.ID = r.nextID
	r.brands[brand.ID] = brand
	return brand.ID, nil
}

func (r *memoryBrandRepo) Update(ctx context.Context, id int64, brand Brand) error {
	if _, ok := r.brands[id]; !ok {
		return shared.ErrNotFound
	}
	brand.ID = id
	r.brands[id] = brand
	return nil
}

func (r *memoryBrandRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.brands[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.brands, id)
	return nil
}

func (r *memoryBrandRepo) ClearDefault(ctx context.Context, companyID, exceptID int64) error {
	for id, b := range r.brands {
		if b.CompanyID == companyID && id != exceptID && b.IsDefault {
			b.IsDefault = false
			r.brands[id] = b
		}
	}
	return nil
}

func (r *memoryBrandRepo) MarkDefault(ctx context.Context, id int64) error {
	b, ok := r.brands[id]
	if !ok {
		return shared.ErrNotFound
	}
	b.IsDefault = true
	r.brands[id] = b
	return nil
}

func (r *memoryBrandRepo) SetActive(ctx context.Context, id int64, active bool) error {
	b, ok := r.brands[id]
	if !ok {
		return shared.ErrNotFound
	}
	b.IsActive = active
	r.brands[id] = b
	return nil
}

func (r *memoryBrandRepo) CountDocumentRefs(ctx context.Context, brandID int64) (int, int, error) {
	counts := r.refs[brandID]
	return counts[0], counts[1], nil
}

type memFileStore struct {
	files     map[string][]byte
	failStore bool
	deleted   []string
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (m *memFileStore) Store(ctx context.Context, dir, name string, r io.Reader) (string, error) {
	if m.failStore {
		return "", errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	rel := dir + "/" + name
	m.files[rel] = data
	return rel, nil
}

func (m *memFileStore) Delete(ctx context.Context, rel string) error {
	delete(m.files, rel)
	m.deleted = append(m.deleted, rel)
	return nil
}

func (m *memFileStore) Abs(rel string) (string, error) {
	return "/storage/" + rel, nil
}

func (m *memFileStore) Stat(rel string) (fs.FileInfo, error) {
	if _, ok := m.files[rel]; !ok {
		return nil, &fs.PathError{Op: "stat", Path: rel, Err: fs.ErrNotExist}
	}
	return fakeFileInfo{name: rel}, nil
}

type fakeFileInfo struct{ name string }

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 1 }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Unix(1700000000, 0) }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }

func newBrandService(repo Repository, files brandingshared.FileStore) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, files)
}

func upload(name string) *brandingshared.Upload {
	return &brandingshared.Upload{Filename: name, Size: 4, Content: bytes.NewReader([]byte("data"))}
}

func TestCreateStoresLogo(t *testing.T) {
	repo := newMemoryBrandRepo()
	files := newMemFileStore()
	svc := newBrandService(repo, files)

	brand, err := svc.Create(context.Background(), 1, BrandInput{Name: "Acme", PrimaryColor: "1a2b3c", IsActive: true}, upload("logo.png"))
	require.NoError(t, err)
	require.NotNil(t, brand.LogoPath)
	require.Contains(t, files.files, *brand.LogoPath)
	require.Equal(t, int64(1), brand.CompanyID)
}

func TestCreateStripsColorHash(t *testing.T) {
	repo := newMemoryBrandRepo()
	svc := newBrandService(repo, newMemFileStore())

	brand, err := svc.Create(context.Background(), 1, BrandInput{Name: "Acme", PrimaryColor: "#1a2b3c"}, nil)
	require.NoError(t, err)
	require.Equal(t, "1a2b3c", brand.PrimaryColor)
}

func TestCreateRejectsBadColor(t *testing.T) {
	repo := newMemoryBrandRepo()
	svc := newBrandService(repo, newMemFileStore())

	_, err := svc.Create(context.Background(), 1, BrandInput{Name: "Acme", PrimaryColor: "red"}, nil)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "primary_color")
}

func TestCreateUploadFailure(t *testing.T) {
	repo := newMemoryBrandRepo()
	files := newMemFileStore()
	files.failStore = true
	svc := newBrandService(repo, files)

	_, err := svc.Create(context.Background(), 1, BrandInput{Name: "Acme"}, upload("logo.png"))
	require.ErrorIs(t, err, shared.ErrUpload)
	require.Empty(t, repo.brands)
}

func TestGetOtherCompanyForbidden(t *testing.T) {
	repo := newMemoryBrandRepo()
	id, err := repo.Create(context.Background(), Brand{CompanyID: 2, Name: "Theirs"})
	require.NoError(t, err)
	svc := newBrandService(repo, newMemFileStore())

	_, err = svc.Get(context.Background(), 1, id)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestDeleteReferencedConflict(t *testing.T) {
	repo := newMemoryBrandRepo()
	path := "brands/company_1/x.png"
	id, err := repo.Create(context.Background(), Brand{CompanyID: 1, Name: "Used", LogoPath: &path})
	require.NoError(t, err)
	repo.refs[id] = [2]int{3, 1}
	files := newMemFileStore()
	files.files[path] = []byte("data")
	svc := newBrandService(repo, files)

	err = svc.Delete(context.Background(), 1, id)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, repo.brands, id)
	require.Contains(t, files.files, path)
}

func TestDeleteRemovesLogoFile(t *testing.T) {
	repo := newMemoryBrandRepo()
	path := "brands/company_1/x.png"
	id, err := repo.Create(context.Background(), Brand{CompanyID: 1, Name: "Unused", LogoPath: &path})
	require.NoError(t, err)
	files := newMemFileStore()
	files.files[path] = []byte("data")
	svc := newBrandService(repo, files)

	require.NoError(t, svc.Delete(context.Background(), 1, id))
	require.NotContains(t, repo.brands, id)
	require.NotContains(t, files.files, path)
}

func TestSetDefaultDemotesPrevious(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBrandRepo()
	first, err := repo.Create(ctx, Brand{CompanyID: 1, Name: "First", IsDefault: true})
	require.NoError(t, err)
	second, err := repo.Create(ctx, Brand{CompanyID: 1, Name: "Second"})
	require.NoError(t, err)
	svc := newBrandService(repo, newMemFileStore())

	require.NoError(t, svc.SetDefault(ctx, 1, second))

	defaults := 0
	for _, b := range repo.brands {
		if b.IsDefault {
			defaults++
			require.Equal(t, second, b.ID)
		}
	}
	require.Equal(t, 1, defaults)
	require.False(t, repo.brands[first].IsDefault)
}

func TestSetDefaultOtherCompanyUntouched(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBrandRepo()
	other, err := repo.Create(ctx, Brand{CompanyID: 2, Name: "Other", IsDefault: true})
	require.NoError(t, err)
	mine, err := repo.Create(ctx, Brand{CompanyID: 1, Name: "Mine"})
	require.NoError(t, err)
	svc := newBrandService(repo, newMemFileStore())

	require.NoError(t, svc.SetDefault(ctx, 1, mine))
	require.True(t, repo.brands[other].IsDefault)
}

func TestUpdateReplacesLogoAndCleansOld(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBrandRepo()
	old := "brands/company_1/old.png"
	id, err := repo.Create(ctx, Brand{CompanyID: 1, Name: "Acme", LogoPath: &old})
	require.NoError(t, err)
	files := newMemFileStore()
	files.files[old] = []byte("old")
	svc := newBrandService(repo, files)

	brand, err := svc.Update(ctx, 1, id, BrandInput{Name: "Acme", IsActive: true}, upload("new.png"))
	require.NoError(t, err)
	require.NotNil(t, brand.LogoPath)
	require.NotEqual(t, old, *brand.LogoPath)
	require.NotContains(t, files.files, old)
	require.Contains(t, files.files, *brand.LogoPath)
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryBrandRepo()
	id, err := repo.Create(ctx, Brand{CompanyID: 1, Name: "Acme", IsActive: true})
	require.NoError(t, err)
	svc := newBrandService(repo, newMemFileStore())

	brand, err := svc.ToggleActive(ctx, 1, id)
	require.NoError(t, err)
	require.False(t, brand.IsActive)
}
