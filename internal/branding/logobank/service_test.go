package logobank

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/shared"
)

type memoryLogoRepo struct {
	logos  map[int64]Logo
	nextID int64
}

func newMemoryLogoRepo() *memoryLogoRepo {
	return &memoryLogoRepo{logos: make(map[int64]Logo)}
}

func (r *memoryLogoRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryLogoRepo) List(ctx context.Context, companyID int64) ([]Logo, error) {
	var out []Logo
	for _, l := range r.logos {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryLogoRepo) Get(ctx context.Context, id int64) (*Logo, error) {
	l, ok := r.logos[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (r *memoryLogoRepo) Create(ctx context.Context, logo Logo) (int64, error) {
	r.nextID++
	logo.ID = r.nextID
	logo.UpdatedAt = time.Now().UTC()
	r.logos[logo.ID] = logo
	return logo.ID, nil
}

func (r *memoryLogoRepo) Update(ctx context.Context, id int64, logo Logo) error {
	if _, ok := r.logos[id]; !ok {
		return shared.ErrNotFound
	}
	logo.ID = id
	r.logos[id] = logo
	return nil
}

func (r *memoryLogoRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.logos[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.logos, id)
	return nil
}

func (r *memoryLogoRepo) CountForCompany(ctx context.Context, companyID int64) (int, error) {
	count := 0
	for _, l := range r.logos {
		if l.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (r *memoryLogoRepo) FirstOther(ctx context.Context, companyID, exceptID int64) (*Logo, error) {
	var best *Logo
	for id, l := range r.logos {
		if l.CompanyID != companyID || id == exceptID {
			continue
		}
		l := l
		if best == nil || l.ID < best.ID {
			best = &l
		}
	}
	if best == nil {
		return nil, shared.ErrNotFound
	}
	return best, nil
}

func (r *memoryLogoRepo) ClearDefault(ctx context.Context, companyID, exceptID int64) error {
	for id, l := range r.logos {
		if l.CompanyID == companyID && id != exceptID && l.IsDefault {
			l.IsDefault = false
			r.logos[id] = l
		}
	}
	return nil
}

func (r *memoryLogoRepo) MarkDefault(ctx context.Context, id int64) error {
	l, ok := r.logos[id]
	if !ok {
		return shared.ErrNotFound
	}
	l.IsDefault = true
	r.logos[id] = l
	return nil
}

type memFileStore struct {
	files     map[string][]byte
	failStore bool
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

func newLogoService(repo Repository, files brandingshared.FileStore) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, files)
}

func upload(name string) brandingshared.Upload {
	return brandingshared.Upload{Filename: name, Size: 4, Content: bytes.NewReader([]byte("data"))}
}

func TestCreateFirstLogoBecomesDefault(t *testing.T) {
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	logo, err := svc.Create(context.Background(), 1, LogoInput{Name: "Main"}, upload("main.png"))
	require.NoError(t, err)
	require.True(t, logo.IsDefault)
}

func TestCreateSecondLogoNotDefault(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	first, err := svc.Create(ctx, 1, LogoInput{Name: "First"}, upload("a.png"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, LogoInput{Name: "Second"}, upload("b.png"))
	require.NoError(t, err)

	require.True(t, repo.logos[first.ID].IsDefault)
	require.False(t, second.IsDefault)
}

func TestCreatePromoteOnRequest(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	first, err := svc.Create(ctx, 1, LogoInput{Name: "First"}, upload("a.png"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, LogoInput{Name: "Second", IsDefault: true}, upload("b.png"))
	require.NoError(t, err)

	require.True(t, second.IsDefault)
	require.False(t, repo.logos[first.ID].IsDefault)
}

func TestCreateRejectsUnsupportedExtension(t *testing.T) {
	repo := newMemoryLogoRepo()
	files := newMemFileStore()
	svc := newLogoService(repo, files)

	_, err := svc.Create(context.Background(), 1, LogoInput{Name: "Bad"}, upload("scan.bmp"))
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "file")
	require.Empty(t, files.files)
}

func TestCreateUploadFailureCleansRecord(t *testing.T) {
	repo := newMemoryLogoRepo()
	files := newMemFileStore()
	files.failStore = true
	svc := newLogoService(repo, files)

	_, err := svc.Create(context.Background(), 1, LogoInput{Name: "Main"}, upload("main.png"))
	require.ErrorIs(t, err, shared.ErrUpload)
	require.Empty(t, repo.logos)
}

func TestDeleteLastLogoConflict(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	files := newMemFileStore()
	svc := newLogoService(repo, files)

	only, err := svc.Create(ctx, 1, LogoInput{Name: "Only"}, upload("only.png"))
	require.NoError(t, err)

	err = svc.Delete(ctx, 1, only.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, repo.logos, only.ID)
	require.Contains(t, files.files, repo.logos[only.ID].FilePath)
}

func TestDeleteDefaultPromotesOldestRemaining(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	files := newMemFileStore()
	svc := newLogoService(repo, files)

	first, err := svc.Create(ctx, 1, LogoInput{Name: "First"}, upload("a.png"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, LogoInput{Name: "Second"}, upload("b.png"))
	require.NoError(t, err)
	third, err := svc.Create(ctx, 1, LogoInput{Name: "Third"}, upload("c.png"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, first.ID))

	require.NotContains(t, repo.logos, first.ID)
	require.True(t, repo.logos[second.ID].IsDefault)
	require.False(t, repo.logos[third.ID].IsDefault)
	require.NotContains(t, files.files, first.FilePath)
}

func TestDeleteOtherCompanyForbidden(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	theirs, err := svc.Create(ctx, 2, LogoInput{Name: "Theirs"}, upload("x.png"))
	require.NoError(t, err)

	err = svc.Delete(ctx, 1, theirs.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSetDefaultDemotesPrevious(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	first, err := svc.Create(ctx, 1, LogoInput{Name: "First"}, upload("a.png"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, LogoInput{Name: "Second"}, upload("b.png"))
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, 1, second.ID))
	require.False(t, repo.logos[first.ID].IsDefault)
	require.True(t, repo.logos[second.ID].IsDefault)
}

func TestServeResolvesContentType(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	files := newMemFileStore()
	svc := newLogoService(repo, files)

	logo, err := svc.Create(ctx, 1, LogoInput{Name: "Vector"}, upload("mark.svg"))
	require.NoError(t, err)

	served, err := svc.Serve(ctx, 1, logo.ID)
	require.NoError(t, err)
	require.Equal(t, "image/svg+xml", served.ContentType)
	require.Equal(t, "/storage/"+logo.FilePath, served.AbsPath)
}

func TestServeMissingFileNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	files := newMemFileStore()
	svc := newLogoService(repo, files)

	logo, err := svc.Create(ctx, 1, LogoInput{Name: "Gone"}, upload("gone.png"))
	require.NoError(t, err)
	delete(files.files, logo.FilePath)

	_, err = svc.Serve(ctx, 1, logo.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServeOtherCompanyForbidden(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	logo, err := svc.Create(ctx, 2, LogoInput{Name: "Theirs"}, upload("x.png"))
	require.NoError(t, err)

	_, err = svc.Serve(ctx, 1, logo.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestListForClientCacheBustedURLs(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryLogoRepo()
	svc := newLogoService(repo, newMemFileStore())

	logo, err := svc.Create(ctx, 1, LogoInput{Name: "Main"}, upload("main.png"))
	require.NoError(t, err)

	listing, err := svc.ListForClient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	require.Equal(t, logo.ID, listing[0].ID)
	require.Contains(t, listing[0].URL, "/branding/logos/")
	require.Contains(t, listing[0].URL, "?v=")
	require.True(t, listing[0].IsDefault)
}
