package logobank

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vellum-suite/vellum/internal/platform/db"
	"github.com/vellum-suite/vellum/internal/shared"
)

// Repository defines persistence operations for logo bank entries.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, companyID int64) ([]Logo, error)
	Get(ctx context.Context, id int64) (*Logo, error)
	Create(ctx context.Context, logo Logo) (int64, error)
	Update(ctx context.Context, id int64, logo Logo) error
	Delete(ctx context.Context, id int64) error
	CountForCompany(ctx context.Context, companyID int64) (int, error)
	FirstOther(ctx context.Context, companyID, exceptID int64) (*Logo, error)
	ClearDefault(ctx context.Context, companyID, exceptID int64) error
	MarkDefault(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Logo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, name, file_path, notes, is_default, created_at, updated_at
		FROM company_logos
		WHERE company_id = $1
		ORDER BY created_at DESC, id DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logos []Logo
	for rows.Next() {
		var l Logo
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.FilePath, &l.Notes,
			&l.IsDefault, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		logos = append(logos, l)
	}
	return logos, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Logo, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, name, file_path, notes, is_default, created_at, updated_at
		FROM company_logos WHERE id = $1`, id)

	var l Logo
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.FilePath, &l.Notes,
		&l.IsDefault, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Create(ctx context.Context, logo Logo) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO company_logos (company_id, name, file_path, notes, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`,
		logo.CompanyID, logo.Name, logo.FilePath, logo.Notes, logo.IsDefault, now).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, logo Logo) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE company_logos SET name = $1, notes = $2, updated_at = $3 WHERE id = $4`,
		logo.Name, logo.Notes, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM company_logos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CountForCompany(ctx context.Context, companyID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM company_logos WHERE company_id = $1`, companyID).Scan(&count)
	return count, err
}

// FirstOther returns the oldest surviving logo of the company excluding the
// given id, used to promote a replacement default.
func (r *repository) FirstOther(ctx context.Context, companyID, exceptID int64) (*Logo, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, name, file_path, notes, is_default, created_at, updated_at
		FROM company_logos
		WHERE company_id = $1 AND id <> $2
		ORDER BY id ASC
		LIMIT 1`, companyID, exceptID)

	var l Logo
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.FilePath, &l.Notes,
		&l.IsDefault, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) ClearDefault(ctx context.Context, companyID, exceptID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE company_logos SET is_default = FALSE, updated_at = $1
		WHERE company_id = $2 AND id <> $3 AND is_default`, time.Now().UTC(), companyID, exceptID)
	return err
}

func (r *repository) MarkDefault(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE company_logos SET is_default = TRUE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
