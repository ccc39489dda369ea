package brands

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

// Repository defines persistence operations for brands.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, companyID int64) ([]BrandUsage, error)
	Get(ctx context.Context, id int64) (*Brand, error)
	Create(ctx context.Context, brand Brand) (int64, error)
	Update(ctx context.Context, id int64, brand Brand) error
	Delete(ctx context.Context, id int64) error
	ClearDefault(ctx context.Context, companyID, exceptID int64) error
	MarkDefault(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	CountDocumentRefs(ctx context.Context, brandID int64) (quotations, invoices int, err error)
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

func (r *repository) List(ctx context.Context, companyID int64) ([]BrandUsage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.company_id, b.name, b.logo_path, b.primary_color, b.secondary_color,
		       b.is_default, b.is_active, b.created_at, b.updated_at,
		       (SELECT COUNT(*) FROM quotations q WHERE q.brand_id = b.id) AS quotation_count,
		       (SELECT COUNT(*) FROM invoices i WHERE i.brand_id = b.id) AS invoice_count
		FROM brands b
		WHERE b.company_id = $1
		ORDER BY b.is_default DESC, b.name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []BrandUsage
	for rows.Next() {
		var b BrandUsage
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Name, &b.LogoPath, &b.PrimaryColor, &b.SecondaryColor,
			&b.IsDefault, &b.IsActive, &b.CreatedAt, &b.UpdatedAt, &b.QuotationCount, &b.InvoiceCount); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Brand, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, name, logo_path, primary_color, secondary_color,
		       is_default, is_active, created_at, updated_at
		FROM brands WHERE id = $1`, id)

	var b Brand
	err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.LogoPath, &b.PrimaryColor, &b.SecondaryColor,
		&b.IsDefault, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) Create(ctx context.Context, brand Brand) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO brands (company_id, name, logo_path, primary_color, secondary_color, is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`,
		brand.CompanyID, brand.Name, brand.LogoPath, brand.PrimaryColor, brand.SecondaryColor,
		brand.IsDefault, brand.IsActive, now).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, brand Brand) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE brands
		SET name = $1, logo_path = $2, primary_color = $3, secondary_color = $4, is_active = $5, updated_at = $6
		WHERE id = $7`,
		brand.Name, brand.LogoPath, brand.PrimaryColor, brand.SecondaryColor, brand.IsActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, companyID, exceptID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE brands SET is_default = FALSE, updated_at = $1
		WHERE company_id = $2 AND id <> $3 AND is_default`, time.Now().UTC(), companyID, exceptID)
	return err
}

func (r *repository) MarkDefault(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE brands SET is_default = TRUE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE brands SET is_active = $1, updated_at = $2 WHERE id = $3`, active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CountDocumentRefs(ctx context.Context, brandID int64) (int, int, error) {
	var quotations, invoices int
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM quotations WHERE brand_id = $1),
		       (SELECT COUNT(*) FROM invoices WHERE brand_id = $1)`, brandID).Scan(&quotations, &invoices)
	if err != nil {
		return 0, 0, err
	}
	return quotations, invoices, nil
}
