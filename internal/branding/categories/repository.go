package categories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	brandingshared "github.com/vellum-suite/vellum/internal/branding/shared"
	"github.com/vellum-suite/vellum/internal/platform/db"
	"github.com/vellum-suite/vellum/internal/shared"
)

var sortColumns = map[string]string{
	"name":       "c.name",
	"sort_order": "c.sort_order",
	"created_at": "c.created_at",
	"item_count": "item_count",
}

// Repository defines persistence operations for service categories.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]CategoryUsage, int, error)
	Get(ctx context.Context, id int64) (*ServiceCategory, error)
	FindBySlug(ctx context.Context, companyID int64, slug string) (*ServiceCategory, error)
	Create(ctx context.Context, category ServiceCategory) (int64, error)
	Update(ctx context.Context, id int64, category ServiceCategory) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	CountItems(ctx context.Context, categoryID int64) (int, error)
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

// List uses dynamic query construction due to filter complexity. Sort
// columns go through an allow-list; anything else falls back to the stable
// sort_order ordering.
func (r *repository) List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]CategoryUsage, int, error) {
	where := ` WHERE c.company_id = $1`
	args := []interface{}{companyID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		where += ` AND (c.name ILIKE $` + strconv.Itoa(argCount) + ` OR c.description ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		where += ` AND c.is_active = $` + strconv.Itoa(argCount)
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM service_categories c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := `c.sort_order ASC, c.name ASC`
	if col, ok := sortColumns[filters.SortBy]; ok {
		dir := "ASC"
		if filters.SortDir == "desc" {
			dir = "DESC"
		}
		orderBy = col + " " + dir + `, c.name ASC`
	}

	query := `
		SELECT c.id, c.company_id, c.name, c.slug, c.description, c.color, c.icon,
		       c.sort_order, c.is_active, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM service_items si WHERE si.category_id = c.id) AS item_count
		FROM service_categories c` + where + ` ORDER BY ` + orderBy

	limit := filters.Limit
	if limit < 1 {
		limit = brandingshared.DefaultLimit
	}
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var categories []CategoryUsage
	for rows.Next() {
		var c CategoryUsage
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.Icon,
			&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.ItemCount); err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*ServiceCategory, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, name, slug, description, color, icon, sort_order, is_active, created_at, updated_at
		FROM service_categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *repository) FindBySlug(ctx context.Context, companyID int64, slug string) (*ServiceCategory, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, name, slug, description, color, icon, sort_order, is_active, created_at, updated_at
		FROM service_categories WHERE company_id = $1 AND slug = $2`, companyID, slug)
	return scanCategory(row)
}

func scanCategory(row pgx.Row) (*ServiceCategory, error) {
	var c ServiceCategory
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.Icon,
		&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, category ServiceCategory) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_categories (company_id, name, slug, description, color, icon, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id`,
		category.CompanyID, category.Name, category.Slug, category.Description, category.Color,
		category.Icon, category.SortOrder, category.IsActive, now).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, category ServiceCategory) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE service_categories
		SET name = $1, slug = $2, description = $3, color = $4, icon = $5, sort_order = $6, is_active = $7, updated_at = $8
		WHERE id = $9`,
		category.Name, category.Slug, category.Description, category.Color, category.Icon,
		category.SortOrder, category.IsActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM service_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE service_categories SET is_active = $1, updated_at = $2 WHERE id = $3`, active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CountItems(ctx context.Context, categoryID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM service_items WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}
