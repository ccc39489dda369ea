package notetemplates

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

// Repository defines persistence operations for note templates.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]NoteTemplate, int, error)
	ListByType(ctx context.Context, companyID int64, typ TemplateType) ([]NoteTemplate, error)
	Get(ctx context.Context, id int64) (*NoteTemplate, error)
	Create(ctx context.Context, template NoteTemplate) (int64, error)
	Update(ctx context.Context, id int64, template NoteTemplate) error
	Delete(ctx context.Context, id int64) error
	ClearDefault(ctx context.Context, companyID int64, typ TemplateType, exceptID int64) error
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

// List uses dynamic query construction due to filter complexity.
func (r *repository) List(ctx context.Context, companyID int64, filters brandingshared.ListFilters) ([]NoteTemplate, int, error) {
	where := ` WHERE company_id = $1`
	args := []interface{}{companyID}
	argCount := 1

	if filters.Type != "" {
		argCount++
		where += ` AND type = $` + strconv.Itoa(argCount)
		args = append(args, filters.Type)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR content ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM note_templates`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, company_id, type, name, content, is_default, is_active, created_at, updated_at
		FROM note_templates` + where + ` ORDER BY type ASC, is_default DESC, name ASC`

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

	var templates []NoteTemplate
	for rows.Next() {
		var t NoteTemplate
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Type, &t.Name, &t.Content, &t.IsDefault, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		templates = append(templates, t)
	}
	return templates, total, rows.Err()
}

func (r *repository) ListByType(ctx context.Context, companyID int64, typ TemplateType) ([]NoteTemplate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, type, name, content, is_default, is_active, created_at, updated_at
		FROM note_templates
		WHERE company_id = $1 AND type = $2
		ORDER BY is_default DESC, name ASC`, companyID, typ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []NoteTemplate
	for rows.Next() {
		var t NoteTemplate
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Type, &t.Name, &t.Content, &t.IsDefault, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*NoteTemplate, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, company_id, type, name, content, is_default, is_active, created_at, updated_at
		FROM note_templates WHERE id = $1`, id)

	var t NoteTemplate
	err := row.Scan(&t.ID, &t.CompanyID, &t.Type, &t.Name, &t.Content, &t.IsDefault, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Create(ctx context.Context, template NoteTemplate) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO note_templates (company_id, type, name, content, is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id`,
		template.CompanyID, template.Type, template.Name, template.Content,
		template.IsDefault, template.IsActive, now).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, template NoteTemplate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE note_templates
		SET type = $1, name = $2, content = $3, is_default = $4, is_active = $5, updated_at = $6
		WHERE id = $7`,
		template.Type, template.Name, template.Content, template.IsDefault, template.IsActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM note_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, companyID int64, typ TemplateType, exceptID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE note_templates SET is_default = FALSE, updated_at = $1
		WHERE company_id = $2 AND type = $3 AND id <> $4 AND is_default`,
		time.Now().UTC(), companyID, typ, exceptID)
	return err
}

func (r *repository) MarkDefault(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE note_templates SET is_default = TRUE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
