package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service resolves effective permissions for users.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// EffectivePermissions returns the permission names granted to a user
// through role membership.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, name)
	}
	return perms, rows.Err()
}

// EnsurePermissions registers permission names so role grants can
// reference them. Rows that already exist are left untouched.
func (s *Service) EnsurePermissions(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO permissions (name, description)
			VALUES ($1, '')
			ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
	}
	return nil
}
