package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/models"
)

func GetUserByID(ctx context.Context, database *sql.DB, id int64) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, username, password_hash, name, role, is_superuser, is_active
FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func GetUserByUsername(ctx context.Context, database *sql.DB, username string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, username, password_hash, name, role, is_superuser, is_active
FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Role, &u.IsSuperuser, &u.IsActive)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureAdmin создаёт (или обновляет пароль) учётку администратора из ENV.
// Вызывается один раз на старте; без ADMIN_USERNAME — no-op.
func EnsureAdmin(ctx context.Context, database *sql.DB, username, passwordHash string) error {
	if username == "" {
		return nil
	}
	_, err := database.ExecContext(ctx, `
INSERT INTO users (username, password_hash, name, role, is_superuser)
VALUES ($1, $2, 'Administrator', $3, TRUE)
ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, is_active = TRUE`,
		username, passwordHash, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}
