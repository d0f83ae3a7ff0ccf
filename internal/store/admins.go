package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/domain"
)

// UpsertAdmin creates the admin account or replaces its password hash.
func (db *DB) UpsertAdmin(ctx context.Context, admin *domain.Admin) error {
	_, err := db.NamedExecContext(ctx, `
		INSERT INTO admins (username, password_hash)
		VALUES (:username, :password_hash)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash
	`, admin)
	if err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}
	return nil
}

func (db *DB) GetAdmin(ctx context.Context, username string) (*domain.Admin, error) {
	var admin domain.Admin
	err := db.GetContext(ctx, &admin, `SELECT username, password_hash FROM admins WHERE username = ?`, username)
	if err != nil {
		return nil, notFound(err, "admin "+username)
	}
	return &admin, nil
}
