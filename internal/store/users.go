package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/domain"
)

const userColumns = `username, email, password_hash, creator, profile_picture, created_at`

func (db *DB) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES (:username, :email, :password_hash, :creator, :profile_picture, :created_at)`

	if _, err := db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *DB) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, notFound(err, "user "+username)
	}
	return &user, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, notFound(err, "user with email "+email)
	}
	return &user, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, username ASC`)
	return users, err
}

func (db *DB) SetCreator(ctx context.Context, username string, creator bool) error {
	res, err := db.ExecContext(ctx, `UPDATE users SET creator = ? WHERE username = ?`, creator, username)
	if err != nil {
		return fmt.Errorf("failed to update creator flag: %w", err)
	}
	return requireAffected(res, "user "+username)
}

func (db *DB) UpdateUserPicture(ctx context.Context, username, picture string) error {
	res, err := db.ExecContext(ctx, `UPDATE users SET profile_picture = ? WHERE username = ?`, picture, username)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	return requireAffected(res, "user "+username)
}
