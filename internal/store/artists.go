package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/domain"
)

const artistColumns = `username, profile_picture, created_at`

func (db *DB) CreateArtist(ctx context.Context, artist *domain.Artist) error {
	query := `INSERT INTO artists (` + artistColumns + `)
		VALUES (:username, :profile_picture, :created_at)`

	if _, err := db.NamedExecContext(ctx, query, artist); err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	return nil
}

func (db *DB) GetArtist(ctx context.Context, username string) (*domain.Artist, error) {
	var artist domain.Artist
	err := db.GetContext(ctx, &artist, `SELECT `+artistColumns+` FROM artists WHERE username = ?`, username)
	if err != nil {
		return nil, notFound(err, "artist "+username)
	}
	return &artist, nil
}

func (db *DB) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	var artists []domain.Artist
	err := db.SelectContext(ctx, &artists, `SELECT `+artistColumns+` FROM artists ORDER BY created_at ASC, username ASC`)
	return artists, err
}

func (db *DB) SearchArtists(ctx context.Context, term string) ([]domain.Artist, error) {
	var artists []domain.Artist
	err := db.SelectContext(ctx, &artists,
		`SELECT `+artistColumns+` FROM artists WHERE username LIKE ? ESCAPE '\' ORDER BY username ASC`,
		containsPattern(term))
	return artists, err
}

func (db *DB) UpdateArtistPicture(ctx context.Context, username, picture string) error {
	res, err := db.ExecContext(ctx, `UPDATE artists SET profile_picture = ? WHERE username = ?`, picture, username)
	if err != nil {
		return fmt.Errorf("failed to update artist picture: %w", err)
	}
	return requireAffected(res, "artist "+username)
}
