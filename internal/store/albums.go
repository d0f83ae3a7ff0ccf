package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/domain"
)

const albumColumns = `id, name, artist_name, album_picture, created_at`

func (db *DB) CreateAlbum(ctx context.Context, album *domain.Album) error {
	query := `INSERT INTO albums (name, artist_name, album_picture, created_at)
		VALUES (:name, :artist_name, :album_picture, :created_at)`

	res, err := db.NamedExecContext(ctx, query, album)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read album id: %w", err)
	}
	album.ID = id
	return nil
}

func (db *DB) GetAlbum(ctx context.Context, id int64) (*domain.Album, error) {
	var album domain.Album
	err := db.GetContext(ctx, &album, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("album %d", id))
	}
	return &album, nil
}

func (db *DB) ListAlbums(ctx context.Context) ([]domain.Album, error) {
	var albums []domain.Album
	err := db.SelectContext(ctx, &albums, `SELECT `+albumColumns+` FROM albums ORDER BY id ASC`)
	return albums, err
}

func (db *DB) ListAlbumsByArtist(ctx context.Context, artist string) ([]domain.Album, error) {
	var albums []domain.Album
	err := db.SelectContext(ctx, &albums, `SELECT `+albumColumns+` FROM albums WHERE artist_name = ? ORDER BY id ASC`, artist)
	return albums, err
}

// RecentAlbums returns the newest albums by creation time.
func (db *DB) RecentAlbums(ctx context.Context, limit int) ([]domain.Album, error) {
	var albums []domain.Album
	err := db.SelectContext(ctx, &albums,
		`SELECT `+albumColumns+` FROM albums ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	return albums, err
}

func (db *DB) SearchAlbums(ctx context.Context, term string) ([]domain.Album, error) {
	var albums []domain.Album
	err := db.SelectContext(ctx, &albums,
		`SELECT `+albumColumns+` FROM albums WHERE name LIKE ? ESCAPE '\' ORDER BY id ASC`,
		containsPattern(term))
	return albums, err
}

func (db *DB) UpdateAlbum(ctx context.Context, album *domain.Album) error {
	res, err := db.NamedExecContext(ctx,
		`UPDATE albums SET name = :name, album_picture = :album_picture WHERE id = :id`, album)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("album %d", album.ID))
}
