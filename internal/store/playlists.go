package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/soundhall/internal/domain"
)

const playlistColumns = `id, name, username, playlist_picture, created_at`

func (db *DB) CreatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	query := `INSERT INTO playlists (name, username, playlist_picture, created_at)
		VALUES (:name, :username, :playlist_picture, :created_at)`

	res, err := db.NamedExecContext(ctx, query, playlist)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read playlist id: %w", err)
	}
	playlist.ID = id
	return nil
}

func (db *DB) GetPlaylist(ctx context.Context, id int64) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := db.GetContext(ctx, &playlist, `SELECT `+playlistColumns+` FROM playlists WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("playlist %d", id))
	}
	return &playlist, nil
}

func (db *DB) ListPlaylists(ctx context.Context) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	err := db.SelectContext(ctx, &playlists, `SELECT `+playlistColumns+` FROM playlists ORDER BY id ASC`)
	return playlists, err
}

func (db *DB) ListPlaylistsByUser(ctx context.Context, username string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	err := db.SelectContext(ctx, &playlists,
		`SELECT `+playlistColumns+` FROM playlists WHERE username = ? ORDER BY id ASC`, username)
	return playlists, err
}

func (db *DB) SearchPlaylists(ctx context.Context, term string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	err := db.SelectContext(ctx, &playlists,
		`SELECT `+playlistColumns+` FROM playlists WHERE name LIKE ? ESCAPE '\' ORDER BY id ASC`,
		containsPattern(term))
	return playlists, err
}

func (db *DB) UpdatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	res, err := db.NamedExecContext(ctx,
		`UPDATE playlists SET name = :name, playlist_picture = :playlist_picture WHERE id = :id`, playlist)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("playlist %d", playlist.ID))
}

// SetPlaylistTracks replaces the playlist's track set. Unknown track ids are
// dropped, duplicates collapse.
func (db *DB) SetPlaylistTracks(ctx context.Context, playlistID int64, trackIDs []int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("failed to clear playlist tracks: %w", err)
	}
	for _, batch := range chunkIDs(trackIDs, maxInParams) {
		query, args, err := sqlx.In(
			`INSERT OR IGNORE INTO playlist_tracks (playlist_id, track_id) SELECT ?, id FROM tracks WHERE id IN (?)`,
			playlistID, batch)
		if err != nil {
			return fmt.Errorf("failed to build playlist insert: %w", err)
		}
		if _, err := db.ExecContext(ctx, db.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to insert playlist tracks: %w", err)
		}
	}
	return nil
}

func (db *DB) PlaylistTracks(ctx context.Context, playlistID int64) ([]domain.Track, error) {
	query := `SELECT t.id, t.name, t.artist_name, t.album_id, t.path, t.track_image, t.created_at
		FROM playlist_tracks pt
		JOIN tracks t ON t.id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY t.id ASC`
	return selectTracks(ctx, db, query, playlistID)
}
