package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/soundhall/internal/domain"
)

const trackColumns = `id, name, artist_name, album_id, path, track_image, created_at`

func (db *DB) CreateTrack(ctx context.Context, track *domain.Track) error {
	track.Normalize()

	query := `INSERT INTO tracks (name, artist_name, album_id, path, track_image, created_at)
		VALUES (:name, :artist_name, :album_id, :path, :track_image, :created_at)`

	res, err := db.NamedExecContext(ctx, query, track)
	if err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read track id: %w", err)
	}
	track.ID = id
	return nil
}

func (db *DB) GetTrack(ctx context.Context, id int64) (*domain.Track, error) {
	var track domain.Track
	err := db.GetContext(ctx, &track, `SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("track %d", id))
	}
	return &track, nil
}

func (db *DB) ListTracks(ctx context.Context) ([]domain.Track, error) {
	return selectTracks(ctx, db, `SELECT `+trackColumns+` FROM tracks ORDER BY id ASC`)
}

func (db *DB) ListTracksByAlbum(ctx context.Context, albumID int64) ([]domain.Track, error) {
	return selectTracks(ctx, db, `SELECT `+trackColumns+` FROM tracks WHERE album_id = ? ORDER BY id ASC`, albumID)
}

func (db *DB) ListTracksByArtist(ctx context.Context, artist string) ([]domain.Track, error) {
	return selectTracks(ctx, db, `SELECT `+trackColumns+` FROM tracks WHERE artist_name = ? ORDER BY id ASC`, artist)
}

func (db *DB) SearchTracks(ctx context.Context, term string) ([]domain.Track, error) {
	return selectTracks(ctx, db,
		`SELECT `+trackColumns+` FROM tracks WHERE name LIKE ? ESCAPE '\' ORDER BY id ASC`,
		containsPattern(term))
}

// UpdateTrack stores the name and media paths once the upload is on disk.
func (db *DB) UpdateTrack(ctx context.Context, track *domain.Track) error {
	track.Normalize()

	res, err := db.NamedExecContext(ctx,
		`UPDATE tracks SET name = :name, path = :path, track_image = :track_image WHERE id = :id`, track)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("track %d", track.ID))
}

// MoveTracksToAlbum reassigns the given tracks to albumID. Only tracks owned
// by artist are moved; other ids are ignored.
func (db *DB) MoveTracksToAlbum(ctx context.Context, artist string, albumID int64, trackIDs []int64) (int64, error) {
	var moved int64
	for _, batch := range chunkIDs(trackIDs, maxInParams) {
		query, args, err := sqlx.In(`UPDATE tracks SET album_id = ? WHERE artist_name = ? AND id IN (?)`, albumID, artist, batch)
		if err != nil {
			return 0, fmt.Errorf("failed to build move query: %w", err)
		}
		res, err := db.ExecContext(ctx, db.Rebind(query), args...)
		if err != nil {
			return 0, fmt.Errorf("failed to move tracks: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		moved += n
	}
	return moved, nil
}

// CountTracksWithImage reports how many tracks still show image.
func (db *DB) CountTracksWithImage(ctx context.Context, image string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tracks WHERE track_image = ?`, image); err != nil {
		return 0, fmt.Errorf("failed to count track images: %w", err)
	}
	return n, nil
}

// SetAlbumTrackImages copies the album picture onto every track of the album.
func (db *DB) SetAlbumTrackImages(ctx context.Context, albumID int64, image string) error {
	_, err := db.ExecContext(ctx, `UPDATE tracks SET track_image = ? WHERE album_id = ?`, image, albumID)
	if err != nil {
		return fmt.Errorf("failed to update track images: %w", err)
	}
	return nil
}

// selectTracks runs query and collects tracks. q may be a DB or a transaction.
func selectTracks(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]domain.Track, error) {
	var tracks []domain.Track
	if err := sqlx.SelectContext(ctx, q, &tracks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select tracks: %w", err)
	}
	return tracks, nil
}
