package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/domain"
)

// Cascading deletes. Each one removes dependents before the row itself so
// foreign keys hold at every step; callers run them inside RunInTx.

// trackScope selects the ids of the tracks being removed.
type trackScope struct {
	where string
	arg   interface{}
}

func (db *DB) deleteTracks(ctx context.Context, scope trackScope) (int64, error) {
	sub := `SELECT id FROM tracks WHERE ` + scope.where
	for _, table := range []string{"ratings", "play_events", "playlist_tracks"} {
		if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE track_id IN (`+sub+`)`, scope.arg); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	res, err := db.ExecContext(ctx, `DELETE FROM tracks WHERE `+scope.where, scope.arg)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tracks: %w", err)
	}
	return res.RowsAffected()
}

// DeleteTrack removes a track with its ratings, play events and playlist links.
func (db *DB) DeleteTrack(ctx context.Context, id int64) error {
	n, err := db.deleteTracks(ctx, trackScope{"id = ?", id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("track %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteAlbum removes an album and all of its tracks.
func (db *DB) DeleteAlbum(ctx context.Context, id int64) error {
	if _, err := db.deleteTracks(ctx, trackScope{"album_id = ?", id}); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("album %d", id))
}

// DeleteArtist removes the artist, their albums and every track they own,
// and clears the owning user's creator flag.
func (db *DB) DeleteArtist(ctx context.Context, username string) error {
	if _, err := db.deleteTracks(ctx, trackScope{"artist_name = ?", username}); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM albums WHERE artist_name = ?`, username); err != nil {
		return fmt.Errorf("failed to delete albums: %w", err)
	}
	res, err := db.ExecContext(ctx, `DELETE FROM artists WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	if err := requireAffected(res, "artist "+username); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `UPDATE users SET creator = 0 WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to clear creator flag: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist and its track links.
func (db *DB) DeletePlaylist(ctx context.Context, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete playlist tracks: %w", err)
	}
	res, err := db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("playlist %d", id))
}

// DeleteUser removes a user together with their artist catalog, playlists,
// ratings and play history.
func (db *DB) DeleteUser(ctx context.Context, username string) error {
	if _, err := db.GetUser(ctx, username); err != nil {
		return err
	}

	if err := db.DeleteArtist(ctx, username); err != nil && !isNotFound(err) {
		return err
	}

	stmts := []struct {
		what  string
		query string
	}{
		{"playlist tracks", `DELETE FROM playlist_tracks WHERE playlist_id IN (SELECT id FROM playlists WHERE username = ?)`},
		{"playlists", `DELETE FROM playlists WHERE username = ?`},
		{"ratings", `DELETE FROM ratings WHERE username = ?`},
		{"play events", `DELETE FROM play_events WHERE username = ?`},
		{"user", `DELETE FROM users WHERE username = ?`},
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.query, username); err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.what, err)
		}
	}
	return nil
}
