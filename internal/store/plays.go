package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/domain"
)

func (db *DB) RecordPlay(ctx context.Context, event *domain.PlayEvent) error {
	res, err := db.NamedExecContext(ctx,
		`INSERT INTO play_events (track_id, username, played_at) VALUES (:track_id, :username, :played_at)`, event)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read play id: %w", err)
	}
	event.ID = id
	return nil
}

func (db *DB) ListPlays(ctx context.Context) ([]domain.PlayEvent, error) {
	var events []domain.PlayEvent
	err := db.SelectContext(ctx, &events,
		`SELECT id, track_id, username, played_at FROM play_events ORDER BY played_at DESC, id DESC`)
	return events, err
}

// RecentlyPlayed returns up to limit distinct tracks the user played, most
// recent play first. Events whose track no longer exists are skipped.
func (db *DB) RecentlyPlayed(ctx context.Context, username string, limit int) ([]domain.Track, error) {
	query := `SELECT t.id, t.name, t.artist_name, t.album_id, t.path, t.track_image, t.created_at
		FROM play_events p
		JOIN tracks t ON t.id = p.track_id
		WHERE p.username = ?
		GROUP BY t.id
		ORDER BY MAX(p.played_at) DESC, MAX(p.id) DESC
		LIMIT ?`
	return selectTracks(ctx, db, query, username, limit)
}

// MostPlayed returns up to limit tracks ordered by the user's play count.
// Ties keep the order in which the tracks were first played.
func (db *DB) MostPlayed(ctx context.Context, username string, limit int) ([]domain.Track, error) {
	query := `SELECT t.id, t.name, t.artist_name, t.album_id, t.path, t.track_image, t.created_at
		FROM play_events p
		JOIN tracks t ON t.id = p.track_id
		WHERE p.username = ?
		GROUP BY t.id
		ORDER BY COUNT(*) DESC, MIN(p.id) ASC
		LIMIT ?`
	return selectTracks(ctx, db, query, username, limit)
}

func (db *DB) CountPlays(ctx context.Context, username string, trackID int64) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM play_events WHERE username = ? AND track_id = ?`, username, trackID)
	return n, err
}
