package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/soundhall/internal/domain"
)

// SetRating overwrites the user's existing rating for the track, or inserts
// one. It reports whether a new row was created. Two concurrent first-time
// submissions can both insert; no constraint prevents that.
func (db *DB) SetRating(ctx context.Context, trackID int64, username string, value int) (bool, error) {
	var existing int64
	err := db.GetContext(ctx, &existing,
		`SELECT id FROM ratings WHERE track_id = ? AND username = ? ORDER BY id ASC LIMIT 1`,
		trackID, username)
	switch {
	case err == nil:
		if _, err := db.ExecContext(ctx, `UPDATE ratings SET rating = ? WHERE id = ?`, value, existing); err != nil {
			return false, fmt.Errorf("failed to update rating: %w", err)
		}
		return false, nil
	case errors.Is(err, sql.ErrNoRows):
		_, err := db.ExecContext(ctx,
			`INSERT INTO ratings (track_id, username, rating) VALUES (?, ?, ?)`,
			trackID, username, value)
		if err != nil {
			return false, fmt.Errorf("failed to insert rating: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to find rating: %w", err)
	}
}

func (db *DB) GetRating(ctx context.Context, trackID int64, username string) (*domain.Rating, error) {
	var rating domain.Rating
	err := db.GetContext(ctx, &rating,
		`SELECT id, track_id, username, rating FROM ratings WHERE track_id = ? AND username = ? ORDER BY id ASC LIMIT 1`,
		trackID, username)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("rating for track %d by %s", trackID, username))
	}
	return &rating, nil
}

// RatingValues returns every stored rating value for the track.
func (db *DB) RatingValues(ctx context.Context, trackID int64) ([]int, error) {
	var values []int
	err := db.SelectContext(ctx, &values, `SELECT rating FROM ratings WHERE track_id = ? ORDER BY id ASC`, trackID)
	return values, err
}

// RatingsForTracks groups rating values by track id, one query per batch of
// ids. Tracks without ratings are absent from the map.
func (db *DB) RatingsForTracks(ctx context.Context, trackIDs []int64) (map[int64][]int, error) {
	out := make(map[int64][]int, len(trackIDs))
	for _, batch := range chunkIDs(trackIDs, maxInParams) {
		query, args, err := sqlx.In(`SELECT track_id, rating FROM ratings WHERE track_id IN (?) ORDER BY id ASC`, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to build ratings query: %w", err)
		}

		var rows []struct {
			TrackID int64 `db:"track_id"`
			Rating  int   `db:"rating"`
		}
		if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to select ratings: %w", err)
		}
		for _, r := range rows {
			out[r.TrackID] = append(out[r.TrackID], r.Rating)
		}
	}
	return out, nil
}

func (db *DB) CountRatings(ctx context.Context, trackID int64, username string) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM ratings WHERE track_id = ? AND username = ?`, trackID, username)
	return n, err
}
