package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cesargomez89/soundhall/internal/domain"
)

var creationColumns = map[domain.Category]string{
	domain.CategoryUser:     `SELECT created_at FROM users`,
	domain.CategoryArtist:   `SELECT created_at FROM artists`,
	domain.CategoryAlbum:    `SELECT created_at FROM albums`,
	domain.CategoryTrack:    `SELECT created_at FROM tracks`,
	domain.CategoryPlaylist: `SELECT created_at FROM playlists`,
}

// CreationTimes returns the creation timestamp of every row in the category.
func (db *DB) CreationTimes(ctx context.Context, category domain.Category) ([]time.Time, error) {
	query, ok := creationColumns[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	var times []time.Time
	if err := db.SelectContext(ctx, &times, query); err != nil {
		return nil, fmt.Errorf("failed to select %s creation times: %w", category, err)
	}
	return times, nil
}
