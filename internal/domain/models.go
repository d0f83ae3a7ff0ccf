package domain

import (
	"strings"
	"time"
)

// User is a listener account. Creators additionally own an Artist row.
type User struct {
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	ProfilePicture string    `json:"profile_picture" db:"profile_picture"`
	Creator        bool      `json:"creator" db:"creator"`
}

// Artist is keyed by the owning user's username.
type Artist struct {
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Username       string    `json:"username" db:"username"`
	ProfilePicture string    `json:"profile_picture" db:"profile_picture"`
}

type Album struct {
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Name         string    `json:"name" db:"name"`
	ArtistName   string    `json:"artist_name" db:"artist_name"`
	AlbumPicture string    `json:"album_picture" db:"album_picture"`
	ID           int64     `json:"id" db:"id"`
}

// Track is a single uploaded audio item.
type Track struct {
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Name       string    `json:"name" db:"name"`
	ArtistName string    `json:"artist_name" db:"artist_name"`
	Path       string    `json:"path" db:"path"`
	TrackImage string    `json:"track_image" db:"track_image"`
	ID         int64     `json:"id" db:"id"`
	AlbumID    int64     `json:"album_id" db:"album_id"`
}

// Normalize trims user supplied text fields.
func (t *Track) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.ArtistName = strings.TrimSpace(t.ArtistName)
}

// Rating is one user's score for one track. Any integer is accepted.
type Rating struct {
	Username string `json:"username" db:"username"`
	ID       int64  `json:"id" db:"id"`
	TrackID  int64  `json:"track_id" db:"track_id"`
	Value    int    `json:"rating" db:"rating"`
}

// PlayEvent records that a user played a track. Rows are never updated.
type PlayEvent struct {
	PlayedAt time.Time `json:"played_at" db:"played_at"`
	Username string    `json:"username" db:"username"`
	ID       int64     `json:"id" db:"id"`
	TrackID  int64     `json:"track_id" db:"track_id"`
}

type Playlist struct {
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	Name            string    `json:"name" db:"name"`
	Username        string    `json:"username" db:"username"`
	PlaylistPicture string    `json:"playlist_picture" db:"playlist_picture"`
	ID              int64     `json:"id" db:"id"`
}

// Admin is a dashboard account, separate from listener accounts.
type Admin struct {
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// RatedTrack is a track with its average rating computed on read.
type RatedTrack struct {
	Track
	Rating float64 `json:"rating"`
}

type RatedAlbum struct {
	Album
	Rating float64 `json:"rating"`
}

type RatedArtist struct {
	Artist
	Rating float64 `json:"rating"`
}
