package domain

import (
	"fmt"
	"strings"
)

// Category names one of the catalog entity kinds. The set is closed:
// values only come from the constants below or ParseCategory.
type Category string

const (
	CategoryUser     Category = "User"
	CategoryArtist   Category = "Artist"
	CategoryAlbum    Category = "Album"
	CategoryTrack    Category = "Track"
	CategoryPlaylist Category = "Playlist"
)

// Categories lists every category in dashboard order.
var Categories = []Category{
	CategoryUser,
	CategoryArtist,
	CategoryAlbum,
	CategoryTrack,
	CategoryPlaylist,
}

// ParseCategory resolves a category name case-insensitively.
// "Song" is accepted as an alias of Track.
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "user":
		return CategoryUser, nil
	case "artist":
		return CategoryArtist, nil
	case "album":
		return CategoryAlbum, nil
	case "track", "song":
		return CategoryTrack, nil
	case "playlist":
		return CategoryPlaylist, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// KeyedByUsername reports whether rows of this category are identified by a
// username rather than an integer id.
func (c Category) KeyedByUsername() bool {
	return c == CategoryUser || c == CategoryArtist
}

func (c Category) String() string {
	return string(c)
}
