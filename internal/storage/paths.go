package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
)

var imageExts = map[string]bool{
	constants.ExtJPG:  true,
	constants.ExtJPEG: true,
	constants.ExtPNG:  true,
	constants.ExtGIF:  true,
	constants.ExtWEBP: true,
}

// ParseExtension normalizes an extension to lower case with a leading dot.
func ParseExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ImageExt picks the stored extension for an uploaded image. Unknown or
// missing extensions fall back to .png.
func ImageExt(filename string) string {
	ext := ParseExtension(filepath.Ext(filename))
	if imageExts[ext] {
		return ext
	}
	return constants.ExtPNG
}

// AudioExt accepts only the audio formats we can stream and tag.
func AudioExt(filename string) (string, error) {
	ext := ParseExtension(filepath.Ext(filename))
	switch ext {
	case constants.ExtMP3, constants.ExtFLAC:
		return ext, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedMedia, filepath.Ext(filename))
}

// Media paths are relative, slash separated, and derived from the owner and
// entity id so re-uploads overwrite the previous file.

func ProfilePicturePath(username, ext string) string {
	return path.Join(constants.ProfileDir, Sanitize(username)+ext)
}

func AlbumPicturePath(username string, albumID int64, ext string) string {
	return entityPath(constants.AlbumsDir, username, albumID, ext)
}

func PlaylistPicturePath(username string, playlistID int64, ext string) string {
	return entityPath(constants.PlaylistDir, username, playlistID, ext)
}

func AudioPath(username string, trackID int64, ext string) string {
	return entityPath(constants.AudioDir, username, trackID, ext)
}

func TrackImagePath(username string, trackID int64, ext string) string {
	return entityPath(constants.TracksDir, username, trackID, ext)
}

func entityPath(dir, username string, id int64, ext string) string {
	return path.Join(dir, Sanitize(username), fmt.Sprintf("%d%s", id, ext))
}
