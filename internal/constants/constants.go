// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort              = "8080"
	DefaultDBPath            = "soundhall.db"
	DefaultMediaDir          = "static"
	DefaultSessionMaxAge     = 24 * time.Hour
	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = time.Minute
	DefaultMaxUploadMB       = 64
	DefaultAdminUsername     = "admin"
	DefaultShutdownTimeout   = 5 * time.Second
)

// Session
const (
	SessionCookieName = "soundhall_session"
	SessionKeyUser    = "username"
	SessionKeyAdmin   = "admin"
)

// Feeds
const (
	FeedSize      = 6
	RatingDecimal = 2
)

// Age buckets used by the admin time statistic, measured back from now.
const (
	AgeBucketHalfDay    = 12 * time.Hour
	AgeBucketDay        = 24 * time.Hour
	AgeBucketWeek       = 7 * 24 * time.Hour
	AgeBucketThreeWeeks = 21 * 24 * time.Hour
	AgeBucketCount      = 5
)

// Media sub-directories, relative to the media root
const (
	ProfileDir  = "profile"
	AlbumsDir   = "albums"
	PlaylistDir = "playlists"
	AudioDir    = "audio"
	TracksDir   = "tracks"
)

// Default pictures, relative to the media root
const (
	DefaultProfilePicture  = "artist.png"
	DefaultAlbumPicture    = "album_icon.png"
	DefaultTrackPicture    = "music_icon.png"
	DefaultPlaylistPicture = "playlist_icon.png"
)

// MIME Types
const (
	MimeTypeFLAC = "audio/flac"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
)

// File Extensions
const (
	ExtFLAC = ".flac"
	ExtMP3  = ".mp3"
	ExtJPG  = ".jpg"
	ExtJPEG = ".jpeg"
	ExtPNG  = ".png"
	ExtGIF  = ".gif"
	ExtWEBP = ".webp"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Flash messages shown on the registration and login forms
const (
	FlashDanger           = "danger"
	MsgInvalidUsername    = "User name contains characters that are not allowed !"
	MsgUsernameTaken      = "User name already exists !"
	MsgEmailTaken         = "Email already exists !"
	MsgInvalidEmail       = "Enter a valid email id !"
	MsgPasswordMismatch   = "Passwords do not match !"
	MsgLoginUnsuccessful  = "Login unsuccessful. Please check your username and password."
	MsgSongClickLogged    = "Song Click Logged!"
	MsgRatingSaved        = "success"
	MsgDeleted            = "Deleted"
	FormSongFieldPrefix   = "song"
	MaxMultipartMemoryMiB = 32
)
