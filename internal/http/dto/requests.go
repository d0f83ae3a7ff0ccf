package dto

// Form keys follow the HTML forms of the web client. Slice fields collect
// every form key starting with the tag value, e.g. song1, song2.

type RegisterRequest struct {
	Username        string `form:"username" validate:"required,max=64,pathsafe"`
	Email           string `form:"email" validate:"max=254"`
	Password        string `form:"password" validate:"max=72"`
	ConfirmPassword string `form:"conf_password" validate:"max=72"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required,max=64"`
	Password string `form:"password" validate:"required,max=72"`
}

type SearchRequest struct {
	Term string `form:"q" validate:"max=200"`
}

type CreateAlbumRequest struct {
	Name string `form:"album_name" validate:"required,max=200"`
}

type EditAlbumRequest struct {
	Name     string  `form:"album_name" validate:"max=200"`
	TrackIDs []int64 `form:"song" validate:"dive,gt=0"`
}

type CreateTrackRequest struct {
	Name    string `form:"song_title" validate:"max=200"`
	AlbumID int64  `form:"album_title" validate:"required,gt=0"`
}

type CreatePlaylistRequest struct {
	Name     string  `form:"playlist_name" validate:"required,max=200"`
	TrackIDs []int64 `form:"song" validate:"dive,gt=0"`
}

type EditPlaylistRequest struct {
	Name     string  `form:"playlist_name" validate:"max=200"`
	TrackIDs []int64 `form:"song" validate:"dive,gt=0"`
}
