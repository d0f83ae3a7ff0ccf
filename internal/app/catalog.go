package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/metrics"
	"github.com/cesargomez89/soundhall/internal/storage"
	"github.com/cesargomez89/soundhall/internal/store"
	"github.com/cesargomez89/soundhall/internal/tagging"
)

// Upload is a file received from a client. A nil *Upload means no file.
type Upload struct {
	Body     io.Reader
	Filename string
}

type AlbumInput struct {
	Picture  *Upload
	Name     string
	TrackIDs []int64
}

type TrackInput struct {
	Audio   *Upload
	Name    string
	AlbumID int64
}

type PlaylistInput struct {
	Picture  *Upload
	Name     string
	TrackIDs []int64
}

type ProfileView struct {
	User      domain.User         `json:"user"`
	Tracks    []domain.RatedTrack `json:"tracks,omitempty"`
	Albums    []domain.RatedAlbum `json:"albums,omitempty"`
	Playlists []domain.Playlist   `json:"playlists"`
	Rating    float64             `json:"rating"`
}

type AlbumView struct {
	Album  domain.RatedAlbum   `json:"album"`
	Tracks []domain.RatedTrack `json:"tracks"`
}

type PlaylistView struct {
	Playlist domain.Playlist     `json:"playlist"`
	Tracks   []domain.RatedTrack `json:"tracks"`
}

// CatalogService owns creator uploads and every change to the catalog.
type CatalogService struct {
	Repo    *store.DB
	Media   *storage.MediaStore
	Ratings *Aggregator
	Logger  *logger.Logger
	Now     func() time.Time
}

func NewCatalogService(repo *store.DB, media *storage.MediaStore, ratings *Aggregator, log *logger.Logger) *CatalogService {
	return &CatalogService{
		Repo:    repo,
		Media:   media,
		Ratings: ratings,
		Logger:  log.WithComponent("catalog"),
		Now:     time.Now,
	}
}

func (s *CatalogService) now() time.Time {
	return s.Now().UTC()
}

func (s *CatalogService) requireCreator(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.Repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.Creator {
		return nil, domain.ErrNotCreator
	}
	return user, nil
}

func (s *CatalogService) saveMedia(rel string, body io.Reader, kind string) error {
	n, err := s.Media.Save(rel, body)
	if err != nil {
		return err
	}
	metrics.RecordUpload(kind, n)
	return nil
}

// uploadBatch remembers the files a transaction wrote that were not there
// before, so they can be taken out again if it rolls back.
type uploadBatch struct {
	s     *CatalogService
	added []string
}

func (s *CatalogService) newUploadBatch() *uploadBatch {
	return &uploadBatch{s: s}
}

func (b *uploadBatch) save(rel string, body io.Reader, kind string) error {
	existed := b.s.Media.Exists(rel)
	if err := b.s.saveMedia(rel, body, kind); err != nil {
		return err
	}
	if !existed {
		b.added = append(b.added, rel)
	}
	return nil
}

// discard removes the batch's new files after a failed transaction.
func (b *uploadBatch) discard() {
	b.s.removeMedia(b.added)
}

// removeMedia deletes files after their rows are gone. Failures only log.
func (s *CatalogService) removeMedia(paths []string) {
	for _, p := range paths {
		if err := s.Media.Remove(p); err != nil {
			s.Logger.Warn("Failed to remove media", "path", p, "error", err)
		}
	}
}

// mediaUnder reports whether rel is an uploaded file in dir, as opposed to a
// shared default picture or another entity's file.
func mediaUnder(dir, rel string) bool {
	return strings.HasPrefix(rel, dir+"/")
}

// trackImageFor is the image a new track inherits from its album.
func trackImageFor(album *domain.Album) string {
	if album.AlbumPicture == "" || album.AlbumPicture == constants.DefaultAlbumPicture {
		return constants.DefaultTrackPicture
	}
	return album.AlbumPicture
}

// Profile shows a user's playlists, plus their rated catalog when they are
// a creator.
func (s *CatalogService) Profile(ctx context.Context, username string) (*ProfileView, error) {
	user, err := s.Repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	playlists, err := s.Repo.ListPlaylistsByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	view := &ProfileView{User: *user, Playlists: playlists}
	if !user.Creator {
		return view, nil
	}

	tracks, err := s.Repo.ListTracksByArtist(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	if view.Tracks, err = s.Ratings.RateTracks(ctx, tracks); err != nil {
		return nil, err
	}

	albums, err := s.Repo.ListAlbumsByArtist(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	if view.Albums, err = s.Ratings.RateAlbums(ctx, albums); err != nil {
		return nil, err
	}

	if view.Rating, err = s.Ratings.ArtistRating(ctx, username); err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateProfilePicture stores a new profile picture for the user and, for
// creators, mirrors it onto the artist.
func (s *CatalogService) UpdateProfilePicture(ctx context.Context, username string, picture *Upload) (string, error) {
	if picture == nil {
		return "", fmt.Errorf("%w: no picture", domain.ErrUnsupportedMedia)
	}

	rel := storage.ProfilePicturePath(username, storage.ImageExt(picture.Filename))
	var previous string
	uploads := s.newUploadBatch()
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		user, err := tx.GetUser(ctx, username)
		if err != nil {
			return err
		}
		previous = user.ProfilePicture

		if err := uploads.save(rel, picture.Body, "profile_picture"); err != nil {
			return err
		}
		if err := tx.UpdateUserPicture(ctx, username, rel); err != nil {
			return err
		}
		if user.Creator {
			return tx.UpdateArtistPicture(ctx, username, rel)
		}
		return nil
	})
	if err != nil {
		uploads.discard()
		return "", err
	}

	if previous != rel && mediaUnder(constants.ProfileDir, previous) {
		s.removeMedia([]string{previous})
	}
	s.Logger.Info("Profile picture updated", "username", username, "path", rel)
	return rel, nil
}

func (s *CatalogService) AlbumView(ctx context.Context, id int64) (*AlbumView, error) {
	album, err := s.Repo.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	tracks, err := s.Repo.ListTracksByAlbum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list album tracks: %w", err)
	}
	rated, err := s.Ratings.RateTracks(ctx, tracks)
	if err != nil {
		return nil, err
	}
	rating, err := s.Ratings.AlbumRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AlbumView{Album: domain.RatedAlbum{Album: *album, Rating: rating}, Tracks: rated}, nil
}

func (s *CatalogService) PlaylistView(ctx context.Context, id int64) (*PlaylistView, error) {
	playlist, err := s.Repo.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	tracks, err := s.Repo.PlaylistTracks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist tracks: %w", err)
	}
	rated, err := s.Ratings.RateTracks(ctx, tracks)
	if err != nil {
		return nil, err
	}
	return &PlaylistView{Playlist: *playlist, Tracks: rated}, nil
}

// CreateAlbum adds an album for a creator. Without a picture the album uses
// the default icon.
func (s *CatalogService) CreateAlbum(ctx context.Context, owner string, in AlbumInput) (*domain.Album, error) {
	if _, err := s.requireCreator(ctx, owner); err != nil {
		return nil, err
	}

	album := &domain.Album{
		Name:         strings.TrimSpace(in.Name),
		ArtistName:   owner,
		AlbumPicture: constants.DefaultAlbumPicture,
		CreatedAt:    s.now(),
	}
	uploads := s.newUploadBatch()
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.CreateAlbum(ctx, album); err != nil {
			return err
		}
		if in.Picture == nil {
			return nil
		}
		rel := storage.AlbumPicturePath(owner, album.ID, storage.ImageExt(in.Picture.Filename))
		if err := uploads.save(rel, in.Picture.Body, "album_picture"); err != nil {
			return err
		}
		album.AlbumPicture = rel
		return tx.UpdateAlbum(ctx, album)
	})
	if err != nil {
		uploads.discard()
		return nil, err
	}

	s.Logger.Info("Album created", "username", owner, "album_id", album.ID, "name", album.Name)
	return album, nil
}

// EditAlbum renames the album, replaces its picture and pulls the listed
// tracks of the same artist into it. A new picture is copied onto every
// track of the album, and the old picture file goes once no track shows it.
func (s *CatalogService) EditAlbum(ctx context.Context, owner string, albumID int64, in AlbumInput) (*domain.Album, error) {
	var album *domain.Album
	var stale []string
	uploads := s.newUploadBatch()
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		a, err := tx.GetAlbum(ctx, albumID)
		if err != nil {
			return err
		}
		if a.ArtistName != owner {
			return domain.ErrForbidden
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			a.Name = name
		}

		previous := a.AlbumPicture
		pictureChanged := false
		if in.Picture != nil {
			rel := storage.AlbumPicturePath(owner, a.ID, storage.ImageExt(in.Picture.Filename))
			if err := uploads.save(rel, in.Picture.Body, "album_picture"); err != nil {
				return err
			}
			a.AlbumPicture = rel
			pictureChanged = true
		}

		if err := tx.UpdateAlbum(ctx, a); err != nil {
			return err
		}

		moved, err := tx.MoveTracksToAlbum(ctx, owner, a.ID, in.TrackIDs)
		if err != nil {
			return err
		}

		if pictureChanged || (moved > 0 && a.AlbumPicture != constants.DefaultAlbumPicture) {
			if err := tx.SetAlbumTrackImages(ctx, a.ID, a.AlbumPicture); err != nil {
				return err
			}
		}

		if previous != a.AlbumPicture && mediaUnder(constants.AlbumsDir, previous) {
			// tracks moved to another album may still show the old picture
			inUse, err := tx.CountTracksWithImage(ctx, previous)
			if err != nil {
				return err
			}
			if inUse == 0 {
				stale = append(stale, previous)
			}
		}
		album = a
		return nil
	})
	if err != nil {
		uploads.discard()
		return nil, err
	}

	s.removeMedia(stale)

	s.Logger.Info("Album updated", "username", owner, "album_id", album.ID)
	return album, nil
}

// DeleteAlbum deletes one of the owner's albums with its tracks.
func (s *CatalogService) DeleteAlbum(ctx context.Context, owner string, albumID int64) error {
	album, err := s.Repo.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if album.ArtistName != owner {
		return domain.ErrForbidden
	}
	return s.Delete(ctx, domain.CategoryAlbum, strconv.FormatInt(albumID, 10))
}

// CreateTrack stores an uploaded audio file as a new track in one of the
// owner's albums. A missing title falls back to the file's tag title, and
// an embedded cover is used when the album has no picture of its own.
func (s *CatalogService) CreateTrack(ctx context.Context, owner string, in TrackInput) (*domain.Track, error) {
	if in.Audio == nil {
		return nil, fmt.Errorf("%w: no audio file", domain.ErrUnsupportedMedia)
	}
	ext, err := storage.AudioExt(in.Audio.Filename)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireCreator(ctx, owner); err != nil {
		return nil, err
	}
	album, err := s.Repo.GetAlbum(ctx, in.AlbumID)
	if err != nil {
		return nil, err
	}
	if album.ArtistName != owner {
		return nil, domain.ErrForbidden
	}

	title := strings.TrimSpace(in.Name)
	track := &domain.Track{
		Name:       title,
		ArtistName: owner,
		AlbumID:    album.ID,
		TrackImage: trackImageFor(album),
		CreatedAt:  s.now(),
	}
	if track.Name == "" {
		track.Name = strings.TrimSuffix(filepath.Base(in.Audio.Filename), filepath.Ext(in.Audio.Filename))
	}

	uploads := s.newUploadBatch()
	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.CreateTrack(ctx, track); err != nil {
			return err
		}

		track.Path = storage.AudioPath(owner, track.ID, ext)
		if err := uploads.save(track.Path, in.Audio.Body, "audio"); err != nil {
			return err
		}

		md := s.readTags(track)
		if title == "" && md != nil && md.Title != "" {
			track.Name = md.Title
		}
		if track.TrackImage == constants.DefaultTrackPicture && md.HasPicture() {
			rel := storage.TrackImagePath(owner, track.ID, md.PictureExt())
			if err := uploads.save(rel, bytes.NewReader(md.Picture), "track_image"); err != nil {
				return err
			}
			track.TrackImage = rel
		}

		return tx.UpdateTrack(ctx, track)
	})
	if err != nil {
		uploads.discard()
		return nil, err
	}

	s.Logger.WithTrack(track.ID, track.Name).Info("Track created", "username", owner, "album_id", album.ID)
	return track, nil
}

// readTags returns nil when the file has no readable tags.
func (s *CatalogService) readTags(track *domain.Track) *tagging.Metadata {
	md, err := tagging.ReadTags(s.Media.Abs(track.Path))
	if err != nil {
		s.Logger.WithTrack(track.ID, track.Name).Warn("Could not read tags", "error", err)
		return nil
	}
	return md
}

// CreatePlaylist creates a playlist owned by owner. Any user can own any
// number of playlists.
func (s *CatalogService) CreatePlaylist(ctx context.Context, owner string, in PlaylistInput) (*domain.Playlist, error) {
	if _, err := s.Repo.GetUser(ctx, owner); err != nil {
		return nil, err
	}

	playlist := &domain.Playlist{
		Name:            strings.TrimSpace(in.Name),
		Username:        owner,
		PlaylistPicture: constants.DefaultPlaylistPicture,
		CreatedAt:       s.now(),
	}
	uploads := s.newUploadBatch()
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.CreatePlaylist(ctx, playlist); err != nil {
			return err
		}
		if err := tx.SetPlaylistTracks(ctx, playlist.ID, in.TrackIDs); err != nil {
			return err
		}
		if in.Picture == nil {
			return nil
		}
		rel := storage.PlaylistPicturePath(owner, playlist.ID, storage.ImageExt(in.Picture.Filename))
		if err := uploads.save(rel, in.Picture.Body, "playlist_picture"); err != nil {
			return err
		}
		playlist.PlaylistPicture = rel
		return tx.UpdatePlaylist(ctx, playlist)
	})
	if err != nil {
		uploads.discard()
		return nil, err
	}

	s.Logger.Info("Playlist created", "username", owner, "playlist_id", playlist.ID, "tracks", len(in.TrackIDs))
	return playlist, nil
}

// EditPlaylist replaces the playlist's track set and optionally its name and
// picture.
func (s *CatalogService) EditPlaylist(ctx context.Context, owner string, playlistID int64, in PlaylistInput) (*domain.Playlist, error) {
	var playlist *domain.Playlist
	var previous string
	uploads := s.newUploadBatch()
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		p, err := tx.GetPlaylist(ctx, playlistID)
		if err != nil {
			return err
		}
		if p.Username != owner {
			return domain.ErrForbidden
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			p.Name = name
		}
		previous = p.PlaylistPicture
		if in.Picture != nil {
			rel := storage.PlaylistPicturePath(owner, p.ID, storage.ImageExt(in.Picture.Filename))
			if err := uploads.save(rel, in.Picture.Body, "playlist_picture"); err != nil {
				return err
			}
			p.PlaylistPicture = rel
		}
		if err := tx.UpdatePlaylist(ctx, p); err != nil {
			return err
		}
		if err := tx.SetPlaylistTracks(ctx, p.ID, in.TrackIDs); err != nil {
			return err
		}
		playlist = p
		return nil
	})
	if err != nil {
		uploads.discard()
		return nil, err
	}

	if previous != playlist.PlaylistPicture && mediaUnder(constants.PlaylistDir, previous) {
		s.removeMedia([]string{previous})
	}

	s.Logger.Info("Playlist updated", "username", owner, "playlist_id", playlist.ID)
	return playlist, nil
}

func (s *CatalogService) DeletePlaylist(ctx context.Context, owner string, playlistID int64) error {
	playlist, err := s.Repo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.Username != owner {
		return domain.ErrForbidden
	}
	return s.Delete(ctx, domain.CategoryPlaylist, strconv.FormatInt(playlistID, 10))
}

// Delete removes an entity with its dependents in one transaction:
//
//	Track    -> ratings, play events, playlist links
//	Album    -> its tracks
//	Artist   -> albums and tracks; the user stops being a creator
//	User     -> artist catalog, playlists, own ratings and plays
//	Playlist -> track links
//
// Users and artists are identified by username, everything else by id.
// Uploaded files of the removed rows are deleted after commit.
func (s *CatalogService) Delete(ctx context.Context, category domain.Category, id string) error {
	var media []string
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		var err error
		switch category {
		case domain.CategoryTrack:
			media, err = deleteTrack(ctx, tx, id)
		case domain.CategoryAlbum:
			media, err = deleteAlbum(ctx, tx, id)
		case domain.CategoryArtist:
			media, err = deleteArtist(ctx, tx, id)
		case domain.CategoryUser:
			media, err = deleteUser(ctx, tx, id)
		case domain.CategoryPlaylist:
			media, err = deletePlaylist(ctx, tx, id)
		default:
			err = fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
		}
		return err
	})
	if err != nil {
		return err
	}

	s.removeMedia(media)
	metrics.RecordDeletion(category.String())
	s.Logger.Info("Entity deleted", "category", category, "id", id, "files", len(media))
	return nil
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

func tracksMedia(tracks []domain.Track) []string {
	var out []string
	for _, t := range tracks {
		if t.Path != "" {
			out = append(out, t.Path)
		}
		if mediaUnder(constants.TracksDir, t.TrackImage) {
			out = append(out, t.TrackImage)
		}
	}
	return out
}

func albumsMedia(albums []domain.Album) []string {
	var out []string
	for _, a := range albums {
		if mediaUnder(constants.AlbumsDir, a.AlbumPicture) {
			out = append(out, a.AlbumPicture)
		}
	}
	return out
}

func deleteTrack(ctx context.Context, tx *store.DB, id string) ([]string, error) {
	trackID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	track, err := tx.GetTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if err := tx.DeleteTrack(ctx, trackID); err != nil {
		return nil, err
	}
	return tracksMedia([]domain.Track{*track}), nil
}

func deleteAlbum(ctx context.Context, tx *store.DB, id string) ([]string, error) {
	albumID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	album, err := tx.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	tracks, err := tx.ListTracksByAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if err := tx.DeleteAlbum(ctx, albumID); err != nil {
		return nil, err
	}
	return append(tracksMedia(tracks), albumsMedia([]domain.Album{*album})...), nil
}

func artistMedia(ctx context.Context, tx *store.DB, username string) ([]string, error) {
	tracks, err := tx.ListTracksByArtist(ctx, username)
	if err != nil {
		return nil, err
	}
	albums, err := tx.ListAlbumsByArtist(ctx, username)
	if err != nil {
		return nil, err
	}
	return append(tracksMedia(tracks), albumsMedia(albums)...), nil
}

func deleteArtist(ctx context.Context, tx *store.DB, username string) ([]string, error) {
	media, err := artistMedia(ctx, tx, username)
	if err != nil {
		return nil, err
	}
	if err := tx.DeleteArtist(ctx, username); err != nil {
		return nil, err
	}
	return media, nil
}

func deleteUser(ctx context.Context, tx *store.DB, username string) ([]string, error) {
	user, err := tx.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	media, err := artistMedia(ctx, tx, username)
	if err != nil {
		return nil, err
	}
	playlists, err := tx.ListPlaylistsByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		if mediaUnder(constants.PlaylistDir, p.PlaylistPicture) {
			media = append(media, p.PlaylistPicture)
		}
	}
	if mediaUnder(constants.ProfileDir, user.ProfilePicture) {
		media = append(media, user.ProfilePicture)
	}
	if err := tx.DeleteUser(ctx, username); err != nil {
		return nil, err
	}
	return media, nil
}

func deletePlaylist(ctx context.Context, tx *store.DB, id string) ([]string, error) {
	playlistID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	playlist, err := tx.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := tx.DeletePlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	var media []string
	if mediaUnder(constants.PlaylistDir, playlist.PlaylistPicture) {
		media = append(media, playlist.PlaylistPicture)
	}
	return media, nil
}

// IsClientError reports errors caused by the request rather than the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrForbidden, domain.ErrNotCreator,
		domain.ErrUnknownCategory, domain.ErrUnsupportedMedia,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
