package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/soundhall/internal/app"
	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/http/dto"
	"github.com/cesargomez89/soundhall/internal/session"
)

// GET /profile/{username}
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	view, err := h.Catalog.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /profile/{username}/picture
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if session.FromContext(r.Context()).Username != username {
		h.deny(w, r, http.StatusForbidden)
		return
	}
	if err := h.parseUploadForm(w, r); err != nil {
		h.formError(w, r, err)
		return
	}
	defer cleanupMultipart(r)

	picture, done, err := formFile(r, "profile_pic")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer done()
	if picture == nil {
		h.validationFailed(w, []dto.ValidationError{{Field: "profile_pic", Message: "is required"}})
		return
	}

	rel, err := h.Catalog.UpdateProfilePicture(r.Context(), username, picture)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: rel})
}

// GET /albums/{id}
func (h *Handler) ViewAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.Catalog.AlbumView(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GET /playlists/{id}
func (h *Handler) ViewPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := h.Catalog.PlaylistView(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// uploadRequest parses a multipart form into req and returns the optional
// file sent as field. The caller must run the returned cleanup.
func (h *Handler) uploadRequest(w http.ResponseWriter, r *http.Request, req interface{}, field string) (*app.Upload, func(), bool) {
	noop := func() {}
	if err := h.parseUploadForm(w, r); err != nil {
		h.formError(w, r, err)
		return nil, noop, false
	}
	if errs := append(bindForm(r, req), dto.Validate(req)...); len(errs) > 0 {
		cleanupMultipart(r)
		h.validationFailed(w, errs)
		return nil, noop, false
	}
	upload, done, err := formFile(r, field)
	if err != nil {
		cleanupMultipart(r)
		h.fail(w, r, err)
		return nil, noop, false
	}
	return upload, func() {
		done()
		cleanupMultipart(r)
	}, true
}

// POST /{username}/albums
func (h *Handler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAlbumRequest
	picture, cleanup, ok := h.uploadRequest(w, r, &req, "album_picture")
	if !ok {
		return
	}
	defer cleanup()

	album, err := h.Catalog.CreateAlbum(r.Context(), chi.URLParam(r, "username"), app.AlbumInput{
		Name:    req.Name,
		Picture: picture,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

// POST /{username}/albums/{id}
func (h *Handler) EditAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.EditAlbumRequest
	picture, cleanup, ok := h.uploadRequest(w, r, &req, "album_picture")
	if !ok {
		return
	}
	defer cleanup()

	album, err := h.Catalog.EditAlbum(r.Context(), chi.URLParam(r, "username"), id, app.AlbumInput{
		Name:     req.Name,
		Picture:  picture,
		TrackIDs: req.TrackIDs,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// DELETE /{username}/albums/{id}
func (h *Handler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteAlbum(r.Context(), chi.URLParam(r, "username"), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.message(w, constants.MsgDeleted)
}

// POST /{username}/tracks
func (h *Handler) CreateTrack(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTrackRequest
	audio, cleanup, ok := h.uploadRequest(w, r, &req, "mp3File")
	if !ok {
		return
	}
	defer cleanup()
	if audio == nil {
		h.validationFailed(w, []dto.ValidationError{{Field: "mp3File", Message: "is required"}})
		return
	}

	track, err := h.Catalog.CreateTrack(r.Context(), chi.URLParam(r, "username"), app.TrackInput{
		Name:    req.Name,
		AlbumID: req.AlbumID,
		Audio:   audio,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, track)
}

// POST /{username}/playlists
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlaylistRequest
	picture, cleanup, ok := h.uploadRequest(w, r, &req, "playlist_picture")
	if !ok {
		return
	}
	defer cleanup()

	playlist, err := h.Catalog.CreatePlaylist(r.Context(), chi.URLParam(r, "username"), app.PlaylistInput{
		Name:     req.Name,
		Picture:  picture,
		TrackIDs: req.TrackIDs,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

// POST /{username}/playlists/{id}
func (h *Handler) EditPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.EditPlaylistRequest
	picture, cleanup, ok := h.uploadRequest(w, r, &req, "playlist_picture")
	if !ok {
		return
	}
	defer cleanup()

	playlist, err := h.Catalog.EditPlaylist(r.Context(), chi.URLParam(r, "username"), id, app.PlaylistInput{
		Name:     req.Name,
		Picture:  picture,
		TrackIDs: req.TrackIDs,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// DELETE /{username}/playlists/{id}
func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeletePlaylist(r.Context(), chi.URLParam(r, "username"), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.message(w, constants.MsgDeleted)
}
