package httpapp

import (
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cesargomez89/soundhall/internal/metrics"
	"github.com/cesargomez89/soundhall/internal/session"
)

// NewRouter builds the application router with its middleware stack.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(h.Sessions.Load)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(mediaFS{http.Dir(h.Options.MediaDir)})))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(h.Options.RateLimitRequests, h.Options.RateLimitWindow))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/admin/login", h.AdminLogin)
	})
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireUser)

		r.Get("/home", h.Home)
		r.Get("/search", h.Search)
		r.Get("/profile/{username}", h.Profile)
		r.Post("/profile/{username}/picture", h.UploadProfilePicture)
		r.Post("/creator", h.RegisterCreator)
		r.Get("/albums/{id}", h.ViewAlbum)
		r.Get("/playlists/{id}", h.ViewPlaylist)
		r.Post("/tracks/{id}/play", h.RecordPlay)
		r.Post("/tracks/{id}/rating/{value}", h.Rate)

		r.Route("/{username}", func(r chi.Router) {
			r.Use(h.requireOwner)
			r.Post("/albums", h.CreateAlbum)
			r.Post("/albums/{id}", h.EditAlbum)
			r.Delete("/albums/{id}", h.DeleteAlbum)
			r.Post("/tracks", h.CreateTrack)
			r.Post("/playlists", h.CreatePlaylist)
			r.Post("/playlists/{id}", h.EditPlaylist)
			r.Delete("/playlists/{id}", h.DeletePlaylist)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireAdmin)
		r.Get("/admin", h.Dashboard)
		r.Get("/admin/detail/{category}", h.Detail)
		r.Get("/time/{category}", h.RetrieveTime)
		r.Delete("/delete/{category}/{id}", h.Delete)
	})
}

// mediaFS serves stored files only. Directories and in-flight upload temp
// files look missing so nothing is listed.
type mediaFS struct {
	fs http.FileSystem
}

func (m mediaFS) Open(name string) (http.File, error) {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") && strings.HasSuffix(base, ".tmp") {
		return nil, os.ErrNotExist
	}
	f, err := m.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// requireOwner only lets users act on paths under their own username.
func (h *Handler) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()).Username != chi.URLParam(r, "username") {
			h.deny(w, r, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
