package httpapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/cesargomez89/soundhall/internal/app"
	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/http/dto"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/session"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	MediaDir          string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	MaxUploadBytes    int64
}

type Handler struct {
	Accounts  *app.AccountService
	Listening *app.ListeningService
	Feed      *app.FeedService
	Catalog   *app.CatalogService
	Admin     *app.AdminService
	Sessions  *session.Manager
	Health    Pinger
	Logger    *logger.Logger
	Options   Options
}

type Services struct {
	Accounts  *app.AccountService
	Listening *app.ListeningService
	Feed      *app.FeedService
	Catalog   *app.CatalogService
	Admin     *app.AdminService
}

func NewHandler(svc Services, sessions *session.Manager, health Pinger, opts Options, log *logger.Logger) *Handler {
	h := &Handler{
		Accounts:  svc.Accounts,
		Listening: svc.Listening,
		Feed:      svc.Feed,
		Catalog:   svc.Catalog,
		Admin:     svc.Admin,
		Sessions:  sessions,
		Health:    health,
		Logger:    log.WithComponent("http"),
		Options:   opts,
	}
	sessions.Deny = h.deny
	return h
}

type BasicResponse struct {
	Result bool    `json:"result"`
	Status int     `json:"status"`
	Error  *string `json:"error,omitempty"`
}

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type FlashResponse struct {
	BasicResponse
	Flash Flash `json:"flash"`
}

type ValidationResponse struct {
	BasicResponse
	Fields map[string]string `json:"fields"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DataResponse struct {
	Data interface{} `json:"data"`
}

// flashes are the form errors shown back to the user verbatim.
var flashes = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrInvalidUsername, http.StatusBadRequest, constants.MsgInvalidUsername},
	{domain.ErrUsernameTaken, http.StatusConflict, constants.MsgUsernameTaken},
	{domain.ErrEmailTaken, http.StatusConflict, constants.MsgEmailTaken},
	{domain.ErrInvalidEmail, http.StatusBadRequest, constants.MsgInvalidEmail},
	{domain.ErrPasswordMismatch, http.StatusBadRequest, constants.MsgPasswordMismatch},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, constants.MsgLoginUnsuccessful},
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, code int, message string) {
	h.Logger.Debug("Request failed", "status", code, "message", message, "path", r.URL.Path)
	writeJSON(w, code, BasicResponse{Result: false, Status: code, Error: &message})
}

func (h *Handler) deny(w http.ResponseWriter, r *http.Request, status int) {
	h.errorResponse(w, r, status, http.StatusText(status))
}

func (h *Handler) validationFailed(w http.ResponseWriter, errs []dto.ValidationError) {
	msg := dto.ToResponse(errs)
	writeJSON(w, http.StatusBadRequest, ValidationResponse{
		BasicResponse: BasicResponse{Result: false, Status: http.StatusBadRequest, Error: &msg},
		Fields:        dto.ToMap(errs),
	})
}

// fail maps a service error onto a response. Unexpected errors are logged
// and hidden from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, f := range flashes {
		if errors.Is(err, f.err) {
			writeJSON(w, f.status, FlashResponse{
				BasicResponse: BasicResponse{Result: false, Status: f.status},
				Flash:         Flash{Category: constants.FlashDanger, Message: f.message},
			})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotCreator):
		h.errorResponse(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUnknownCategory):
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnsupportedMedia):
		h.errorResponse(w, r, http.StatusUnsupportedMediaType, err.Error())
	default:
		h.Logger.Error("Request failed", "path", r.URL.Path, "error", err)
		h.errorResponse(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) ok(w http.ResponseWriter, status int) {
	writeJSON(w, status, BasicResponse{Result: true, Status: status})
}

func (h *Handler) message(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.Ping(r.Context()); err != nil {
		h.Logger.Error("Health check failed", "error", err)
		h.errorResponse(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	h.ok(w, http.StatusOK)
}
