package httpapp

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/http/dto"
	"github.com/cesargomez89/soundhall/internal/session"
)

// GET /home
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Feed.Home(r.Context(), session.FromContext(r.Context()).Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// GET /search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid query")
		return
	}
	var req dto.SearchRequest
	if errs := append(bindForm(r, &req), dto.Validate(&req)...); len(errs) > 0 {
		h.validationFailed(w, errs)
		return
	}

	results, err := h.Feed.Search(r.Context(), req.Term)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// POST /tracks/{id}/play
func (h *Handler) RecordPlay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Listening.RecordPlay(r.Context(), session.FromContext(r.Context()).Username, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.message(w, constants.MsgSongClickLogged)
}

// POST /tracks/{id}/rating/{value}
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	value, err := strconv.Atoi(chi.URLParam(r, "value"))
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "rating must be an integer")
		return
	}
	if err := h.Listening.Rate(r.Context(), session.FromContext(r.Context()).Username, id, value); err != nil {
		h.fail(w, r, err)
		return
	}
	h.message(w, constants.MsgRatingSaved)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}
