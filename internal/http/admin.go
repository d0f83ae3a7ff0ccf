package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
)

// GET /admin
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Admin.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /admin/detail/{category}
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, err := h.Admin.Detail(r.Context(), category)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: rows})
}

// GET /time/{category}
func (h *Handler) RetrieveTime(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	buckets, err := h.Admin.RetrieveTime(r.Context(), category)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Data: buckets})
}

// DELETE /delete/{category}/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Catalog.Delete(r.Context(), category, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.message(w, constants.MsgDeleted)
}
