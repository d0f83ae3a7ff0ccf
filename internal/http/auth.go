package httpapp

import (
	"net/http"

	"github.com/cesargomez89/soundhall/internal/app"
	"github.com/cesargomez89/soundhall/internal/http/dto"
	"github.com/cesargomez89/soundhall/internal/session"
)

// POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	var req dto.RegisterRequest
	if errs := append(bindForm(r, &req), dto.Validate(&req)...); len(errs) > 0 {
		h.validationFailed(w, errs)
		return
	}

	if _, err := h.Accounts.Register(r.Context(), app.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated)
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loginRequest(w, r)
	if !ok {
		return
	}
	user, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Sessions.Login(w, r, user.Username); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK)
}

// POST /admin/login
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loginRequest(w, r)
	if !ok {
		return
	}
	admin, err := h.Accounts.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Sessions.LoginAdmin(w, r, admin.Username); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK)
}

func (h *Handler) loginRequest(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, bool) {
	var req dto.LoginRequest
	if err := r.ParseForm(); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid form")
		return req, false
	}
	if errs := append(bindForm(r, &req), dto.Validate(&req)...); len(errs) > 0 {
		h.validationFailed(w, errs)
		return req, false
	}
	return req, true
}

// POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK)
}

// POST /creator
func (h *Handler) RegisterCreator(w http.ResponseWriter, r *http.Request) {
	artist, err := h.Accounts.RegisterCreator(r.Context(), session.FromContext(r.Context()).Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}
