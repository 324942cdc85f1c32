package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marketplace/internal/auth"
	"marketplace/internal/domain"
)

type userRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Password string `json:"password"`
}

func (a *App) UsersCreate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email is required")
		return
	}

	hash := ""
	if req.Password != "" {
		var err error
		if hash, err = auth.HashPassword(req.Password); err != nil {
			a.domainError(w, err)
			return
		}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		Image:        req.Image,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, user)
}

func (a *App) UsersList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Users.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) UsersGet(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, user)
}

func (a *App) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Image != "" {
		user.Image = req.Image
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			a.domainError(w, err)
			return
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := a.Users.Update(r.Context(), user); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, user)
}

func (a *App) UsersDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
