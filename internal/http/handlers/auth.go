package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/auth"
	"marketplace/internal/domain"
	"marketplace/internal/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  domain.UserSnapshot `json:"user"`
	Token string              `json:"token"`
}

func (a *App) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.domainError(w, err)
		return
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

	token, err := a.Tokens.Sign(user.ID, user.Email)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, authResponse{User: user.Snapshot(), Token: token})
}

// AuthMe resolves the bearer token back to the account it was issued for.
func (a *App) AuthMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, user.Snapshot())
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	user, err := a.Users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.domainError(w, domain.ErrInvalidCredentials)
			return
		}
		a.domainError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		a.domainError(w, domain.ErrInvalidCredentials)
		return
	}

	token, err := a.Tokens.Sign(user.ID, user.Email)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, authResponse{User: user.Snapshot(), Token: token})
}
