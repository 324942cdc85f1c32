package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"marketplace/internal/auth"
	"marketplace/internal/campaign"
	"marketplace/internal/domain"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Log       zerolog.Logger
	Users     domain.UserRepository
	Products  domain.ProductRepository
	Jobs      domain.JobRepository
	Campaigns *campaign.Service
	Tokens    *auth.TokenManager
}

func NewApp(log zerolog.Logger, users domain.UserRepository, products domain.ProductRepository,
	jobs domain.JobRepository, campaigns *campaign.Service, tokens *auth.TokenManager) *App {
	return &App{
		Log:       log,
		Users:     users,
		Products:  products,
		Jobs:      jobs,
		Campaigns: campaigns,
		Tokens:    tokens,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// domainError translates the error taxonomy into HTTP responses. Unknown
// errors are logged and reported as a generic infrastructure failure.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource does not exist")
	case errors.Is(err, domain.ErrInvalidSpec),
		errors.Is(err, domain.ErrInvalidPledge),
		errors.Is(err, domain.ErrInvalidUser):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrDuplicateEmail):
		a.error(w, http.StatusConflict, "conflict", "email already registered")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		a.error(w, http.StatusConflict, "conflict", "concurrent update, retry the request")
	default:
		a.Log.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
