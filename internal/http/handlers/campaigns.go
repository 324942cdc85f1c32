package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketplace/internal/domain"
)

type createCampaignRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	GoalAmount  float64             `json:"goalAmount"`
	Creator     domain.UserSnapshot `json:"creator"`
}

type patchCampaignRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	GoalAmount  *float64 `json:"goalAmount"`
}

func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	// Resolve the creator snapshot server-side when only an id was given;
	// the snapshot is embedded as-is and never refreshed afterwards.
	creator := req.Creator
	if creator.ID != "" && creator.Name == "" {
		user, err := a.Users.GetByID(r.Context(), creator.ID)
		if err == nil {
			creator = user.Snapshot()
		}
	}

	c, err := a.Campaigns.Create(r.Context(), domain.CampaignSpec{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		GoalAmount:  req.GoalAmount,
		Creator:     creator,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, c)
}

func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.List(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) CampaignsListByCreator(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListByCreator(r.Context(), chi.URLParam(r, "creatorId"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.Campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, c)
}

func (a *App) CampaignsUpdate(w http.ResponseWriter, r *http.Request) {
	var req patchCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	c, err := a.Campaigns.Update(r.Context(), chi.URLParam(r, "id"), domain.CampaignPatch{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		GoalAmount:  req.GoalAmount,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, c)
}

func (a *App) CampaignsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Campaigns.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) BackingsAdd(w http.ResponseWriter, r *http.Request) {
	var pledge domain.Pledge
	if err := json.NewDecoder(r.Body).Decode(&pledge); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	c, err := a.Campaigns.AddBacking(r.Context(), chi.URLParam(r, "id"), pledge)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, c)
}

func (a *App) BackingsList(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Campaigns.Entries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, entries)
}

func (a *App) BackingsTotal(w http.ResponseWriter, r *http.Request) {
	total, err := a.Campaigns.Total(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]float64{"total": total})
}

func (a *App) BackingsByUser(w http.ResponseWriter, r *http.Request) {
	records, err := a.Campaigns.UserBackings(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, records)
}
