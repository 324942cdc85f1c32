package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marketplace/internal/domain"
)

type jobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Type        string `json:"type"`
}

func (a *App) JobsCreate(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}
	jobType := domain.JobType(req.Type)
	if jobType != domain.JobTypeOffer && jobType != domain.JobTypeSeek {
		a.error(w, http.StatusBadRequest, "bad_request", "type must be OFFER or SEEK")
		return
	}

	now := time.Now().UTC()
	j := &domain.Job{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		Salary:      req.Salary,
		Type:        jobType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Jobs.Create(r.Context(), j); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, j)
}

func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	a.listJobs(w, r, domain.JobType(r.URL.Query().Get("type")))
}

func (a *App) JobsOffers(w http.ResponseWriter, r *http.Request) {
	a.listJobs(w, r, domain.JobTypeOffer)
}

func (a *App) JobsSeekers(w http.ResponseWriter, r *http.Request) {
	a.listJobs(w, r, domain.JobTypeSeek)
}

func (a *App) listJobs(w http.ResponseWriter, r *http.Request, jobType domain.JobType) {
	items, err := a.Jobs.List(r.Context(), jobType)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) JobsGet(w http.ResponseWriter, r *http.Request) {
	j, err := a.Jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, j)
}

func (a *App) JobsUpdate(w http.ResponseWriter, r *http.Request) {
	j, err := a.Jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title != "" {
		j.Title = req.Title
	}
	if req.Description != "" {
		j.Description = req.Description
	}
	if req.Company != "" {
		j.Company = req.Company
	}
	if req.Location != "" {
		j.Location = req.Location
	}
	if req.Salary != "" {
		j.Salary = req.Salary
	}
	if req.Type != "" {
		jobType := domain.JobType(req.Type)
		if jobType != domain.JobTypeOffer && jobType != domain.JobTypeSeek {
			a.error(w, http.StatusBadRequest, "bad_request", "type must be OFFER or SEEK")
			return
		}
		j.Type = jobType
	}
	j.UpdatedAt = time.Now().UTC()

	if err := a.Jobs.Update(r.Context(), j); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, j)
}

func (a *App) JobsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Jobs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
