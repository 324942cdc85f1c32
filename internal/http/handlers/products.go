package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marketplace/internal/domain"
)

type productRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	OwnerID     string  `json:"ownerId"`
}

func (a *App) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" || req.OwnerID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and ownerId are required")
		return
	}

	// The owner is fetched once and embedded as a snapshot.
	owner, err := a.Users.GetByID(r.Context(), req.OwnerID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Type:        domain.ProductType(req.Type),
		Owner:       owner.Snapshot(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Products.Create(r.Context(), p); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, p)
}

func (a *App) ProductsList(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		Type: domain.ProductType(r.URL.Query().Get("type")),
	}
	if v := r.URL.Query().Get("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &p
		}
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &p
		}
	}

	items, err := a.Products.List(r.Context(), filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, items)
}

func (a *App) ProductsListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerId")
	items, err := a.Products.List(r.Context(), domain.ProductFilter{})
	if err != nil {
		a.domainError(w, err)
		return
	}
	matched := make([]domain.Product, 0)
	for _, p := range items {
		if p.Owner.ID == ownerID {
			matched = append(matched, p)
		}
	}
	a.json(w, http.StatusOK, matched)
}

func (a *App) ProductsGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.Products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) ProductsUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := a.Products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Image != "" {
		p.Image = req.Image
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.Type != "" {
		p.Type = domain.ProductType(req.Type)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := a.Products.Update(r.Context(), p); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) ProductsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
