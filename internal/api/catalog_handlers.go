package api

import (
	"net/http"

	"github.com/example/fashion-catalog/internal/command"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/projection"
)

// CategoryRequest is the body of category create and update requests.
// A blank slug is derived from the name.
type CategoryRequest struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Subcategories []string `json:"subcategories"`
	Image         string   `json:"image,omitempty"`
}

type BrandRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// Category Handlers

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queryHandler.ListCategories(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GetCategory accepts either the category id or its slug
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.queryHandler.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.cmdHandler.CreateCategory(r.Context(), command.CreateCategory{Details: category.Details(req)})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, projection.CategoryModel(c.ID, c.Details, c.CreatedAt, c.UpdatedAt))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.cmdHandler.UpdateCategory(r.Context(), command.UpdateCategory{
		CategoryID: r.PathValue("id"),
		Details:    category.Details(req),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.CategoryModel(c.ID, c.Details, c.CreatedAt, c.UpdatedAt))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteCategory(r.Context(), command.DeleteCategory{CategoryID: r.PathValue("id")}); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Brand Handlers

func (h *Handlers) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.queryHandler.ListBrands(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, brands)
}

// GetBrand accepts either the brand id or its slug
func (h *Handlers) GetBrand(w http.ResponseWriter, r *http.Request) {
	b, err := h.queryHandler.GetBrand(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *Handlers) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.cmdHandler.CreateBrand(r.Context(), command.CreateBrand{Details: brand.Details(req)})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, projection.BrandModel(b.ID, b.Details, b.CreatedAt, b.UpdatedAt))
}

func (h *Handlers) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.cmdHandler.UpdateBrand(r.Context(), command.UpdateBrand{
		BrandID: r.PathValue("id"),
		Details: brand.Details(req),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projection.BrandModel(b.ID, b.Details, b.CreatedAt, b.UpdatedAt))
}

func (h *Handlers) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteBrand(r.Context(), command.DeleteBrand{BrandID: r.PathValue("id")}); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
