package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/fashion-catalog/internal/catalog"
	"github.com/example/fashion-catalog/internal/command"
	"github.com/example/fashion-catalog/internal/domain/brand"
	"github.com/example/fashion-catalog/internal/domain/category"
	"github.com/example/fashion-catalog/internal/domain/product"
	"github.com/example/fashion-catalog/internal/domain/settings"
	"github.com/example/fashion-catalog/internal/projection"
	"github.com/example/fashion-catalog/internal/query"
	"github.com/example/fashion-catalog/internal/readmodel"
	"github.com/example/fashion-catalog/internal/upload"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	uploads      *upload.Store
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, uploads *upload.Store) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		uploads:      uploads,
	}
}

// ProductRequest is the body of product create and update requests
type ProductRequest struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Price         decimal.Decimal   `json:"price"`
	OriginalPrice *decimal.Decimal  `json:"originalPrice,omitempty"`
	Category      string            `json:"category"`
	Subcategory   string            `json:"subcategory,omitempty"`
	Brand         string            `json:"brand"`
	Sizes         []string          `json:"sizes"`
	Colors        []readmodel.Color `json:"colors"`
	Images        []string          `json:"images"`
	Stock         int               `json:"stock"`
	Featured      bool              `json:"featured"`
	Tags          []string          `json:"tags,omitempty"`
	Rating        *float64          `json:"rating,omitempty"`
	ReviewCount   *int              `json:"reviewCount,omitempty"`
}

func (req ProductRequest) details() product.Details {
	colors := make([]product.Color, 0, len(req.Colors))
	for _, c := range req.Colors {
		colors = append(colors, product.Color{Name: c.Name, Hex: c.Hex})
	}
	return product.Details{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Brand:         req.Brand,
		Sizes:         req.Sizes,
		Colors:        colors,
		Images:        req.Images,
		Stock:         req.Stock,
		Featured:      req.Featured,
		Tags:          req.Tags,
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
	}
}

// Product Handlers

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.queryHandler.ListProducts(r.Context(), catalog.ParseQuery(r.URL.Query()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.queryHandler.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.cmdHandler.CreateProduct(r.Context(), command.CreateProduct{Details: req.details()})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, projection.ProductModel(p.ID, p.Details, p.CreatedAt, p.UpdatedAt))
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.cmdHandler.UpdateProduct(r.Context(), command.UpdateProduct{
		ProductID: r.PathValue("id"),
		Details:   req.details(),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, projection.ProductModel(p.ID, p.Details, p.CreatedAt, p.UpdatedAt))
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.cmdHandler.DeleteProduct(r.Context(), command.DeleteProduct{ProductID: r.PathValue("id")}); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settings Handlers

// SettingsRequest is a partial settings update; blank fields are kept
type SettingsRequest struct {
	StoreName       string `json:"storeName"`
	Logo            string `json:"logo"`
	WhatsappNumber  string `json:"whatsappNumber"`
	WhatsappMessage string `json:"whatsappMessage"`
	Instagram       string `json:"instagram"`
	Facebook        string `json:"facebook"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.queryHandler.GetSettings(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.cmdHandler.UpdateSettings(r.Context(), command.UpdateSettings{Settings: settings.Settings(req)})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Helpers

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

var (
	validationErrors = []error{
		product.ErrInvalidName,
		product.ErrInvalidPrice,
		product.ErrInvalidOriginalPrice,
		product.ErrInvalidStock,
		product.ErrCategoryRequired,
		product.ErrBrandRequired,
		product.ErrInvalidColor,
		product.ErrInvalidRating,
		product.ErrInvalidReviewCount,
		category.ErrInvalidName,
		category.ErrInvalidSlug,
		brand.ErrInvalidName,
		brand.ErrInvalidSlug,
		settings.ErrInvalidWhatsappNumber,
	}
	notFoundErrors = []error{
		product.ErrProductNotFound,
		category.ErrCategoryNotFound,
		brand.ErrBrandNotFound,
	}
	conflictErrors = []error{
		category.ErrSlugTaken,
		brand.ErrSlugTaken,
		brand.ErrNameTaken,
	}
)

func statusFor(err error) int {
	for _, group := range []struct {
		errs   []error
		status int
	}{
		{validationErrors, http.StatusBadRequest},
		{notFoundErrors, http.StatusNotFound},
		{conflictErrors, http.StatusConflict},
	} {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondDomainError maps domain errors to status codes. Unknown errors are
// logged and hidden from the client.
func respondDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
		respondJSONError(w, "internal server error", status)
		return
	}
	respondJSONError(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
