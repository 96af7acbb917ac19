package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// listProductsResponse is the page envelope of GET /api/products.
type listProductsResponse struct {
	Products      []models.Product `json:"products"`
	TotalProducts int              `json:"totalProducts"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts = opts.Normalize()

	products, total, err := h.services.ProductService.ListProducts(r.Context(), opts)
	if err != nil {
		h.respondError(w, r, err, "listing products failed")
		return
	}

	_, _ = utils.WriteJSON(w, listProductsResponse{
		Products:      products,
		TotalProducts: total,
		CurrentPage:   opts.Page,
		TotalPages:    totalPages(total, opts.Limit),
	}, http.StatusOK)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.services.ProductService.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err, "getting product failed")
		return
	}

	_, _ = utils.WriteJSON(w, product, http.StatusOK)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.ProductService.CreateProduct(ctx, actor, product)
	if err != nil {
		h.respondError(w, r, err, "creating product failed")
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	product.ID = chi.URLParam(r, "id")

	updated, err := h.services.ProductService.UpdateProduct(ctx, actor, product)
	if err != nil {
		h.respondError(w, r, err, "updating product failed")
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.ProductService.DeleteProduct(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err, "deleting product failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
