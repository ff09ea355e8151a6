package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rcvillanueva/padeliver-backend/api/responses"
	"github.com/rcvillanueva/padeliver-backend/api/validators"
	productsvc "github.com/rcvillanueva/padeliver-backend/internal/products"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

type createProductRequest struct {
	ProductID   string `json:"product_id,omitempty"`
	Item        string `json:"item" validate:"required"`
	Description string `json:"product_description,omitempty"`
	Price       string `json:"price" validate:"required"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		ProductID:   strings.TrimSpace(r.ProductID),
		Item:        strings.TrimSpace(r.Item),
		Description: r.Description,
		Price:       strings.TrimSpace(r.Price),
		Brand:       strings.TrimSpace(r.Brand),
		Category:    strings.TrimSpace(r.Category),
	}
}

// CreateProduct handles catalog product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts returns the whole catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProduct resolves a product by id, falling back to the item-name index.
// An optional user_id query annotates whether the product sits in that cart.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		idOrName := chi.URLParam(r, "productId")

		if userID := strings.TrimSpace(r.URL.Query().Get("user_id")); userID != "" {
			product, err := svc.ViewProduct(r.Context(), idOrName, userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, product)
			return
		}

		product, err := svc.GetProduct(r.Context(), idOrName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type updateProductRequest struct {
	Item        *string `json:"item,omitempty"`
	Description *string `json:"product_description,omitempty"`
	Price       *string `json:"price,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Category    *string `json:"category,omitempty"`
}

func (r updateProductRequest) toUpdate() *productsvc.Update {
	update := productsvc.NewUpdate()
	if r.Item != nil {
		update.SetItem(strings.TrimSpace(*r.Item))
	}
	if r.Description != nil {
		update.SetDescription(*r.Description)
	}
	if r.Price != nil {
		update.SetPrice(strings.TrimSpace(*r.Price))
	}
	if r.Brand != nil {
		update.SetBrand(strings.TrimSpace(*r.Brand))
	}
	if r.Category != nil {
		update.SetCategory(strings.TrimSpace(*r.Category))
	}
	return update
}

// UpdateProduct applies a partial edit limited to the updatable columns.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), chi.URLParam(r, "productId"), payload.toUpdate())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product and its name-index rows.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type importProductsRequest struct {
	ObjectKey string `json:"object_key" validate:"required"`
}

// ImportProducts runs a CSV batch create or delete from object storage.
func ImportProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload importProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ImportCSV(r.Context(), strings.TrimSpace(payload.ObjectKey))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
