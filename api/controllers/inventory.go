package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rcvillanueva/padeliver-backend/api/responses"
	"github.com/rcvillanueva/padeliver-backend/api/validators"
	inventorysvc "github.com/rcvillanueva/padeliver-backend/internal/inventory"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

// ProductInventory returns the summed ledger total for one product.
func ProductInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		stock, err := svc.GetProductInventory(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stock)
	}
}

// InventoryList returns the summed totals grouped by product.
func InventoryList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		stocks, err := svc.GetAllInventory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stocks)
	}
}

type recordStockRequest struct {
	Quantity int64  `json:"quantity" validate:"required"`
	Remark   string `json:"remark,omitempty"`
}

// RecordStock appends a signed ledger delta for the path product.
func RecordStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload recordStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stock, err := svc.RecordStock(r.Context(), inventorysvc.RecordStockInput{
			ProductID: chi.URLParam(r, "productId"),
			Quantity:  payload.Quantity,
			Remark:    strings.TrimSpace(payload.Remark),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, stock)
	}
}
