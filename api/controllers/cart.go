package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rcvillanueva/padeliver-backend/api/responses"
	"github.com/rcvillanueva/padeliver-backend/api/validators"
	cartsvc "github.com/rcvillanueva/padeliver-backend/internal/cart"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// CartAddItem merges a line item into the user's cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddToCart(r.Context(), chi.URLParam(r, "userId"), cartsvc.AddItemInput{
			ProductID: strings.TrimSpace(payload.ProductID),
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// CartFetch returns the user's current cart, empty when no row exists.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cart, err := svc.GetCart(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}
