package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rcvillanueva/padeliver-backend/api/responses"
	"github.com/rcvillanueva/padeliver-backend/api/validators"
	ordersvc "github.com/rcvillanueva/padeliver-backend/internal/orders"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

// Checkout drains the cart into negative inventory records without creating
// an order.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		result, err := svc.Checkout(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PlaceOrder converts the cart into a persisted order plus inventory records.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		result, err := svc.PlaceOrder(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListUserOrders returns the orders owned by the path user.
func ListUserOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orders, err := svc.GetOrders(r.Context(), chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// ListAllOrders returns every order in the system.
func ListAllOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orders, err := svc.GetAllOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

type updateOrderStatusRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Status       string `json:"status" validate:"required"`
}

// UpdateOrderStatus moves an order through its status enum. The caller must
// own the order.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.UpdateOrderStatus(
			r.Context(),
			chi.URLParam(r, "orderId"),
			strings.TrimSpace(payload.CustomerName),
			strings.TrimSpace(payload.Status),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}

type generateReceiptRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
}

// GenerateReceipt renders the order receipt, stores it and returns its URL.
func GenerateReceipt(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload generateReceiptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.GenerateReceipt(r.Context(), chi.URLParam(r, "orderId"), strings.TrimSpace(payload.CustomerName))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}
