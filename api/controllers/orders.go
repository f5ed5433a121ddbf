package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rekhigroup/livplus-backend/api/middleware"
	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	order "github.com/rekhigroup/livplus-backend/internal/orders"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

type checkoutRequest struct {
	ShippingAddress shippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

type shippingAddressRequest struct {
	FullName      string `json:"full_name" validate:"required,max=120"`
	StreetAddress string `json:"street_address" validate:"required,max=300"`
	City          string `json:"city" validate:"required,max=120"`
	State         string `json:"state" validate:"required,max=120"`
	Pincode       string `json:"pincode" validate:"required,max=12"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=20"`
}

func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// Checkout places an order from the shopper's live cart.
func Checkout(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		placed, err := svc.PlaceOrder(r.Context(), userID, order.PlaceOrderInput{
			ShippingAddress: types.ShippingAddress{
				FullName:      validators.SanitizeString(body.ShippingAddress.FullName, 120),
				StreetAddress: validators.SanitizeString(body.ShippingAddress.StreetAddress, 300),
				City:          validators.SanitizeString(body.ShippingAddress.City, 120),
				State:         validators.SanitizeString(body.ShippingAddress.State, 120),
				Pincode:       validators.SanitizeString(body.ShippingAddress.Pincode, 12),
				PhoneNumber:   validators.SanitizeString(body.ShippingAddress.PhoneNumber, 20),
			},
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}

// ListMyOrders returns the shopper's order history, newest first.
func ListMyOrders(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// GetMyOrder returns one of the shopper's orders.
func GetMyOrder(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetForUser(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}
