package controllers

import (
	"net/http"

	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	order "github.com/rekhigroup/livplus-backend/internal/orders"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminListOrders returns one keyset page of orders, newest first.
func AdminListOrders(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListPage(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildPage(rows, params.Limit, func(row models.Order) pagination.Cursor {
			return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
		}))
	}
}

// AdminUpdateOrderStatus moves an order through its fulfilment states.
func AdminUpdateOrderStatus(svc order.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		row, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}
