package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	charge "github.com/rekhigroup/livplus-backend/internal/charges"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

type createChargeRequest struct {
	Name   string          `json:"name" validate:"required,max=120"`
	Type   string          `json:"type" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type updateChargeRequest struct {
	Name   *string          `json:"name" validate:"omitempty,max=120"`
	Type   *string          `json:"type"`
	Amount *decimal.Decimal `json:"amount"`
}

// AdminListCheckoutCharges returns the charge rules in application order.
func AdminListCheckoutCharges(svc charge.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminCreateCheckoutCharge adds a charge rule.
func AdminCreateCheckoutCharge(svc charge.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		var body createChargeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		chargeType, err := enums.ParseDiscountType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid charge type"))
			return
		}

		row, err := svc.Create(r.Context(), charge.CreateInput{
			Name:   validators.SanitizeString(body.Name, 120),
			Type:   chargeType,
			Amount: body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminUpdateCheckoutCharge applies partial changes to a charge rule.
func AdminUpdateCheckoutCharge(svc charge.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "chargeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateChargeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := charge.UpdateInput{Name: body.Name, Amount: body.Amount}
		if body.Type != nil {
			chargeType, err := enums.ParseDiscountType(*body.Type)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid charge type"))
				return
			}
			input.Type = &chargeType
		}

		row, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminDeleteCheckoutCharge removes a charge rule.
func AdminDeleteCheckoutCharge(svc charge.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "charge service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "chargeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
