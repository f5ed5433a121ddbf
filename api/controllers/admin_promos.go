package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	promo "github.com/rekhigroup/livplus-backend/internal/promos"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

type createPromoRequest struct {
	Code         string          `json:"code" validate:"required,max=40"`
	DiscountType string          `json:"discount_type" validate:"required"`
	Value        decimal.Decimal `json:"value" validate:"required"`
}

type updatePromoRequest struct {
	Code         *string          `json:"code" validate:"omitempty,max=40"`
	DiscountType *string          `json:"discount_type"`
	Value        *decimal.Decimal `json:"value"`
}

// AdminListPromoCodes returns every promo code for the console.
func AdminListPromoCodes(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
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

// AdminCreatePromoCode adds a promo code.
func AdminCreatePromoCode(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var body createPromoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(body.DiscountType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}

		row, err := svc.Create(r.Context(), promo.CreateInput{
			Code:         body.Code,
			DiscountType: discountType,
			Value:        body.Value,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminUpdatePromoCode applies partial changes to a promo code.
func AdminUpdatePromoCode(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "promoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePromoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := promo.UpdateInput{Code: body.Code, Value: body.Value}
		if body.DiscountType != nil {
			discountType, err := enums.ParseDiscountType(*body.DiscountType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
				return
			}
			input.DiscountType = &discountType
		}

		row, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminDeletePromoCode removes a promo code.
func AdminDeletePromoCode(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "promoId")
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
