package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/api/responses"
	"github.com/rekhigroup/livplus-backend/api/validators"
	product "github.com/rekhigroup/livplus-backend/internal/products"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/pagination"
	"github.com/rekhigroup/livplus-backend/pkg/types"
)

type createProductRequest struct {
	Name                 string              `json:"name" validate:"required,max=200"`
	Slug                 string              `json:"slug" validate:"omitempty,max=200"`
	Category             string              `json:"category" validate:"required,max=100"`
	SubCategory          string              `json:"sub_category" validate:"omitempty,max=100"`
	ShortDescription     string              `json:"short_description" validate:"required,max=500"`
	LongDescription      string              `json:"long_description" validate:"omitempty,max=10000"`
	Price                decimal.Decimal     `json:"price" validate:"required"`
	OriginalPrice        *decimal.Decimal    `json:"original_price,omitempty"`
	Ingredients          []string            `json:"ingredients" validate:"omitempty,dive,max=200"`
	Benefits             []string            `json:"benefits" validate:"omitempty,dive,max=200"`
	Treats               []string            `json:"treats" validate:"omitempty,dive,max=200"`
	Uses                 string              `json:"uses" validate:"omitempty,max=5000"`
	ManufacturingDetails string              `json:"manufacturing_details" validate:"omitempty,max=5000"`
	Images               types.ProductImages `json:"images"`
	Stock                int                 `json:"stock" validate:"min=0"`
}

type updateProductRequest struct {
	Name                 *string              `json:"name" validate:"omitempty,max=200"`
	Category             *string              `json:"category" validate:"omitempty,max=100"`
	SubCategory          *string              `json:"sub_category" validate:"omitempty,max=100"`
	ShortDescription     *string              `json:"short_description" validate:"omitempty,max=500"`
	LongDescription      *string              `json:"long_description" validate:"omitempty,max=10000"`
	Price                *decimal.Decimal     `json:"price"`
	OriginalPrice        *decimal.Decimal     `json:"original_price"`
	Ingredients          *[]string            `json:"ingredients"`
	Benefits             *[]string            `json:"benefits"`
	Treats               *[]string            `json:"treats"`
	Uses                 *string              `json:"uses" validate:"omitempty,max=5000"`
	ManufacturingDetails *string              `json:"manufacturing_details" validate:"omitempty,max=5000"`
	Images               *types.ProductImages `json:"images"`
	Stock                *int                 `json:"stock" validate:"omitempty,min=0"`
}

type productPromoRequest struct {
	Code string `json:"code" validate:"required,max=40"`
}

// AdminListProducts returns one keyset page of the catalog for the console.
func AdminListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
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

		responses.WriteSuccess(w, buildPage(rows, params.Limit, func(row models.Product) pagination.Cursor {
			return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
		}))
	}
}

// AdminCreateProduct adds a catalog listing.
func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), product.CreateProductInput{
			Name:                 validators.SanitizeString(body.Name, 200),
			Slug:                 validators.SanitizeString(body.Slug, 200),
			Category:             validators.SanitizeString(body.Category, 100),
			SubCategory:          validators.SanitizeString(body.SubCategory, 100),
			ShortDescription:     validators.SanitizeString(body.ShortDescription, 500),
			LongDescription:      body.LongDescription,
			Price:                body.Price,
			OriginalPrice:        body.OriginalPrice,
			Ingredients:          body.Ingredients,
			Benefits:             body.Benefits,
			Treats:               body.Treats,
			Uses:                 body.Uses,
			ManufacturingDetails: body.ManufacturingDetails,
			Images:               body.Images,
			Stock:                body.Stock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminGetProduct returns one product by id.
func AdminGetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminUpdateProduct applies partial changes to a product.
func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), id, product.UpdateProductInput{
			Name:                 body.Name,
			Category:             body.Category,
			SubCategory:          body.SubCategory,
			ShortDescription:     body.ShortDescription,
			LongDescription:      body.LongDescription,
			Price:                body.Price,
			OriginalPrice:        body.OriginalPrice,
			Ingredients:          body.Ingredients,
			Benefits:             body.Benefits,
			Treats:               body.Treats,
			Uses:                 body.Uses,
			ManufacturingDetails: body.ManufacturingDetails,
			Images:               body.Images,
			Stock:                body.Stock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, row)
	}
}

// AdminDeleteProduct removes a product and its reviews.
func AdminDeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
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

// AdminAttachPromoCode marks a product eligible for a promo code.
func AdminAttachPromoCode(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productPromoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AttachPromoCode(r.Context(), id, body.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "attached"})
	}
}

// AdminDetachPromoCode removes a product's promo code eligibility.
func AdminDetachPromoCode(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productPromoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DetachPromoCode(r.Context(), id, body.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "detached"})
	}
}
