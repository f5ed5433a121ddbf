package product

import (
	"github.com/shopspring/decimal"

	"github.com/rekhigroup/livplus-backend/pkg/types"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name                 string
	Slug                 string
	Category             string
	SubCategory          string
	ShortDescription     string
	LongDescription      string
	Price                decimal.Decimal
	OriginalPrice        *decimal.Decimal
	Ingredients          []string
	Benefits             []string
	Treats               []string
	Uses                 string
	ManufacturingDetails string
	Images               types.ProductImages
	Stock                int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name                 *string
	Category             *string
	SubCategory          *string
	ShortDescription     *string
	LongDescription      *string
	Price                *decimal.Decimal
	OriginalPrice        *decimal.Decimal
	Ingredients          *[]string
	Benefits             *[]string
	Treats               *[]string
	Uses                 *string
	ManufacturingDetails *string
	Images               *types.ProductImages
	Stock                *int
}

// ReviewInput captures a storefront review submission.
type ReviewInput struct {
	Author string
	Rating int
	Text   string
}
