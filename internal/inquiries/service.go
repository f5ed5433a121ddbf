package inquiry

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
)

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CreateInput holds the validated payload for a storefront inquiry.
type CreateInput struct {
	ProductID uuid.UUID
	Name      string
	Email     string
	Message   string
}

// Service records product questions from the storefront contact form and
// lists them for the admin console.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Inquiry, error)
	List(ctx context.Context) ([]models.Inquiry, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Inquiry, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService constructs an inquiry service instance.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inquiry repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Inquiry, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	// surfacing the catalog 404 here keeps dead product links from
	// collecting inquiries nobody can answer
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	row := &models.Inquiry{
		ID:        uuid.New(),
		ProductID: input.ProductID,
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Message:   strings.TrimSpace(input.Message),
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving inquiry")
	}
	return row, nil
}

func (s *service) List(ctx context.Context) ([]models.Inquiry, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing inquiries")
	}
	return rows, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Inquiry, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing inquiries")
	}
	return rows, nil
}
