package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/pkg/apperror"
)

// ProductService exposes the menu used to build orders
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ModifierInput represents a modifier offered with a product
type ModifierInput struct {
	Name  string
	Price decimal.Decimal
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name      string
	Category  string
	Price     decimal.Decimal
	Modifiers []ModifierInput
}

// CreateProduct adds a product to the menu
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if input.Price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price must not be negative"})
	}
	for _, m := range input.Modifiers {
		if m.Price.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "modifiers", Message: "Modifier price must not be negative"})
			break
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product := &entity.Product{
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Price:       input.Price,
		IsAvailable: true,
	}
	for _, m := range input.Modifiers {
		product.Modifiers = append(product.Modifiers, entity.ProductModifier{Name: m.Name, Price: m.Price})
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts returns the full menu
func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.List(ctx)
}
