// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/abgdnv/catalog/internal/product/store"
	"github.com/go-playground/validator/v10"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates and adds a new product, assigning it the next ID.
	// Returns ErrInvalidProduct if a required field is missing and
	// ErrDuplicateCode if the code is already used.
	Create(ctx context.Context, product *ProductCreateDto) (*ProductDto, error)

	// Update merges the supplied fields into an existing product. The ID never changes.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, patch ProductPatchDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		validate:   newValidator(),
		logger:     logger.With("component", "service"),
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// `required` rejects zero values, so a price or stock of 0 counts as missing.
type ProductCreateDto struct {
	Title       string           `json:"title"       validate:"required"`
	Description string           `json:"description" validate:"required"`
	Code        string           `json:"code"        validate:"required"`
	Price       float64          `json:"price"       validate:"required"`
	Stock       int32            `json:"stock"       validate:"required"`
	Thumbnails  store.Thumbnails `json:"thumbnails"  validate:"required"`
}

// ProductPatchDto represents a partial update. Nil fields are left unchanged.
// An "id" key in the JSON input is ignored.
type ProductPatchDto struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Code        *string           `json:"code,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Stock       *int32            `json:"stock,omitempty"`
	Thumbnails  *store.Thumbnails `json:"thumbnails,omitempty"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Code        string           `json:"code"`
	Price       float64          `json:"price"`
	Stock       int32            `json:"stock"`
	Thumbnails  store.Thumbnails `json:"thumbnails"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, "find", id, err)
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	s.logger.DebugContext(ctx, "Product found", "ID", product.ID, "code", product.Code)
	return toDto(product), nil
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error fetching products", "error", err)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	s.logger.DebugContext(ctx, "Products listed", "count", len(productDTOs))
	return productDTOs, nil
}

// Create validates the product, stores it and returns it as a ProductDto with its new ID.
// Returns ErrInvalidProduct if validation fails and ErrDuplicateCode if the code is taken.
func (s *Service) Create(ctx context.Context, product *ProductCreateDto) (*ProductDto, error) {
	if err := s.validateCreate(product); err != nil {
		s.logger.WarnContext(ctx, "Product rejected", "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created, err := s.repository.Create(ctx, store.Product{
		Title:       product.Title,
		Description: product.Description,
		Code:        product.Code,
		Price:       product.Price,
		Stock:       product.Stock,
		Thumbnails:  product.Thumbnails,
	})
	if err != nil {
		if errors.Is(err, perrors.ErrDuplicateCode) {
			s.logger.WarnContext(ctx, "Product code must be unique", "code", product.Code)
		} else {
			s.logger.ErrorContext(ctx, "Error creating product", "code", product.Code, "error", err)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.InfoContext(ctx, "Product created", "ID", created.ID, "code", created.Code)
	return toDto(created), nil
}

// Update merges the patch into the product with the given ID and returns the result.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, patch ProductPatchDto) (*ProductDto, error) {
	updated, err := s.repository.Update(ctx, id, store.Patch{
		Title:       patch.Title,
		Description: patch.Description,
		Code:        patch.Code,
		Price:       patch.Price,
		Stock:       patch.Stock,
		Thumbnails:  patch.Thumbnails,
	})
	if err != nil {
		s.logFailure(ctx, "update", id, err)
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Product updated", "ID", updated.ID, "code", updated.Code)
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		s.logFailure(ctx, "delete", id, err)
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Product deleted", "ID", id)
	return nil
}

// logFailure logs expected outcomes (not found, duplicate code) as warnings and everything else as errors.
func (s *Service) logFailure(ctx context.Context, op string, id int64, err error) {
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		s.logger.WarnContext(ctx, "Product not found", "operation", op, "ID", id)
	case errors.Is(err, perrors.ErrDuplicateCode):
		s.logger.WarnContext(ctx, "Product code must be unique", "operation", op, "ID", id)
	default:
		s.logger.ErrorContext(ctx, "Product operation failed", "operation", op, "ID", id, "error", err)
	}
}

// validateCreate checks the required fields and converts validator errors to a ValidationError.
func (s *Service) validateCreate(product *ProductCreateDto) error {
	if product == nil {
		return &perrors.ValidationError{Fields: map[string]string{"product": "required"}}
	}
	if err := s.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string, len(validationErrors))
			for _, fieldErr := range validationErrors {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
			return &perrors.ValidationError{Fields: fields}
		}
		return fmt.Errorf("%w: %w", perrors.ErrInvalidProduct, err)
	}
	return nil
}

// newValidator returns a validator that understands store.Thumbnails:
// a single reference is validated as a string and a list as a slice, so an
// empty string is missing while an empty list is present.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		thumbs, ok := field.Interface().(store.Thumbnails)
		if !ok {
			return nil
		}
		refs := thumbs.Refs()
		if thumbs.IsSingle() {
			return refs[0]
		}
		return refs
	}, store.Thumbnails{})
	return v
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Code:        product.Code,
		Price:       product.Price,
		Stock:       product.Stock,
		Thumbnails:  product.Thumbnails,
	}
}
