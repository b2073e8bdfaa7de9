package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rossimission/storefront-backend/pkg/db/models"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 5000
)

var maxPrice = decimal.RequireFromString("100000")

// Service exposes catalog read and admin management operations.
type Service interface {
	ListPublic(ctx context.Context, filters PublicListFilters) ([]ProductDTO, error)
	GetPublicProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAdmin(ctx context.Context, filters AdminListFilters) (*ProductListDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	ImportCSV(ctx context.Context, input ImportCSVInput) (*ImportResultDTO, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	CreateProductsInBatches(ctx context.Context, products []*models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListPublic(ctx context.Context, filters PublicListFilters) ([]models.Product, error)
	ListAdmin(ctx context.Context, filters AdminListFilters) (*AdminListResult, error)
}

type service struct {
	repo repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    enums.ProductCategory
	Subcategory *string
	Artist      *string
	ImageURL    *string
	Sizes       []string
	Tags        []string
	StockStatus enums.StockStatus
	IsFeatured  bool
	IsActive    bool
}

// UpdateProductInput holds optional mutation values for a product. Nil
// fields keep the stored value.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *enums.ProductCategory
	Subcategory *string
	Artist      *string
	ImageURL    *string
	Sizes       *[]string
	Tags        *[]string
	StockStatus *enums.StockStatus
	IsFeatured  *bool
	IsActive    *bool
}

// ListPublic returns the active storefront catalog.
func (s *service) ListPublic(ctx context.Context, filters PublicListFilters) ([]ProductDTO, error) {
	products, err := s.repo.ListPublic(ctx, filters)
	if err != nil {
		return nil, err
	}
	return toDTOList(products), nil
}

// GetPublicProduct returns a single active product.
func (s *service) GetPublicProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(product)
	return &dto, nil
}

// GetActiveByID exposes the raw active product row for internal callers.
func (s *service) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.GetActiveByID(ctx, id)
}

// ListAdmin pages through the full catalog for the admin dashboard.
func (s *service) ListAdmin(ctx context.Context, filters AdminListFilters) (*ProductListDTO, error) {
	result, err := s.repo.ListAdmin(ctx, filters)
	if err != nil {
		return nil, err
	}
	return &ProductListDTO{
		Products:   toDTOList(result.Products),
		NextCursor: result.NextCursor,
	}, nil
}

// CreateProduct validates and persists a new catalog row.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Artist:      input.Artist,
		ImageURL:    input.ImageURL,
		Sizes:       normalizeList(input.Sizes),
		Tags:        normalizeList(input.Tags),
		StockStatus: input.StockStatus,
		IsFeatured:  input.IsFeatured,
		IsActive:    input.IsActive,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	dto := toDTO(created)
	return &dto, nil
}

// UpdateProduct applies the provided mutations to an existing row.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		if len(*input.Description) > maxDescriptionLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is too long")
		}
		product.Description = input.Description
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
		}
		product.Category = *input.Category
	}
	if input.Subcategory != nil {
		product.Subcategory = input.Subcategory
	}
	if input.Artist != nil {
		product.Artist = input.Artist
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Sizes != nil {
		product.Sizes = normalizeList(*input.Sizes)
	}
	if input.Tags != nil {
		product.Tags = normalizeList(*input.Tags)
	}
	if input.StockStatus != nil {
		if !input.StockStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status")
		}
		product.StockStatus = *input.StockStatus
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	dto := toDTO(updated)
	return &dto, nil
}

// DeleteProduct removes the product from the catalog.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, productID)
}

func validateCreateInput(input *CreateProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if len(input.Name) > maxNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is too long")
	}
	if input.Description != nil && len(*input.Description) > maxDescriptionLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is too long")
	}
	if err := validatePrice(input.Price); err != nil {
		return err
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if input.StockStatus == "" {
		input.StockStatus = enums.StockStatusInStock
	}
	if !input.StockStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if price.GreaterThan(maxPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price is too large")
	}
	return nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
