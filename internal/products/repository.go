package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rossimission/storefront-backend/pkg/db/models"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/pagination"
)

const importBatchSize = 20

// Repository wires together all product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return &product, nil
}

// GetActiveByID loads the product only when it is visible to shoppers.
func (r *Repository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return &product, nil
}

// CreateProduct inserts the product and returns the stored row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return product, nil
}

// CreateProductsInBatches inserts the given products in fixed-size batches.
func (r *Repository) CreateProductsInBatches(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(products, importBatchSize).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import products")
	}
	return nil
}

// UpdateProduct saves the full product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return product, nil
}

// DeleteProduct removes the product row entirely.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "delete product")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// PublicListFilters describe the storefront browse knobs.
type PublicListFilters struct {
	Category *enums.ProductCategory
	Featured *bool
	Limit    int
}

const defaultPublicLimit = 100

// ListPublic returns active products for the storefront, featured items
// first, newest within each group.
func (r *Repository) ListPublic(ctx context.Context, filters PublicListFilters) ([]models.Product, error) {
	limit := filters.Limit
	if limit <= 0 || limit > defaultPublicLimit {
		limit = defaultPublicLimit
	}

	qb := r.db.WithContext(ctx).
		Where("is_active = ?", true)
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.Featured != nil {
		qb = qb.Where("is_featured = ?", *filters.Featured)
	}

	var products []models.Product
	err := qb.Order("is_featured DESC").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return products, nil
}

// AdminListFilters describe the admin catalog browse knobs. Inactive rows
// are included unless ActiveOnly is set.
type AdminListFilters struct {
	Category   *enums.ProductCategory
	Query      string
	ActiveOnly bool
	Pagination pagination.Params
}

// AdminListResult is one page of the admin catalog plus the cursor for
// the next page.
type AdminListResult struct {
	Products   []models.Product
	NextCursor string
}

// ListAdmin pages through the full catalog with a keyset cursor.
func (r *Repository) ListAdmin(ctx context.Context, filters AdminListFilters) (*AdminListResult, error) {
	pageSize := pagination.NormalizeLimit(filters.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filters.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(filters.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.ActiveOnly {
		qb = qb.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(artist) LIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	nextCursor := ""
	if len(products) > pageSize {
		products = products[:pageSize]
		last := products[len(products)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &AdminListResult{Products: products, NextCursor: nextCursor}, nil
}
