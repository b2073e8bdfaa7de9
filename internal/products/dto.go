package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/rossimission/storefront-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Subcategory *string   `json:"subcategory,omitempty"`
	Artist      *string   `json:"artist,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Sizes       []string  `json:"sizes"`
	Tags        []string  `json:"tags"`
	StockStatus string    `json:"stock_status"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListDTO is one page of catalog rows.
type ProductListDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toDTO(product *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Category:    product.Category.String(),
		Subcategory: product.Subcategory,
		Artist:      product.Artist,
		ImageURL:    product.ImageURL,
		Sizes:       append([]string{}, product.Sizes...),
		Tags:        append([]string{}, product.Tags...),
		StockStatus: product.StockStatus.String(),
		IsFeatured:  product.IsFeatured,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	return dto
}

func toDTOList(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, toDTO(&products[i]))
	}
	return out
}
