package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/rossimission/storefront-backend/pkg/enums"
)

// Product represents a catalog listing shown on the storefront.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description *string               `gorm:"column:description"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Subcategory *string               `gorm:"column:subcategory"`
	Artist      *string               `gorm:"column:artist"`
	ImageURL    *string               `gorm:"column:image_url"`
	Sizes       pq.StringArray        `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Tags        pq.StringArray        `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	StockStatus enums.StockStatus     `gorm:"column:stock_status;type:text;not null;default:in_stock"`
	IsFeatured  bool                  `gorm:"column:is_featured;not null;default:false"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
