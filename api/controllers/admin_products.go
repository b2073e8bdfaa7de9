package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rossimission/storefront-backend/api/responses"
	"github.com/rossimission/storefront-backend/api/validators"
	product "github.com/rossimission/storefront-backend/internal/products"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/logger"
	"github.com/rossimission/storefront-backend/pkg/pagination"
)

const maxImportBodyBytes = 5 << 20

type adminProductCreateRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description *string  `json:"description,omitempty"`
	Price       string   `json:"price" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Subcategory *string  `json:"subcategory,omitempty"`
	Artist      *string  `json:"artist,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Sizes       []string `json:"sizes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	StockStatus string   `json:"stock_status,omitempty"`
	IsFeatured  bool     `json:"is_featured,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type adminProductUpdateRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty"`
	Price       *string   `json:"price,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Subcategory *string   `json:"subcategory,omitempty"`
	Artist      *string   `json:"artist,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Sizes       *[]string `json:"sizes,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	StockStatus *string   `json:"stock_status,omitempty"`
	IsFeatured  *bool     `json:"is_featured,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// AdminProductList pages through the full catalog, inactive rows included.
func AdminProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := product.AdminListFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
				return
			}
			filters.Category = &category
		}
		filters.ActiveOnly = r.URL.Query().Get("active_only") == "true"

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.Pagination = pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		page, err := svc.ListAdmin(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminProductCreate adds a product to the catalog.
func AdminProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload adminProductCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		price, err := parsePrice(payload.Price)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		category, err := enums.ParseProductCategory(payload.Category)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
			return
		}

		input := product.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       price,
			Category:    category,
			Subcategory: payload.Subcategory,
			Artist:      payload.Artist,
			ImageURL:    payload.ImageURL,
			Sizes:       payload.Sizes,
			Tags:        payload.Tags,
			IsFeatured:  payload.IsFeatured,
			IsActive:    true,
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}
		if raw := strings.TrimSpace(payload.StockStatus); raw != "" {
			status, err := enums.ParseStockStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown stock status"))
				return
			}
			input.StockStatus = status
		}

		dto, err := svc.CreateProduct(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminProductUpdate applies a partial update to an existing product.
func AdminProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		var payload adminProductUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := product.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Subcategory: payload.Subcategory,
			Artist:      payload.Artist,
			ImageURL:    payload.ImageURL,
			Sizes:       payload.Sizes,
			Tags:        payload.Tags,
			IsFeatured:  payload.IsFeatured,
			IsActive:    payload.IsActive,
		}
		if payload.Price != nil {
			price, err := parsePrice(*payload.Price)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Price = &price
		}
		if payload.Category != nil {
			category, err := enums.ParseProductCategory(*payload.Category)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
				return
			}
			input.Category = &category
		}
		if payload.StockStatus != nil {
			status, err := enums.ParseStockStatus(*payload.StockStatus)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown stock status"))
				return
			}
			input.StockStatus = &status
		}

		dto, err := svc.UpdateProduct(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminProductDelete removes a product from the catalog.
func AdminProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminProductImport loads a CSV of products in one all-or-nothing batch.
// The file is read from the "file" multipart field, or from the raw body
// when the request is not multipart.
func AdminProductImport(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reader, closeFn, err := importReader(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		defer closeFn()

		result, err := svc.ImportCSV(ctx, product.ImportCSVInput{Reader: reader})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func importReader(r *http.Request) (io.Reader, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBodyBytes); err != nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid multipart body")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "csv file is required")
		}
		return file, func() { file.Close() }, nil
	}
	limited := io.LimitReader(r.Body, maxImportBodyBytes)
	return limited, func() {}, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	return price, nil
}
