package product

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/rossimission/storefront-backend/pkg/db/models"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

const (
	maxImportRows = 1000

	// Multi-value columns (sizes, tags) use a pipe so commas stay free
	// for the CSV itself.
	multiValueSeparator = "|"
)

var requiredImportColumns = []string{"name", "price", "category"}

// ImportCSVInput carries the raw CSV stream for a bulk import.
type ImportCSVInput struct {
	Reader io.Reader
}

// ImportResultDTO summarizes a successful bulk import.
type ImportResultDTO struct {
	Imported int `json:"imported"`
}

// ImportCSV parses and validates the whole file, then inserts every row.
// Any invalid row rejects the entire file so a partial catalog never
// lands.
func (s *service) ImportCSV(ctx context.Context, input ImportCSVInput) (*ImportResultDTO, error) {
	if input.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv file is required")
	}

	products, err := parseImportCSV(input.Reader)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateProductsInBatches(ctx, products); err != nil {
		return nil, err
	}
	return &ImportResultDTO{Imported: len(products)}, nil
}

func parseImportCSV(r io.Reader) ([]*models.Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv file is empty")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv header")
	}

	columns, err := mapImportColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		products []*models.Product
		rowErrs  error
		rowNum   = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}
		if len(products) >= maxImportRows {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("csv exceeds the %d row limit", maxImportRows))
		}

		product, err := parseImportRow(columns, record)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}
		products = append(products, product)
	}

	if rowErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, rowErrs, "csv contains invalid rows").
			WithDetails(importErrorDetails(rowErrs))
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv contains no product rows")
	}
	return products, nil
}

func mapImportColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredImportColumns {
		if _, ok := columns[required]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("csv is missing the %q column", required))
		}
	}
	return columns, nil
}

func parseImportRow(columns map[string]int, record []string) (*models.Product, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	optional := func(name string) *string {
		if value := field(name); value != "" {
			return &value
		}
		return nil
	}

	name := field("name")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(name) > maxNameLength {
		return nil, fmt.Errorf("name is too long")
	}

	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", field("price"))
	}
	if err := validatePrice(price); err != nil {
		return nil, fmt.Errorf("invalid price %q", field("price"))
	}

	category, err := enums.ParseProductCategory(field("category"))
	if err != nil {
		return nil, fmt.Errorf("invalid category %q", field("category"))
	}

	stockStatus := enums.StockStatusInStock
	if raw := field("stock_status"); raw != "" {
		stockStatus, err = enums.ParseStockStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stock_status %q", raw)
		}
	}

	isFeatured, err := parseOptionalBool(field("is_featured"), false)
	if err != nil {
		return nil, fmt.Errorf("invalid is_featured %q", field("is_featured"))
	}
	isActive, err := parseOptionalBool(field("is_active"), true)
	if err != nil {
		return nil, fmt.Errorf("invalid is_active %q", field("is_active"))
	}

	return &models.Product{
		Name:        name,
		Description: optional("description"),
		Price:       price,
		Category:    category,
		Subcategory: optional("subcategory"),
		Artist:      optional("artist"),
		ImageURL:    optional("image_url"),
		Sizes:       splitMultiValue(field("sizes")),
		Tags:        splitMultiValue(field("tags")),
		StockStatus: stockStatus,
		IsFeatured:  isFeatured,
		IsActive:    isActive,
	}, nil
}

func parseOptionalBool(value string, fallback bool) (bool, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(strings.ToLower(value))
}

func splitMultiValue(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, multiValueSeparator)
	return normalizeList(parts)
}

func importErrorDetails(err error) []string {
	errs := multierr.Errors(err)
	details := make([]string, 0, len(errs))
	for _, e := range errs {
		details = append(details, e.Error())
	}
	return details
}
