package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rossimission/storefront-backend/api/responses"
	"github.com/rossimission/storefront-backend/api/validators"
	product "github.com/rossimission/storefront-backend/internal/products"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/logger"
)

// ProductList returns the active storefront catalog, optionally filtered
// by category or featured flag.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := product.PublicListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
				return
			}
			filters.Category = &category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
			featured, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "featured must be a boolean"))
				return
			}
			filters.Featured = &featured
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.Limit = limit

		items, err := svc.ListPublic(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product.ProductListDTO{Products: items})
	}
}

// ProductGet returns a single active product by id.
func ProductGet(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		dto, err := svc.GetPublicProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
