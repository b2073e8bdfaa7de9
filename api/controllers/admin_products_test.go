package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	product "github.com/rossimission/storefront-backend/internal/products"
)

type recordingProductService struct {
	stubProductService
	lastCreate product.CreateProductInput
	lastUpdate product.UpdateProductInput
	lastCSV    string
}

func (s *recordingProductService) CreateProduct(ctx context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
	s.lastCreate = input
	return s.dto, s.err
}

func (s *recordingProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	s.lastUpdate = input
	return s.dto, s.err
}

func (s *recordingProductService) ImportCSV(ctx context.Context, input product.ImportCSVInput) (*product.ImportResultDTO, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(input.Reader); err != nil {
		return nil, err
	}
	s.lastCSV = buf.String()
	return s.importRes, s.err
}

func TestAdminProductCreateParsesPayload(t *testing.T) {
	svc := &recordingProductService{}
	svc.dto = &product.ProductDTO{ID: uuid.New(), Name: "Alley Print"}
	handler := AdminProductCreate(svc, nil)

	body := `{"name":"Alley Print","price":"45.00","category":"art","sizes":["18x24"],"is_featured":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastCreate.Name != "Alley Print" {
		t.Fatalf("unexpected name: %s", svc.lastCreate.Name)
	}
	if svc.lastCreate.Price.StringFixed(2) != "45.00" {
		t.Fatalf("unexpected price: %s", svc.lastCreate.Price)
	}
	if svc.lastCreate.Category.String() != "art" {
		t.Fatalf("unexpected category: %s", svc.lastCreate.Category)
	}
	if !svc.lastCreate.IsActive {
		t.Fatal("expected products to default to active")
	}
	if !svc.lastCreate.IsFeatured {
		t.Fatal("expected featured flag to carry through")
	}
}

func TestAdminProductCreateInvalidPrice(t *testing.T) {
	handler := AdminProductCreate(&recordingProductService{}, nil)

	body := `{"name":"Alley Print","price":"forty five","category":"art"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminProductUpdatePartial(t *testing.T) {
	svc := &recordingProductService{}
	svc.dto = &product.ProductDTO{ID: uuid.New()}
	handler := AdminProductUpdate(svc, nil)

	id := uuid.New()
	body := `{"price":"19.99","stock_status":"low_stock"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/products/"+id.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("productID", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUpdate.Name != nil {
		t.Fatal("expected name to stay unset")
	}
	if svc.lastUpdate.Price == nil || svc.lastUpdate.Price.StringFixed(2) != "19.99" {
		t.Fatalf("unexpected price: %+v", svc.lastUpdate.Price)
	}
	if svc.lastUpdate.StockStatus == nil || svc.lastUpdate.StockStatus.String() != "low_stock" {
		t.Fatalf("unexpected stock status: %+v", svc.lastUpdate.StockStatus)
	}
}

func TestAdminProductListPassesPagination(t *testing.T) {
	svc := &recordingProductService{}
	svc.page = &product.ProductListDTO{NextCursor: "abc"}
	handler := AdminProductList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products?limit=5&cursor=xyz&q=tee&active_only=true", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAdmin.Pagination.Limit != 5 || svc.lastAdmin.Pagination.Cursor != "xyz" {
		t.Fatalf("unexpected pagination: %+v", svc.lastAdmin.Pagination)
	}
	if svc.lastAdmin.Query != "tee" || !svc.lastAdmin.ActiveOnly {
		t.Fatalf("unexpected filters: %+v", svc.lastAdmin)
	}

	var envelope struct {
		Data product.ProductListDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.NextCursor != "abc" {
		t.Fatalf("unexpected cursor: %s", envelope.Data.NextCursor)
	}
}

func TestAdminProductImportMultipart(t *testing.T) {
	svc := &recordingProductService{}
	svc.importRes = &product.ImportResultDTO{Imported: 2}
	handler := AdminProductImport(svc, nil)

	csv := "name,price,category\nTee,35.00,clothing\nPrint,45.00,art\n"
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastCSV != csv {
		t.Fatalf("csv did not pass through: %q", svc.lastCSV)
	}
}

func TestAdminProductImportRawBody(t *testing.T) {
	svc := &recordingProductService{}
	svc.importRes = &product.ImportResultDTO{Imported: 1}
	handler := AdminProductImport(svc, nil)

	csv := "name,price,category\nTee,35.00,clothing\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastCSV != csv {
		t.Fatalf("csv did not pass through: %q", svc.lastCSV)
	}
}

func TestAdminProductDeleteInvalidID(t *testing.T) {
	handler := AdminProductDelete(&recordingProductService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/nope", nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("productID", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
