package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rossimission/storefront-backend/api/middleware"
	cartsvc "github.com/rossimission/storefront-backend/internal/cart"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

type stubCartService struct {
	view    *cartsvc.View
	err     error
	lastKey string
}

func (s *stubCartService) GetCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, sessionID string, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, sessionID string, input cartsvc.UpdateQuantityInput) (*cartsvc.View, error) {
	s.lastKey = input.LineKey
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, sessionID, lineKey string) (*cartsvc.View, error) {
	s.lastKey = lineKey
	return s.view, s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, sessionID string) (*cartsvc.View, error) {
	return s.view, s.err
}

func withCartSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithCartSession(req.Context(), "sess-1"))
}

func TestCartGetSuccess(t *testing.T) {
	view := &cartsvc.View{ItemCount: 2, Total: "59.98"}
	handler := CartGet(&stubCartService{view: view}, nil)

	req := withCartSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != "59.98" {
		t.Fatalf("unexpected total: %s", envelope.Data.Total)
	}
}

func TestCartGetMissingSession(t *testing.T) {
	handler := CartGet(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartAddItemCreated(t *testing.T) {
	view := &cartsvc.View{ItemCount: 1, Total: "35.00"}
	handler := CartAddItem(&stubCartService{view: view}, nil)

	body := `{"product_id":"7b0d1f6e-4f9a-4f39-9d3f-5a1b2c3d4e5f","quantity":1}`
	req := withCartSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsUnknownFields(t *testing.T) {
	handler := CartAddItem(&stubCartService{}, nil)

	body := `{"product_id":"7b0d1f6e-4f9a-4f39-9d3f-5a1b2c3d4e5f","quantity":1,"price":"0.01"}`
	req := withCartSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemNotFound(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "line not found")}
	handler := CartUpdateItem(svc, nil)

	body := `{"quantity":3}`
	req := withCartSession(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/abc-default", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartClearSuccess(t *testing.T) {
	handler := CartClear(&stubCartService{view: &cartsvc.View{Total: "0"}}, nil)

	req := withCartSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
