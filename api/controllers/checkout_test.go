package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rossimission/storefront-backend/internal/checkout"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

type stubCheckoutService struct {
	dto       *checkout.CheckoutDTO
	err       error
	completed []string
}

func (s *stubCheckoutService) StartCheckout(ctx context.Context, sessionID string) (*checkout.CheckoutDTO, error) {
	return s.dto, s.err
}

func (s *stubCheckoutService) CompleteCheckout(ctx context.Context, sessionID string) error {
	s.completed = append(s.completed, sessionID)
	return s.err
}

func TestCheckoutStartReturnsPaymentLink(t *testing.T) {
	svc := &stubCheckoutService{dto: &checkout.CheckoutDTO{
		CheckoutURL: "https://square.link/u/abc",
		OrderID:     "order-1",
		Total:       "54.99",
		ItemCount:   2,
	}}
	handler := CheckoutStart(svc, nil)

	req := withCartSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data checkout.CheckoutDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CheckoutURL != "https://square.link/u/abc" {
		t.Fatalf("unexpected url: %s", envelope.Data.CheckoutURL)
	}
}

func TestCheckoutStartEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := CheckoutStart(svc, nil)

	req := withCartSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutStartConflict(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "a checkout for this cart is already in progress")}
	handler := CheckoutStart(svc, nil)

	req := withCartSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCheckoutCompleteClearsCart(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := CheckoutComplete(svc, nil)

	req := withCartSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/complete", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.completed) != 1 || svc.completed[0] != "sess-1" {
		t.Fatalf("unexpected completions: %v", svc.completed)
	}
}
