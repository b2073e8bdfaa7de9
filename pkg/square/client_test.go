package square

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	sq "github.com/square/square-go-sdk"
	sqcore "github.com/square/square-go-sdk/core"

	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

func TestEnsureIdempotencyKey(t *testing.T) {
	c := &Client{}
	// Provided key should be used verbatim.
	if got := c.ensureIdempotencyKey("pref", "custom-key"); got != "custom-key" {
		t.Fatalf("expected provided key, got %q", got)
	}
	// Empty key should be generated and include prefix.
	if got := c.ensureIdempotencyKey("prefix", ""); !strings.HasPrefix(got, "prefix-") {
		t.Fatalf("generated idempotency key %q missing prefix", got)
	}
}

func TestRedact(t *testing.T) {
	c := &Client{}
	out := c.redact("payment_token", "abc123")
	if out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	// Non-sensitive keys should be preserved.
	if v := c.redact("status", "ok"); v != "ok" {
		t.Fatalf("unexpected redaction for safe key")
	}
}

func TestDomainCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnprocessableEntity, pkgerrors.CodePayment},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		if got := domainCodeForStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestMapSquareError(t *testing.T) {
	c := &Client{}
	table := []struct {
		name     string
		status   int
		payload  string
		wantCode pkgerrors.Code
	}{
		{
			name:     "authentication error",
			status:   http.StatusUnauthorized,
			payload:  `{"errors":[{"category":"AUTHENTICATION_ERROR","code":"UNAUTHORIZED"}]}`,
			wantCode: pkgerrors.CodeUnauthorized,
		},
		{
			name:     "idempotency key reused",
			status:   http.StatusConflict,
			payload:  `{"errors":[{"category":"API_ERROR","code":"IDEMPOTENCY_KEY_REUSED"}]}`,
			wantCode: pkgerrors.CodeIdempotency,
		},
		{
			name:     "payment method rejected",
			status:   http.StatusBadRequest,
			payload:  `{"errors":[{"category":"PAYMENT_METHOD_ERROR","code":"CARD_DECLINED"}]}`,
			wantCode: pkgerrors.CodePayment,
		},
	}
	for _, tt := range table {
		err := sqcore.NewAPIError(tt.status, errors.New(tt.payload))
		mapped := c.mapSquareError(err, "operation")
		if mapped == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		typed := pkgerrors.As(mapped)
		if typed == nil {
			t.Fatalf("%s: result is not pkgerror", tt.name)
		}
		if typed.Code() != tt.wantCode {
			t.Fatalf("%s: expected code %s, got %s", tt.name, tt.wantCode, typed.Code())
		}
	}
}

func TestExtractSquareErrors(t *testing.T) {
	c := &Client{}
	payload := `{"errors":[{"category":"API_ERROR","code":"BAD_REQUEST","detail":"oops"}]}`
	apiErr := sqcore.NewAPIError(http.StatusBadRequest, errors.New(payload))
	got := c.extractSquareErrors(apiErr)
	if len(got) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got))
	}
	if got[0].GetCode() != sq.ErrorCodeBadRequest {
		t.Fatalf("unexpected error code %s", got[0].GetCode())
	}
}

func TestPaymentLinkRequestShape(t *testing.T) {
	params := PaymentLinkCreateParams{
		LocationID: "LOC123",
		Lines: []PaymentLinkLine{
			{Name: "Mission Hoodie (L)", Quantity: 2, AmountCents: 6500, Currency: "USD"},
		},
		RedirectURL:           "https://rossimissionsf.com/checkout/complete",
		AskForShippingAddress: true,
	}

	req := params.toSquareRequest("key-1")
	if req.Order == nil || req.Order.LocationID != "LOC123" {
		t.Fatal("order location not set")
	}
	if len(req.Order.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(req.Order.LineItems))
	}
	item := req.Order.LineItems[0]
	if item.Quantity != "2" {
		t.Fatalf("quantity should serialize as string, got %q", item.Quantity)
	}
	if item.BasePriceMoney == nil || *item.BasePriceMoney.Amount != 6500 {
		t.Fatal("base price money not set")
	}
	if req.CheckoutOptions == nil || req.CheckoutOptions.RedirectURL == nil {
		t.Fatal("checkout options missing redirect")
	}
	if req.CheckoutOptions.AskForShippingAddress == nil || !*req.CheckoutOptions.AskForShippingAddress {
		t.Fatal("shipping address prompt not enabled")
	}
	if req.IdempotencyKey == nil || *req.IdempotencyKey != "key-1" {
		t.Fatal("idempotency key not preserved")
	}
}

func TestPaymentLinkRequestKeepsZeroPricedLines(t *testing.T) {
	params := PaymentLinkCreateParams{
		LocationID: "LOC123",
		Lines: []PaymentLinkLine{
			{Name: "Sticker Pack", Quantity: 1, AmountCents: 0, Currency: "USD"},
		},
	}

	req := params.toSquareRequest("key-2")
	item := req.Order.LineItems[0]
	if item.BasePriceMoney == nil {
		t.Fatal("zero-priced line dropped its base price money")
	}
	if *item.BasePriceMoney.Amount != 0 {
		t.Fatalf("expected 0 cents, got %d", *item.BasePriceMoney.Amount)
	}
}
