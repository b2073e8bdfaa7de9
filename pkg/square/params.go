package square

import (
	"strconv"
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// PaymentLinkLine describes a single order line on the hosted checkout page.
type PaymentLinkLine struct {
	Name        string
	Quantity    int64
	AmountCents int64
	Currency    string
}

// PaymentLinkCreateParams contains the fields required to build a Square payment link.
type PaymentLinkCreateParams struct {
	LocationID            string
	Lines                 []PaymentLinkLine
	RedirectURL           string
	AskForShippingAddress bool
	IdempotencyKey        string
}

func (p PaymentLinkCreateParams) toSquareRequest(idempotencyKey string) *sqcheckout.CreatePaymentLinkRequest {
	lineItems := make([]*sq.OrderLineItem, 0, len(p.Lines))
	for _, line := range p.Lines {
		lineItems = append(lineItems, &sq.OrderLineItem{
			Name:           ptrString(line.Name),
			Quantity:       strconv.FormatInt(line.Quantity, 10),
			BasePriceMoney: moneyPtr(line.AmountCents, line.Currency),
		})
	}

	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		Order: &sq.Order{
			LocationID: p.LocationID,
			LineItems:  lineItems,
		},
	}

	options := &sq.CheckoutOptions{}
	hasOptions := false
	if trimmed := strings.TrimSpace(p.RedirectURL); trimmed != "" {
		options.RedirectURL = ptrString(trimmed)
		hasOptions = true
	}
	if p.AskForShippingAddress {
		options.AskForShippingAddress = boolPtr(true)
		hasOptions = true
	}
	if hasOptions {
		req.CheckoutOptions = options
	}

	return req
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		trimmed = "USD"
	}
	c := sq.Currency(trimmed)
	return &c
}

func moneyPtr(amount int64, currency string) *sq.Money {
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
