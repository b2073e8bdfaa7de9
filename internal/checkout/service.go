package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rossimission/storefront-backend/internal/cart"
	"github.com/rossimission/storefront-backend/pkg/config"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/logger"
	"github.com/rossimission/storefront-backend/pkg/square"
)

const defaultInFlightTTL = 30 * time.Second

var centsPerDollar = decimal.NewFromInt(100)

// linkCreator is the slice of the Square client checkout needs.
type linkCreator interface {
	CreatePaymentLink(ctx context.Context, params square.PaymentLinkCreateParams) (*square.PaymentLinkResult, error)
	NewIdempotencyKey(prefix string) string
}

// inFlightLocker guards against double-submitting the same session while
// a payment link request is in flight.
type inFlightLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(sessionID string) string
}

// Service drives the hosted checkout flow.
type Service interface {
	StartCheckout(ctx context.Context, sessionID string) (*CheckoutDTO, error)
	CompleteCheckout(ctx context.Context, sessionID string) error
}

type service struct {
	carts       cart.SessionStore
	payments    linkCreator
	locks       inFlightLocker
	logg        *logger.Logger
	redirectURL string
	askShipping bool
	inFlightTTL time.Duration
}

// NewService builds a checkout service backed by the provided stack.
func NewService(carts cart.SessionStore, payments linkCreator, locks inFlightLocker, logg *logger.Logger, cfg config.CheckoutConfig) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment link client required")
	}
	if locks == nil {
		return nil, fmt.Errorf("lock store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("checkout redirect url required")
	}
	ttl := cfg.InFlightTTL
	if ttl <= 0 {
		ttl = defaultInFlightTTL
	}
	return &service{
		carts:       carts,
		payments:    payments,
		locks:       locks,
		logg:        logg,
		redirectURL: cfg.RedirectURL,
		askShipping: cfg.AskForShipping,
		inFlightTTL: ttl,
	}, nil
}

// CheckoutDTO is returned to the storefront so it can redirect the
// shopper to Square's hosted payment page.
type CheckoutDTO struct {
	CheckoutURL string `json:"checkout_url"`
	OrderID     string `json:"order_id,omitempty"`
	Total       string `json:"total"`
	ItemCount   int    `json:"item_count"`
}

// StartCheckout snapshots the session cart and creates a Square payment
// link for it. The cart stays intact until the shopper lands back on the
// completion page; an abandoned payment keeps the cart recoverable.
func (s *service) StartCheckout(ctx context.Context, sessionID string) (*CheckoutDTO, error) {
	snapshot, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lockKey := s.locks.CheckoutLockKey(sessionID)
	acquired, err := s.locks.SetNX(ctx, lockKey, "1", s.inFlightTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout for this cart is already in progress")
	}

	params := square.PaymentLinkCreateParams{
		Lines:                 buildLines(snapshot),
		RedirectURL:           s.redirectURL,
		AskForShippingAddress: s.askShipping,
		IdempotencyKey:        s.payments.NewIdempotencyKey("checkout"),
	}

	result, err := s.payments.CreatePaymentLink(ctx, params)
	if err != nil {
		if delErr := s.locks.Del(ctx, lockKey); delErr != nil {
			s.logg.Error(ctx, "failed to release checkout lock", delErr)
		}
		return nil, err
	}

	url := result.URL
	if url == "" {
		url = result.LongURL
	}
	return &CheckoutDTO{
		CheckoutURL: url,
		OrderID:     result.OrderID,
		Total:       snapshot.Total().StringFixed(2),
		ItemCount:   snapshot.ItemCount(),
	}, nil
}

// CompleteCheckout clears the session cart after the shopper returns
// from the hosted payment page, and releases the in-flight lock.
func (s *service) CompleteCheckout(ctx context.Context, sessionID string) error {
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := s.locks.Del(ctx, s.locks.CheckoutLockKey(sessionID)); err != nil {
		s.logg.Error(ctx, "failed to release checkout lock", err)
	}
	return nil
}

// buildLines converts cart lines to Square order lines. Prices cross the
// wire in cents; half-cent results round away from zero.
func buildLines(snapshot *cart.Cart) []square.PaymentLinkLine {
	lines := make([]square.PaymentLinkLine, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		name := line.Name
		if line.Variant != nil && *line.Variant != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, *line.Variant)
		}
		cents := line.UnitPrice.Mul(centsPerDollar).Round(0).IntPart()
		lines = append(lines, square.PaymentLinkLine{
			Name:        name,
			Quantity:    int64(line.Quantity),
			AmountCents: cents,
			Currency:    enums.CurrencyUSD.String(),
		})
	}
	return lines
}
