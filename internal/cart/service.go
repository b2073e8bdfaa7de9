package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rossimission/storefront-backend/pkg/db/models"
	"github.com/rossimission/storefront-backend/pkg/enums"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

const maxLineQuantity = 99

type productLoader interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the session cart operations.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, input UpdateQuantityInput) (*View, error)
	RemoveItem(ctx context.Context, sessionID, lineKey string) (*View, error)
	ClearCart(ctx context.Context, sessionID string) (*View, error)
}

type service struct {
	store    SessionStore
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(store SessionStore, products productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products}, nil
}

// AddItemInput captures the payload for adding a line to a cart.
type AddItemInput struct {
	ProductID string  `json:"product_id" validate:"required,uuid4"`
	Quantity  int     `json:"quantity" validate:"required,min=1,max=99"`
	Variant   *string `json:"variant,omitempty" validate:"omitempty,max=64"`
}

// UpdateQuantityInput captures the payload for changing a line quantity.
// Zero removes the line.
type UpdateQuantityInput struct {
	LineKey  string `json:"line_key" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0,max=99"`
}

// View is the cart snapshot returned to clients, with derived totals.
type View struct {
	Lines     []LineView `json:"lines"`
	ItemCount int        `json:"item_count"`
	Total     string     `json:"total"`
}

// LineView is a single cart line as serialized for clients.
type LineView struct {
	Key       string  `json:"key"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice string  `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  string  `json:"subtotal"`
	Variant   *string `json:"variant,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}

func toView(c *Cart) *View {
	view := &View{
		Lines:     make([]LineView, 0, len(c.Lines)),
		ItemCount: c.ItemCount(),
		Total:     c.Total().StringFixed(2),
	}
	for _, line := range c.Lines {
		view.Lines = append(view.Lines, LineView{
			Key:       line.Key(),
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal().StringFixed(2),
			Variant:   line.Variant,
			ImageURL:  line.ImageURL,
		})
	}
	return view
}

// GetCart returns the current snapshot for the session.
func (s *service) GetCart(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toView(cart), nil
}

// AddItem resolves the product from the catalog and merges it into the
// cart. Name, price, and image always come from the catalog, never from
// the client.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	if input.Quantity < 1 || input.Quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 99")
	}

	product, err := s.products.GetActiveByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockStatus == enums.StockStatusSoldOut {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is sold out")
	}
	if input.Variant != nil && *input.Variant != "" && len(product.Sizes) > 0 {
		listed, ok := listedVariant(product.Sizes, *input.Variant)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant is not available for this product")
		}
		// Store the catalog's casing so "m" and "M" land on the same line.
		input.Variant = &listed
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := Line{
		ProductID: product.ID.String(),
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  input.Quantity,
		Variant:   input.Variant,
		ImageURL:  product.ImageURL,
	}
	cart.AddLine(line)
	if err := clampLine(cart, line.Key()); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return toView(cart), nil
}

// UpdateQuantity sets the quantity for an existing line. Zero removes it.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, input UpdateQuantityInput) (*View, error) {
	if input.LineKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line key is required")
	}
	if input.Quantity < 0 || input.Quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 0 and 99")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(input.LineKey, input.Quantity) {
		// Absent keys are a no-op: the line may already be gone from
		// another tab, and the shopper just sees the current cart.
		return toView(cart), nil
	}
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return toView(cart), nil
}

// RemoveItem drops the identified line from the cart. Removing a line that
// is not there is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID, lineKey string) (*View, error) {
	if lineKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line key is required")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.RemoveLine(lineKey) {
		return toView(cart), nil
	}
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return toView(cart), nil
}

// ClearCart empties the session cart.
func (s *service) ClearCart(ctx context.Context, sessionID string) (*View, error) {
	cart := NewCart()
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return toView(cart), nil
}

func clampLine(c *Cart, key string) error {
	for i := range c.Lines {
		if c.Lines[i].Key() == key && c.Lines[i].Quantity > maxLineQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 99")
		}
	}
	return nil
}

// listedVariant matches the requested variant against the catalog's size
// list, case-insensitively, and returns the listed casing.
func listedVariant(values []string, target string) (string, bool) {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return v, true
		}
	}
	return "", false
}
