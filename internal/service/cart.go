package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kstrelkov/webshop/internal/models"
	"github.com/kstrelkov/webshop/pkg/logging"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

// CartStore is the persistence surface the cart logic needs. GormRepo
// implements it; tests use an in-memory fake.
type CartStore interface {
	ListLines(ctx context.Context, userID uint) ([]models.CartItem, error)
	ListLinesWithProducts(ctx context.Context, userID uint) ([]models.CartItem, error)
	UpsertLine(ctx context.Context, item *models.CartItem) error
	UpdateLineQuantity(ctx context.Context, userID, lineID, quantity uint) (*models.CartItem, error)
	DeleteLine(ctx context.Context, userID, lineID uint) error
	DeleteAllLines(ctx context.Context, userID uint) error
	SumQuantities(ctx context.Context, userID uint) (uint, error)
}

// CartCatalog supplies product existence and pricing for the add-time
// snapshot.
type CartCatalog interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type CartSummary struct {
	Subtotal   float64 `json:"subtotal"`
	TotalItems uint    `json:"total_items"`
	ItemsCount int     `json:"items_count"`
}

type CartService struct {
	Store   CartStore
	Catalog CartCatalog
}

func validQuantity(quantity uint) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return invalidField("quantity", fmt.Sprintf("must be between %d and %d", MinQuantity, MaxQuantity))
	}
	return nil
}

// summarize recomputes the aggregate from the current rows. Never cached.
func summarize(items []models.CartItem) CartSummary {
	var s CartSummary
	for _, item := range items {
		s.Subtotal += item.Price * float64(item.Quantity)
		s.TotalItems += item.Quantity
	}
	s.ItemsCount = len(items)
	return s
}

func (s *CartService) Summary(ctx context.Context, userID uint) (CartSummary, error) {
	items, err := s.Store.ListLines(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return summarize(items), nil
}

func (s *CartService) List(ctx context.Context, userID uint) ([]models.CartItem, CartSummary, error) {
	items, err := s.Store.ListLinesWithProducts(ctx, userID)
	if err != nil {
		return nil, CartSummary{}, err
	}
	return items, summarize(items), nil
}

// Add merges quantity into an existing (user, product) line or creates one
// with the price snapshot taken from the catalog. A merge keeps the original
// snapshot and the merged total is not re-checked against the cap.
func (s *CartService) Add(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, CartSummary, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	if err := validQuantity(quantity); err != nil {
		return nil, CartSummary{}, err
	}

	product, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CartSummary{}, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, CartSummary{}, err
	}

	price := product.Price
	if product.Discount > 0 {
		price = product.Price - product.Discount
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	}
	if err := s.Store.UpsertLine(ctx, &item); err != nil {
		l.Error("upsert_failed", "error", err)
		return nil, CartSummary{}, err
	}

	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, CartSummary{}, err
	}
	return &item, summary, nil
}

// Update replaces the quantity in place. No merge semantics.
func (s *CartService) Update(ctx context.Context, userID, lineID, quantity uint) (*models.CartItem, CartSummary, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, CartSummary{}, err
	}

	item, err := s.Store.UpdateLineQuantity(ctx, userID, lineID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CartSummary{}, fmt.Errorf("cart item %d: %w", lineID, ErrNotFound)
		}
		return nil, CartSummary{}, err
	}

	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, CartSummary{}, err
	}
	return item, summary, nil
}

func (s *CartService) Remove(ctx context.Context, userID, lineID uint) (CartSummary, error) {
	if err := s.Store.DeleteLine(ctx, userID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartSummary{}, fmt.Errorf("cart item %d: %w", lineID, ErrNotFound)
		}
		return CartSummary{}, err
	}
	return s.Summary(ctx, userID)
}

// Clear drops every line for the user. Succeeds on an already empty cart.
func (s *CartService) Clear(ctx context.Context, userID uint) (CartSummary, error) {
	if err := s.Store.DeleteAllLines(ctx, userID); err != nil {
		return CartSummary{}, err
	}
	return CartSummary{}, nil
}

func (s *CartService) Count(ctx context.Context, userID uint) (uint, error) {
	return s.Store.SumQuantities(ctx, userID)
}
