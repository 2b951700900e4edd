package repository

import (
	"context"
	"errors"

	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

var (
	// ErrNoLines is returned when an order arrives with an empty line set.
	ErrNoLines = errors.New("order has no line items")
	// ErrZeroTotal guards against an order whose lines sum to nothing;
	// upstream validation should have caught it, the repository refuses
	// to persist it silently.
	ErrZeroTotal = errors.New("order total is zero")
)

// ProductRepository is the catalog store adapter. Both methods return
// only active products.
type ProductRepository interface {
	// GetActive returns all active products, newest first.
	GetActive(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
}

// OrderRepository persists an order together with its lines in one
// atomic unit. The returned order carries the generated identifier and
// the computed total.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
}

// CatalogCache holds the single "all active products" snapshot. The
// second return of GetSnapshot reports whether a live entry was found;
// an expired entry behaves exactly like a miss.
type CatalogCache interface {
	GetSnapshot(ctx context.Context) ([]models.ProductView, bool, error)
	SetSnapshot(ctx context.Context, products []models.ProductView) error
}
