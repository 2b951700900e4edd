package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/repository"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

// ConfirmationPublisher enqueues the confirmation message for a
// created order.
type ConfirmationPublisher interface {
	PublishOrderConfirmation(ctx context.Context, o models.Order) error
}

type Service struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	cache     repository.CatalogCache
	publisher ConfirmationPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

func New(products repository.ProductRepository, orders repository.OrderRepository,
	cache repository.CatalogCache, publisher ConfirmationPublisher,
	logger *slog.Logger, tracer trace.Tracer) *Service {
	return &Service{
		products:  products,
		orders:    orders,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}

// GetProducts serves the catalog cache-aside: the full active set is
// resolved once (from cache or store) and category filtering always
// happens on that snapshot, so a category result is a consistent slice
// of a single load.
func (s *Service) GetProducts(ctx context.Context, category string) ([]models.ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetProducts")
	defer span.End()

	views, ok, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		// a broken cache backend degrades to a miss, it does not fail the read
		s.logger.Error("cache get failed", "err", err)
		ok = false
	}
	if !ok {
		products, err := s.products.GetActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		views = make([]models.ProductView, 0, len(products))
		for _, p := range products {
			views = append(views, toProductView(p))
		}
		if err := s.cache.SetSnapshot(ctx, views); err != nil {
			s.logger.Error("cache set failed", "err", err)
		}
		span.SetAttributes(attribute.String("source", "store"))
	} else {
		span.SetAttributes(attribute.String("source", "cache"))
	}

	if category == "" {
		return views, nil
	}
	filtered := make([]models.ProductView, 0, len(views))
	for _, v := range views {
		if v.Category == category {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// CreateOrder validates the request, persists the order atomically and
// enqueues the confirmation message. A publish failure after the
// commit does not undo the order: the order ID is returned together
// with ErrConfirmationNotQueued and the caller reports degraded
// success.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (uuid.UUID, error) {
	if err := validateCreateOrder(req); err != nil {
		return uuid.Nil, err
	}
	ctx, span := s.tracer.Start(ctx, "service.CreateOrder")
	defer span.End()

	lines := make([]models.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, models.OrderLine{
			ProductID: l.ProductID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	order := models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Lines:         lines,
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrOrderPersistence, err)
	}
	span.SetAttributes(attribute.String("order.id", created.ID.String()))
	s.logger.Info("order created",
		"order_id", created.ID,
		"customer", created.CustomerEmail,
		"total", created.TotalAmount,
	)

	if err := s.publisher.PublishOrderConfirmation(ctx, created); err != nil {
		s.logger.Error("confirmation publish failed", "err", err, "order_id", created.ID)
		return created.ID, fmt.Errorf("%w: %v", ErrConfirmationNotQueued, err)
	}
	return created.ID, nil
}

// CreateOrderRequest is the inbound command shape.
type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName" validate:"required,max=100"`
	CustomerEmail string             `json:"customerEmail" validate:"required,email"`
	CustomerPhone string             `json:"customerPhone" validate:"required,len=10,numeric"`
	Lines         []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type OrderLineRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity" validate:"gt=0"`
}

func toProductView(p models.Product) models.ProductView {
	return models.ProductView{
		ID:          p.ID,
		Description: p.Description,
		Category:    p.Category,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
	}
}
