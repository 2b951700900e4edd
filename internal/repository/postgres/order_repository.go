package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/repository"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

type OrderRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, tracer trace.Tracer) *OrderRepository {
	return &OrderRepository{pool: pool, tracer: tracer}
}

// CreateOrder computes the order total and persists the order together
// with its lines in a single transaction. On any failure the
// transaction rolls back and nothing is visible afterwards.
func (r *OrderRepository) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	ctx, span := r.tracer.Start(ctx, "postgres.CreateOrder")
	defer span.End()

	if len(o.Lines) == 0 {
		return models.Order{}, repository.ErrNoLines
	}
	total := orderTotal(o.Lines)
	if total.IsZero() {
		return models.Order{}, repository.ErrZeroTotal
	}
	o.ID = uuid.New()
	o.TotalAmount = total

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
        INSERT INTO orders (id, customer_name, customer_email, customer_phone, total_amount)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `, o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.TotalAmount).Scan(&o.CreatedAt); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for _, line := range o.Lines {
		if _, err := tx.Exec(ctx, `
            INSERT INTO order_lines (id, order_id, product_id, unit_price, quantity)
            VALUES ($1, $2, $3, $4, $5)
        `, uuid.New(), o.ID, line.ProductID, line.UnitPrice, line.Quantity); err != nil {
			return models.Order{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit order: %w", err)
	}
	span.SetAttributes(
		attribute.String("order.id", o.ID.String()),
		attribute.Int("order.lines", len(o.Lines)),
	)
	return o, nil
}

// orderTotal sums unit price * quantity with exact decimal arithmetic.
func orderTotal(lines []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
