package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

type ProductRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewProductRepository(pool *pgxpool.Pool, tracer trace.Tracer) *ProductRepository {
	return &ProductRepository{pool: pool, tracer: tracer}
}

const productColumns = `id, description, category, unit, unit_price, status, create_date, update_date`

func (r *ProductRepository) GetActive(ctx context.Context) ([]models.Product, error) {
	ctx, span := r.tracer.Start(ctx, "postgres.GetActiveProducts")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
        SELECT `+productColumns+`
        FROM products
        WHERE status
        ORDER BY create_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("products select: %w", err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	ctx, span := r.tracer.Start(ctx, "postgres.GetProductsByCategory")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
        SELECT `+productColumns+`
        FROM products
        WHERE status AND category = $1
        ORDER BY create_date DESC`, category)
	if err != nil {
		return nil, fmt.Errorf("products by category select: %w", err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("products.category", category),
		attribute.Int("products.count", len(products)),
	)
	return products, nil
}

func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()
	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Description, &p.Category, &p.Unit,
			&p.UnitPrice, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("products scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}
	return products, nil
}
