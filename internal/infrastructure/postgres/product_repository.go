package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, sku, name, cost_price, created_at, updated_at
		FROM products WHERE company_id = $1 AND id = $2`, companyID, id,
	).Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.CostPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetVariant obtiene una variante por ID.
func (r *ProductRepo) GetVariant(ctx context.Context, companyID, variantID string) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, product_id, sku, cost_price, updated_at
		FROM product_variants WHERE company_id = $1 AND id = $2`, companyID, variantID,
	).Scan(&v.ID, &v.CompanyID, &v.ProductID, &v.SKU, &v.CostPrice, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product variant: %w", err)
	}
	return &v, nil
}

// UpdateCostPrice actualiza el costo de la variante (si variantID no es vacío) o del producto.
func (r *ProductRepo) UpdateCostPrice(ctx context.Context, companyID, productID, variantID string, cost decimal.Decimal) error {
	var (
		query string
		args  []any
	)
	if variantID != "" {
		query = `UPDATE product_variants SET cost_price = $4, updated_at = now()
			WHERE company_id = $1 AND product_id = $2 AND id = $3`
		args = []any{companyID, productID, variantID, cost}
	} else {
		query = `UPDATE products SET cost_price = $3, updated_at = now() WHERE company_id = $1 AND id = $2`
		args = []any{companyID, productID, cost}
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update cost price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s variante %q", domain.ErrNotFound, productID, variantID)
	}
	return nil
}
