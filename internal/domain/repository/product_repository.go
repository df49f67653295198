package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para el costo de productos y variantes.
type ProductRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetVariant(ctx context.Context, companyID, variantID string) (*entity.ProductVariant, error)
	// UpdateCostPrice actualiza el costo de la variante si variantID no es vacío; si no, el del producto.
	UpdateCostPrice(ctx context.Context, companyID, productID, variantID string, cost decimal.Decimal) error
}
