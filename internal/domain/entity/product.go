package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo. El motor de recepción solo escribe CostPrice.
type Product struct {
	ID        string
	CompanyID string
	SKU       string
	Name      string
	CostPrice decimal.Decimal // costo unitario aterrizado vigente
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductVariant variante de un producto (talla, color, ...), con costo propio.
type ProductVariant struct {
	ID        string
	CompanyID string
	ProductID string
	SKU       string
	CostPrice decimal.Decimal
	UpdatedAt time.Time
}
