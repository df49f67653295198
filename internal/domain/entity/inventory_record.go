package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryKey identifica un registro de inventario por producto, variante, bodega y lote.
type InventoryKey struct {
	ProductID   string
	VariantID   string
	WarehouseID string
	BatchNumber string
}

// InventoryRecord stock disponible para una InventoryKey.
type InventoryRecord struct {
	ID        string
	CompanyID string
	InventoryKey
	Quantity  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
