package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeReceipt    = "RECEIPT"
	MovementTypeAdjustment = "ADJUSTMENT"
	MovementTypeSale       = "SALE"
	MovementTypeTransfer   = "TRANSFER"
)

// Tipos de documento referenciados por los movimientos.
const (
	ReferenceGoodsReceipt = "GOODS_RECEIPT"
)

// StockMovement fila inmutable del kardex. Las reversiones son filas nuevas con cantidad negada.
type StockMovement struct {
	ID            string
	CompanyID     string
	ProductID     string
	VariantID     string
	WarehouseID   string
	BatchNumber   string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida/reversión
	ReferenceType string
	ReferenceID   string
	Date          time.Time
	CreatedBy     string
	Notes         string
	CreatedAt     time.Time
}
