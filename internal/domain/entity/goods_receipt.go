package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la nota de recepción (GRN).
const (
	GRNStatusCompleted = "COMPLETED"
	GRNStatusCancelled = "CANCELLED"
)

// Tipos de costo adicional de una recepción.
const (
	CostTypeShipping = "SHIPPING"
	CostTypeCustoms  = "CUSTOMS"
	CostTypeTax      = "TAX"
	CostTypeOther    = "OTHER"
)

// DecimalScale decimales de cantidades y montos persistidos (NUMERIC(18,4)).
const DecimalScale = 4

// FitsScale indica si d se guarda sin redondeo en DecimalScale decimales.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(DecimalScale))
}

// ValidCostType indica si t es un tipo de costo adicional soportado.
func ValidCostType(t string) bool {
	switch t {
	case CostTypeShipping, CostTypeCustoms, CostTypeTax, CostTypeOther:
		return true
	}
	return false
}

// GoodsReceipt es la nota de recepción de mercancía contra una orden de compra.
// Nunca se elimina: la anulación la deja en CANCELLED.
type GoodsReceipt struct {
	ID              string
	CompanyID       string
	Number          string
	PurchaseOrderID string
	WarehouseID     string
	Status          string
	ReceivedDate    time.Time
	Notes           string
	CreatedBy       string
	CancelledBy     string
	CancelledAt     *time.Time
	Lines           []GoodsReceiptLine
	Costs           []GoodsReceiptCost
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GoodsReceiptLine línea recibida (inmutable).
type GoodsReceiptLine struct {
	ID                  string
	GoodsReceiptID      string
	PurchaseOrderLineID string
	ProductID           string
	VariantID           string
	Quantity            decimal.Decimal
	BatchNumber         string
	BinLocation         string
}

// GoodsReceiptCost costo posterior a la recepción (flete, aduana, ...). Solo se agrega.
type GoodsReceiptCost struct {
	ID             string
	CompanyID      string
	GoodsReceiptID string
	Type           string
	Amount         decimal.Decimal
	Description    string
	CreatedBy      string
	CreatedAt      time.Time
}

// CostAmounts devuelve los montos de los costos adicionales.
func (g *GoodsReceipt) CostAmounts() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(g.Costs))
	for _, c := range g.Costs {
		out = append(out, c.Amount)
	}
	return out
}
