package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	POStatusPending           = "PENDING"
	POStatusInTransit         = "IN_TRANSIT"
	POStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	POStatusReceived          = "RECEIVED"
	POStatusCancelled         = "CANCELLED"
)

// PurchaseOrder representa la cabecera de una orden de compra a proveedor.
// TaxRate es el porcentaje de impuesto vigente al crear la orden (ej: 17 = 17%).
type PurchaseOrder struct {
	ID         string
	CompanyID  string
	Number     string
	SupplierID string
	Status     string
	TaxRate    decimal.Decimal
	ShippedAt  *time.Time // nil si nunca se registró despacho
	Lines      []PurchaseOrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseOrderLine línea de la orden. ReceivedQuantity solo crece con recepciones
// y solo decrece con la anulación de una recepción.
type PurchaseOrderLine struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	VariantID        string // vacío si el producto no maneja variantes
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
}

// RemainingQuantity cantidad pendiente por recibir.
func (l PurchaseOrderLine) RemainingQuantity() decimal.Decimal {
	return l.OrderedQuantity.Sub(l.ReceivedQuantity)
}

// IsFullyReceived indica si la línea ya se recibió completa.
func (l PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQuantity.GreaterThanOrEqual(l.OrderedQuantity)
}

// LinesByID indexa las líneas por ID. Los punteros apuntan al slice de la orden.
func (o *PurchaseOrder) LinesByID() map[string]*PurchaseOrderLine {
	m := make(map[string]*PurchaseOrderLine, len(o.Lines))
	for i := range o.Lines {
		m[o.Lines[i].ID] = &o.Lines[i]
	}
	return m
}
