package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateGoodsReceiptRequest body para POST /api/goods-receipts.
type CreateGoodsReceiptRequest struct {
	PurchaseOrderID string                          `json:"purchase_order_id" validate:"required,uuid"`
	WarehouseID     string                          `json:"warehouse_id" validate:"required,uuid"`
	ReceivedDate    *time.Time                      `json:"received_date,omitempty"`
	Notes           string                          `json:"notes,omitempty" validate:"max=1000"`
	Lines           []CreateGoodsReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateGoodsReceiptLineRequest línea recibida. BatchNumber vacío se genera (yyyyMMdd-NNN).
type CreateGoodsReceiptLineRequest struct {
	PurchaseOrderLineID string          `json:"po_line_id" validate:"required,uuid"`
	ProductID           string          `json:"product_id" validate:"required,uuid"`
	VariantID           string          `json:"variant_id,omitempty" validate:"omitempty,uuid"`
	Quantity            decimal.Decimal `json:"quantity"`
	BatchNumber         string          `json:"batch_number,omitempty" validate:"max=60"`
	BinLocation         string          `json:"bin_location,omitempty" validate:"max=60"`
}

// AddCostRequest body para POST /api/goods-receipts/:id/costs.
type AddCostRequest struct {
	Type        string          `json:"type" validate:"required,oneof=SHIPPING CUSTOMS TAX OTHER"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty" validate:"max=500"`
}

// GoodsReceiptLineResponse línea de la recepción.
type GoodsReceiptLineResponse struct {
	ID                  string          `json:"id"`
	PurchaseOrderLineID string          `json:"po_line_id"`
	ProductID           string          `json:"product_id"`
	VariantID           string          `json:"variant_id,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	BatchNumber         string          `json:"batch_number"`
	BinLocation         string          `json:"bin_location,omitempty"`
}

// GoodsReceiptCostResponse costo adicional registrado.
type GoodsReceiptCostResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GoodsReceiptResponse salida de una nota de recepción.
type GoodsReceiptResponse struct {
	ID              string                     `json:"id"`
	CompanyID       string                     `json:"company_id"`
	Number          string                     `json:"number"`
	PurchaseOrderID string                     `json:"purchase_order_id"`
	WarehouseID     string                     `json:"warehouse_id"`
	Status          string                     `json:"status"`
	ReceivedDate    time.Time                  `json:"received_date"`
	Notes           string                     `json:"notes,omitempty"`
	CreatedBy       string                     `json:"created_by"`
	CancelledBy     string                     `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time                 `json:"cancelled_at,omitempty"`
	Lines           []GoodsReceiptLineResponse `json:"lines"`
	Costs           []GoodsReceiptCostResponse `json:"costs"`
	// PurchaseOrderStatus estado de la orden tras la operación (solo en create/cancel).
	PurchaseOrderStatus string `json:"purchase_order_status,omitempty"`
	// CostPriceSource UNIT_COST o LANDED_COST (solo en create).
	CostPriceSource string    `json:"cost_price_source,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AddCostResponse salida de POST /api/goods-receipts/:id/costs.
// LandedCostWarning no vacío indica que el costo se registró pero el costo de los productos no se actualizó.
type AddCostResponse struct {
	GoodsReceiptID    string                   `json:"goods_receipt_id"`
	Cost              GoodsReceiptCostResponse `json:"cost"`
	CostPriceSource   string                   `json:"cost_price_source,omitempty"`
	LandedCostWarning string                   `json:"landed_cost_warning,omitempty"`
}

// LandedCostLineResponse costo aterrizado por línea.
type LandedCostLineResponse struct {
	LineID            string          `json:"line_id"`
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	BaseCost          decimal.Decimal `json:"base_cost"`
	AllocatedCost     decimal.Decimal `json:"allocated_cost"`
	LandedCostPerUnit decimal.Decimal `json:"landed_cost_per_unit"`
}

// ProductLandedCostResponse costo aterrizado consolidado por producto/variante.
type ProductLandedCostResponse struct {
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	LandedCostPerUnit decimal.Decimal `json:"landed_cost_per_unit"`
}

// LandedCostResponse salida de GET /api/goods-receipts/:id/landed-cost.
type LandedCostResponse struct {
	GoodsReceiptID      string                      `json:"goods_receipt_id"`
	HasAdditionalCosts  bool                        `json:"has_additional_costs"`
	TotalAdditionalCost decimal.Decimal             `json:"total_additional_cost"`
	Lines               []LandedCostLineResponse    `json:"lines"`
	Products            []ProductLandedCostResponse `json:"products"`
}
