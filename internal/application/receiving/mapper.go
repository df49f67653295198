package receiving

import (
	"github.com/jhoicas/recepcion-api/internal/application/dto"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func toGoodsReceiptResponse(g *entity.GoodsReceipt) *dto.GoodsReceiptResponse {
	lines := make([]dto.GoodsReceiptLineResponse, 0, len(g.Lines))
	for _, l := range g.Lines {
		lines = append(lines, dto.GoodsReceiptLineResponse{
			ID:                  l.ID,
			PurchaseOrderLineID: l.PurchaseOrderLineID,
			ProductID:           l.ProductID,
			VariantID:           l.VariantID,
			Quantity:            l.Quantity,
			BatchNumber:         l.BatchNumber,
			BinLocation:         l.BinLocation,
		})
	}
	costs := make([]dto.GoodsReceiptCostResponse, 0, len(g.Costs))
	for _, c := range g.Costs {
		costs = append(costs, toCostResponse(c))
	}
	return &dto.GoodsReceiptResponse{
		ID:              g.ID,
		CompanyID:       g.CompanyID,
		Number:          g.Number,
		PurchaseOrderID: g.PurchaseOrderID,
		WarehouseID:     g.WarehouseID,
		Status:          g.Status,
		ReceivedDate:    g.ReceivedDate,
		Notes:           g.Notes,
		CreatedBy:       g.CreatedBy,
		CancelledBy:     g.CancelledBy,
		CancelledAt:     g.CancelledAt,
		Lines:           lines,
		Costs:           costs,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

func toCostResponse(c entity.GoodsReceiptCost) dto.GoodsReceiptCostResponse {
	return dto.GoodsReceiptCostResponse{
		ID:          c.ID,
		Type:        c.Type,
		Amount:      c.Amount,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

func toLandedCostResponse(g *entity.GoodsReceipt, r CostRefresh) *dto.LandedCostResponse {
	total := decimal.Zero
	for _, a := range g.CostAmounts() {
		total = total.Add(a)
	}
	lines := make([]dto.LandedCostLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.LandedCostLineResponse{
			LineID:            l.LineID,
			ProductID:         l.ProductID,
			VariantID:         l.VariantID,
			Quantity:          l.Quantity,
			UnitCost:          l.UnitCost,
			BaseCost:          l.BaseCost,
			AllocatedCost:     l.AllocatedCost,
			LandedCostPerUnit: l.LandedCostPerUnit,
		})
	}
	products := make([]dto.ProductLandedCostResponse, 0, len(r.Prices))
	for _, k := range sortedKeys(r.Prices) {
		products = append(products, dto.ProductLandedCostResponse{
			ProductID:         k.ProductID,
			VariantID:         k.VariantID,
			LandedCostPerUnit: r.Prices[k],
		})
	}
	return &dto.LandedCostResponse{
		GoodsReceiptID:      g.ID,
		HasAdditionalCosts:  r.Source == CostSourceLandedCost,
		TotalAdditionalCost: total,
		Lines:               lines,
		Products:            products,
	}
}
