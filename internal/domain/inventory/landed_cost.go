package inventory

import (
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Precisión del costo unitario aterrizado.
const LandedCostScale = 4

// CostLine línea de entrada para el cálculo de costo aterrizado.
type CostLine struct {
	LineID    string
	ProductID string
	VariantID string
	UnitCost  decimal.Decimal
	Quantity  decimal.Decimal // cantidad recibida
}

// LandedCost resultado por línea.
// LandedCostPerUnit = (BaseCost + AllocatedCost) / Quantity
type LandedCost struct {
	LineID            string
	ProductID         string
	VariantID         string
	Quantity          decimal.Decimal
	UnitCost          decimal.Decimal
	BaseCost          decimal.Decimal
	AllocatedCost     decimal.Decimal
	LandedCostPerUnit decimal.Decimal
}

// ProductKey agrupa resultados por producto y variante.
type ProductKey struct {
	ProductID string
	VariantID string
}

// AllocateLandedCost distribuye los costos adicionales entre las líneas en proporción a su
// costo base (UnitCost * Quantity). Si el costo base total es cero, distribuye por cantidad.
// Retorna domain.ErrNoAdditionalCosts si no hay costos adicionales: el llamador debe usar
// el costo unitario de la orden. Líneas con cantidad cero se ignoran.
func AllocateLandedCost(lines []CostLine, additional []decimal.Decimal) ([]LandedCost, error) {
	totalAdditional := decimal.Zero
	for _, a := range additional {
		totalAdditional = totalAdditional.Add(a)
	}
	if !totalAdditional.GreaterThan(decimal.Zero) {
		return nil, domain.ErrNoAdditionalCosts
	}

	var active []CostLine
	totalBase, totalQty := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		active = append(active, l)
		totalBase = totalBase.Add(l.UnitCost.Mul(l.Quantity))
		totalQty = totalQty.Add(l.Quantity)
	}
	if len(active) == 0 {
		return nil, domain.ErrInvalidInput
	}

	out := make([]LandedCost, 0, len(active))
	allocated := decimal.Zero
	for i, l := range active {
		base := l.UnitCost.Mul(l.Quantity)
		var share decimal.Decimal
		switch {
		case i == len(active)-1:
			// la última línea absorbe el residuo de la división
			share = totalAdditional.Sub(allocated)
		case totalBase.IsZero():
			share = totalAdditional.Mul(l.Quantity).Div(totalQty)
		default:
			share = totalAdditional.Mul(base).Div(totalBase)
		}
		allocated = allocated.Add(share)
		out = append(out, LandedCost{
			LineID:            l.LineID,
			ProductID:         l.ProductID,
			VariantID:         l.VariantID,
			Quantity:          l.Quantity,
			UnitCost:          l.UnitCost,
			BaseCost:          base,
			AllocatedCost:     share,
			LandedCostPerUnit: base.Add(share).Div(l.Quantity).Round(LandedCostScale),
		})
	}
	return out, nil
}

// ByProduct consolida el costo aterrizado por producto/variante:
// (Σ base + Σ asignado) / Σ cantidad.
func ByProduct(costs []LandedCost) map[ProductKey]decimal.Decimal {
	type acc struct{ total, qty decimal.Decimal }
	sums := make(map[ProductKey]*acc)
	for _, c := range costs {
		k := ProductKey{ProductID: c.ProductID, VariantID: c.VariantID}
		a, ok := sums[k]
		if !ok {
			a = &acc{}
			sums[k] = a
		}
		a.total = a.total.Add(c.BaseCost).Add(c.AllocatedCost)
		a.qty = a.qty.Add(c.Quantity)
	}
	out := make(map[ProductKey]decimal.Decimal, len(sums))
	for k, a := range sums {
		out[k] = a.total.Div(a.qty).Round(LandedCostScale)
	}
	return out
}
