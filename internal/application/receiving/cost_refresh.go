package receiving

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/inventory"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Origen del costo aplicado a productos y variantes.
const (
	CostSourceUnitCost   = "UNIT_COST"
	CostSourceLandedCost = "LANDED_COST"
)

// CostRefresh resultado de recalcular el costo aterrizado de una recepción.
// Source indica qué costo se aplicó; Reason explica por qué se usó el costo unitario.
type CostRefresh struct {
	Source string
	Reason error
	Lines  []inventory.LandedCost
	Prices map[inventory.ProductKey]decimal.Decimal
}

// Fallback indica si se usó el costo unitario de la orden en lugar del aterrizado.
func (r CostRefresh) Fallback() bool {
	return r.Source == CostSourceUnitCost
}

// computeLandedCost calcula el costo por línea y por producto. Sin costos adicionales
// devuelve el costo unitario de la orden etiquetado como UNIT_COST; cualquier otro error
// se propaga.
func computeLandedCost(po *entity.PurchaseOrder, grn *entity.GoodsReceipt) (CostRefresh, error) {
	poLines := po.LinesByID()
	lines := make([]inventory.CostLine, 0, len(grn.Lines))
	for _, l := range grn.Lines {
		poLine, ok := poLines[l.PurchaseOrderLineID]
		if !ok {
			return CostRefresh{}, fmt.Errorf("%w: línea de orden %s", domain.ErrNotFound, l.PurchaseOrderLineID)
		}
		lines = append(lines, inventory.CostLine{
			LineID:    l.ID,
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			UnitCost:  poLine.UnitCost,
			Quantity:  l.Quantity,
		})
	}

	costs, err := inventory.AllocateLandedCost(lines, grn.CostAmounts())
	switch {
	case err == nil:
		return CostRefresh{Source: CostSourceLandedCost, Lines: costs, Prices: inventory.ByProduct(costs)}, nil
	case errors.Is(err, domain.ErrNoAdditionalCosts):
		unit := make([]inventory.LandedCost, 0, len(lines))
		for _, l := range lines {
			if !l.Quantity.GreaterThan(decimal.Zero) {
				continue
			}
			base := l.UnitCost.Mul(l.Quantity)
			unit = append(unit, inventory.LandedCost{
				LineID:            l.LineID,
				ProductID:         l.ProductID,
				VariantID:         l.VariantID,
				Quantity:          l.Quantity,
				UnitCost:          l.UnitCost,
				BaseCost:          base,
				AllocatedCost:     decimal.Zero,
				LandedCostPerUnit: l.UnitCost.Round(inventory.LandedCostScale),
			})
		}
		return CostRefresh{Source: CostSourceUnitCost, Reason: err, Lines: unit, Prices: inventory.ByProduct(unit)}, nil
	default:
		return CostRefresh{}, err
	}
}

// refreshCostPrices recalcula el costo aterrizado y lo escribe en productos y variantes
// dentro de tx.
func refreshCostPrices(ctx context.Context, tx repository.Tx, po *entity.PurchaseOrder, grn *entity.GoodsReceipt) (CostRefresh, error) {
	refresh, err := computeLandedCost(po, grn)
	if err != nil {
		return CostRefresh{}, err
	}
	for _, key := range sortedKeys(refresh.Prices) {
		if err := tx.Products().UpdateCostPrice(ctx, grn.CompanyID, key.ProductID, key.VariantID, refresh.Prices[key]); err != nil {
			return CostRefresh{}, fmt.Errorf("update cost price %s: %w", key.ProductID, err)
		}
	}
	return refresh, nil
}

// sortedKeys orden estable para escribir productos siempre en el mismo orden (evita deadlocks).
func sortedKeys(m map[inventory.ProductKey]decimal.Decimal) []inventory.ProductKey {
	keys := make([]inventory.ProductKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID < keys[j].ProductID
		}
		return keys[i].VariantID < keys[j].VariantID
	})
	return keys
}
