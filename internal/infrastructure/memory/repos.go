package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// purchaseOrderRepo ----------------------------------------------------------

type purchaseOrderRepo struct{ src source }

func (r *purchaseOrderRepo) GetByID(_ context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.src.read().purchaseOrders[id]
	if !ok || po.CompanyID != companyID {
		return nil, nil
	}
	out := copyPurchaseOrder(po)
	return &out, nil
}

// GetForUpdate no necesita bloqueo: las transacciones ya se serializan.
func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *purchaseOrderRepo) UpdateLineReceived(ctx context.Context, companyID, lineID string, received decimal.Decimal) error {
	return r.src.write(ctx, func(st *state) error {
		for id, po := range st.purchaseOrders {
			if po.CompanyID != companyID {
				continue
			}
			for i := range po.Lines {
				if po.Lines[i].ID != lineID {
					continue
				}
				if received.IsNegative() || received.GreaterThan(po.Lines[i].OrderedQuantity) {
					return fmt.Errorf("%w: cantidad recibida %s fuera de rango", domain.ErrReceivedUnderflow, received)
				}
				po = copyPurchaseOrder(po)
				po.Lines[i].ReceivedQuantity = received
				st.purchaseOrders[id] = po
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *purchaseOrderRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	return r.src.write(ctx, func(st *state) error {
		po, ok := st.purchaseOrders[id]
		if !ok || po.CompanyID != companyID {
			return domain.ErrNotFound
		}
		po.Status = status
		st.purchaseOrders[id] = po
		return nil
	})
}

// goodsReceiptRepo -----------------------------------------------------------

type goodsReceiptRepo struct{ src source }

func (r *goodsReceiptRepo) Create(ctx context.Context, grn *entity.GoodsReceipt) error {
	return r.src.write(ctx, func(st *state) error {
		if _, exists := st.goodsReceipts[grn.ID]; exists {
			return domain.ErrConflict
		}
		for _, g := range st.goodsReceipts {
			if g.CompanyID == grn.CompanyID && g.Number == grn.Number {
				return fmt.Errorf("%w: número %s duplicado", domain.ErrConflict, grn.Number)
			}
		}
		st.goodsReceipts[grn.ID] = copyGoodsReceipt(*grn)
		st.grnOrder = append(st.grnOrder, grn.ID)
		return nil
	})
}

func (r *goodsReceiptRepo) AddCost(ctx context.Context, cost *entity.GoodsReceiptCost) error {
	return r.src.write(ctx, func(st *state) error {
		g, ok := st.goodsReceipts[cost.GoodsReceiptID]
		if !ok || g.CompanyID != cost.CompanyID {
			return domain.ErrNotFound
		}
		g = copyGoodsReceipt(g)
		g.Costs = append(g.Costs, *cost)
		st.goodsReceipts[g.ID] = g
		return nil
	})
}

func (r *goodsReceiptRepo) GetByID(_ context.Context, companyID, id string) (*entity.GoodsReceipt, error) {
	g, ok := r.src.read().goodsReceipts[id]
	if !ok || g.CompanyID != companyID {
		return nil, nil
	}
	out := copyGoodsReceipt(g)
	return &out, nil
}

func (r *goodsReceiptRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *goodsReceiptRepo) ListByCompany(_ context.Context, companyID, purchaseOrderID string) ([]*entity.GoodsReceipt, error) {
	st := r.src.read()
	var out []*entity.GoodsReceipt
	for _, id := range st.grnOrder {
		g := st.goodsReceipts[id]
		if g.CompanyID != companyID {
			continue
		}
		if purchaseOrderID != "" && g.PurchaseOrderID != purchaseOrderID {
			continue
		}
		c := copyGoodsReceipt(g)
		out = append(out, &c)
	}
	return out, nil
}

func (r *goodsReceiptRepo) MarkCancelled(ctx context.Context, grn *entity.GoodsReceipt) error {
	return r.src.write(ctx, func(st *state) error {
		g, ok := st.goodsReceipts[grn.ID]
		if !ok || g.CompanyID != grn.CompanyID {
			return domain.ErrNotFound
		}
		if g.Status != entity.GRNStatusCompleted {
			return domain.ErrInvalidStatus
		}
		g.Status = entity.GRNStatusCancelled
		g.CancelledBy = grn.CancelledBy
		g.CancelledAt = grn.CancelledAt
		g.UpdatedAt = grn.UpdatedAt
		st.goodsReceipts[g.ID] = g
		return nil
	})
}

// inventoryRecordRepo --------------------------------------------------------

type inventoryRecordRepo struct{ src source }

func (r *inventoryRecordRepo) find(st *state, companyID string, key entity.InventoryKey) (entity.InventoryRecord, bool) {
	for _, rec := range st.inventory {
		if rec.CompanyID == companyID && rec.InventoryKey == key {
			return rec, true
		}
	}
	return entity.InventoryRecord{}, false
}

func (r *inventoryRecordRepo) Get(_ context.Context, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	rec, ok := r.find(r.src.read(), companyID, key)
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *inventoryRecordRepo) GetForUpdate(ctx context.Context, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	return r.Get(ctx, companyID, key)
}

func (r *inventoryRecordRepo) Create(ctx context.Context, record *entity.InventoryRecord) error {
	return r.src.write(ctx, func(st *state) error {
		if _, ok := r.find(st, record.CompanyID, record.InventoryKey); ok {
			return fmt.Errorf("%w: registro de inventario duplicado", domain.ErrConflict)
		}
		st.inventory[record.ID] = *record
		return nil
	})
}

func (r *inventoryRecordRepo) UpdateQuantity(ctx context.Context, companyID, id string, quantity decimal.Decimal) error {
	return r.src.write(ctx, func(st *state) error {
		rec, ok := st.inventory[id]
		if !ok || rec.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if quantity.IsNegative() {
			return domain.ErrInsufficientStock
		}
		rec.Quantity = quantity
		st.inventory[id] = rec
		return nil
	})
}

// stockMovementRepo ----------------------------------------------------------

type stockMovementRepo struct{ src source }

func (r *stockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	return r.src.write(ctx, func(st *state) error {
		st.movements = append(st.movements, *movement)
		return nil
	})
}

func (r *stockMovementRepo) ListByReference(_ context.Context, companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.src.read().movements {
		if m.CompanyID == companyID && m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

// productRepo ----------------------------------------------------------------

type productRepo struct{ src source }

func (r *productRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	p, ok := r.src.read().products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetVariant(_ context.Context, companyID, variantID string) (*entity.ProductVariant, error) {
	v, ok := r.src.read().variants[variantID]
	if !ok || v.CompanyID != companyID {
		return nil, nil
	}
	return &v, nil
}

func (r *productRepo) UpdateCostPrice(ctx context.Context, companyID, productID, variantID string, cost decimal.Decimal) error {
	return r.src.write(ctx, func(st *state) error {
		if variantID != "" {
			v, ok := st.variants[variantID]
			if !ok || v.CompanyID != companyID || v.ProductID != productID {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
			}
			v.CostPrice = cost
			st.variants[variantID] = v
			return nil
		}
		p, ok := st.products[productID]
		if !ok || p.CompanyID != companyID {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		p.CostPrice = cost
		st.products[productID] = p
		return nil
	})
}

// warehouseRepo --------------------------------------------------------------

type warehouseRepo struct{ src source }

func (r *warehouseRepo) GetByID(_ context.Context, companyID, id string) (*entity.Warehouse, error) {
	w, ok := r.src.read().warehouses[id]
	if !ok || w.CompanyID != companyID || !w.Active {
		return nil, nil
	}
	return &w, nil
}

// journalRepo ----------------------------------------------------------------

type journalRepo struct{ src source }

func (r *journalRepo) Create(ctx context.Context, entry *entity.JournalEntry) error {
	return r.src.write(ctx, func(st *state) error {
		st.journals = append(st.journals, *entry)
		return nil
	})
}

func (r *journalRepo) ListByReference(_ context.Context, companyID, referenceType, referenceID string) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range r.src.read().journals {
		if e.CompanyID == companyID && e.ReferenceType == referenceType && e.ReferenceID == referenceID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

// accountResolver ------------------------------------------------------------

type accountResolver struct{ src source }

func (r *accountResolver) Resolve(_ context.Context, companyID, logicalAccount string) (string, error) {
	id, ok := r.src.read().accounts[accountKey(companyID, logicalAccount)]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrAccountNotConfigured, logicalAccount)
	}
	return id, nil
}

func accountKey(companyID, logical string) string { return companyID + "|" + logical }

// sequenceRepo ---------------------------------------------------------------

type sequenceRepo struct{ src source }

func (r *sequenceRepo) Next(ctx context.Context, companyID, name string) (int64, error) {
	var next int64
	err := r.src.write(ctx, func(st *state) error {
		key := companyID + "|" + name
		next = st.sequences[key] + 1
		st.sequences[key] = next
		return nil
	})
	return next, err
}

var (
	_ repository.PurchaseOrderRepository   = (*purchaseOrderRepo)(nil)
	_ repository.GoodsReceiptRepository    = (*goodsReceiptRepo)(nil)
	_ repository.InventoryRecordRepository = (*inventoryRecordRepo)(nil)
	_ repository.StockMovementRepository   = (*stockMovementRepo)(nil)
	_ repository.ProductRepository         = (*productRepo)(nil)
	_ repository.WarehouseRepository       = (*warehouseRepo)(nil)
	_ repository.JournalRepository         = (*journalRepo)(nil)
	_ repository.AccountResolver           = (*accountResolver)(nil)
	_ repository.SequenceRepository        = (*sequenceRepo)(nil)
)
