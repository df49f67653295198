package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, company_id, number, supplier_id, status, tax_rate, shipped_at, created_at, updated_at`

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, companyID, id, "")
}

// GetForUpdate bloquea la cabecera y las líneas de la orden (SELECT FOR UPDATE).
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, companyID, id, lock string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE company_id = $1 AND id = $2` + lock
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&po.ID, &po.CompanyID, &po.Number, &po.SupplierID, &po.Status, &po.TaxRate,
		&po.ShippedAt, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, COALESCE(variant_id::text, ''),
		       ordered_quantity, received_quantity, unit_cost
		FROM purchase_order_lines
		WHERE purchase_order_id = $1
		ORDER BY position, id`+lock, po.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ProductID, &l.VariantID,
			&l.OrderedQuantity, &l.ReceivedQuantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	return &po, nil
}

// UpdateLineReceived fija la cantidad recibida. El CHECK 0 <= received <= ordered de la tabla
// se traduce a ErrReceivedUnderflow.
func (r *PurchaseOrderRepo) UpdateLineReceived(ctx context.Context, companyID, lineID string, received decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_order_lines l
		SET received_quantity = $3
		FROM purchase_orders po
		WHERE l.id = $2 AND l.purchase_order_id = po.id AND po.company_id = $1`,
		companyID, lineID, received)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: línea %s", domain.ErrReceivedUnderflow, lineID)
		}
		return fmt.Errorf("update received quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
