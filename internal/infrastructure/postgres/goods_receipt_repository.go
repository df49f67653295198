package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación de GoodsReceiptRepository sobre PostgreSQL (usable con pool o tx).
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

const goodsReceiptColumns = `id, company_id, number, purchase_order_id, warehouse_id, status, received_date,
	notes, created_by, COALESCE(cancelled_by::text, ''), cancelled_at, created_at, updated_at`

// Create inserta cabecera y líneas. Un número repetido para la empresa es ErrConflict.
func (r *GoodsReceiptRepo) Create(ctx context.Context, grn *entity.GoodsReceipt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO goods_receipts (id, company_id, number, purchase_order_id, warehouse_id, status,
			received_date, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		grn.ID, grn.CompanyID, grn.Number, grn.PurchaseOrderID, grn.WarehouseID, grn.Status,
		grn.ReceivedDate, grn.Notes, grn.CreatedBy, grn.CreatedAt, grn.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de recepción %s", domain.ErrConflict, grn.Number)
		}
		return fmt.Errorf("insert goods receipt: %w", err)
	}

	for i, l := range grn.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO goods_receipt_lines (id, goods_receipt_id, purchase_order_line_id, product_id,
				variant_id, quantity, batch_number, bin_location, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, grn.ID, l.PurchaseOrderLineID, l.ProductID, nullableUUID(l.VariantID),
			l.Quantity, l.BatchNumber, l.BinLocation, i,
		)
		if err != nil {
			return fmt.Errorf("insert goods receipt line: %w", err)
		}
	}
	return nil
}

// AddCost inserta un costo adicional (la tabla es append-only).
func (r *GoodsReceiptRepo) AddCost(ctx context.Context, cost *entity.GoodsReceiptCost) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO goods_receipt_costs (id, company_id, goods_receipt_id, type, amount, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cost.ID, cost.CompanyID, cost.GoodsReceiptID, cost.Type, cost.Amount, cost.Description,
		cost.CreatedBy, cost.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert goods receipt cost: %w", err)
	}
	return nil
}

// GetByID obtiene la recepción con líneas y costos.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error) {
	return r.get(ctx, companyID, id, "")
}

// GetForUpdate bloquea la cabecera de la recepción (SELECT FOR UPDATE).
func (r *GoodsReceiptRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

func (r *GoodsReceiptRepo) get(ctx context.Context, companyID, id, lock string) (*entity.GoodsReceipt, error) {
	query := `SELECT ` + goodsReceiptColumns + ` FROM goods_receipts WHERE company_id = $1 AND id = $2` + lock
	grn, err := scanGoodsReceipt(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	if err := r.loadDetails(ctx, grn); err != nil {
		return nil, err
	}
	return grn, nil
}

// ListByCompany lista recepciones de la empresa, opcionalmente de una orden, más recientes primero.
func (r *GoodsReceiptRepo) ListByCompany(ctx context.Context, companyID, purchaseOrderID string) ([]*entity.GoodsReceipt, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+goodsReceiptColumns+`
		FROM goods_receipts
		WHERE company_id = $1 AND ($2 = '' OR purchase_order_id::text = $2)
		ORDER BY created_at DESC, number DESC`, companyID, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	var list []*entity.GoodsReceipt
	for rows.Next() {
		grn, err := scanGoodsReceipt(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		list = append(list, grn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	for _, grn := range list {
		if err := r.loadDetails(ctx, grn); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MarkCancelled pasa la recepción de COMPLETED a CANCELLED. Si ya no estaba COMPLETED es ErrInvalidStatus.
func (r *GoodsReceiptRepo) MarkCancelled(ctx context.Context, grn *entity.GoodsReceipt) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE goods_receipts
		SET status = $3, cancelled_by = $4, cancelled_at = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2 AND status = $7`,
		grn.CompanyID, grn.ID, entity.GRNStatusCancelled, grn.CancelledBy, grn.CancelledAt, grn.UpdatedAt,
		entity.GRNStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("cancel goods receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStatus
	}
	return nil
}

func scanGoodsReceipt(row pgx.Row) (*entity.GoodsReceipt, error) {
	var g entity.GoodsReceipt
	err := row.Scan(
		&g.ID, &g.CompanyID, &g.Number, &g.PurchaseOrderID, &g.WarehouseID, &g.Status, &g.ReceivedDate,
		&g.Notes, &g.CreatedBy, &g.CancelledBy, &g.CancelledAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoodsReceiptRepo) loadDetails(ctx context.Context, grn *entity.GoodsReceipt) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, goods_receipt_id, purchase_order_line_id, product_id, COALESCE(variant_id::text, ''),
		       quantity, batch_number, bin_location
		FROM goods_receipt_lines
		WHERE goods_receipt_id = $1
		ORDER BY position`, grn.ID)
	if err != nil {
		return fmt.Errorf("list goods receipt lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.GoodsReceiptLine, error) {
		var l entity.GoodsReceiptLine
		err := row.Scan(&l.ID, &l.GoodsReceiptID, &l.PurchaseOrderLineID, &l.ProductID, &l.VariantID,
			&l.Quantity, &l.BatchNumber, &l.BinLocation)
		return l, err
	})
	if err != nil {
		return fmt.Errorf("scan goods receipt lines: %w", err)
	}
	grn.Lines = lines

	rows, err = r.q.Query(ctx, `
		SELECT id, company_id, goods_receipt_id, type, amount, description, created_by, created_at
		FROM goods_receipt_costs
		WHERE goods_receipt_id = $1
		ORDER BY created_at, id`, grn.ID)
	if err != nil {
		return fmt.Errorf("list goods receipt costs: %w", err)
	}
	costs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.GoodsReceiptCost, error) {
		var c entity.GoodsReceiptCost
		err := row.Scan(&c.ID, &c.CompanyID, &c.GoodsReceiptID, &c.Type, &c.Amount, &c.Description,
			&c.CreatedBy, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return fmt.Errorf("scan goods receipt costs: %w", err)
	}
	grn.Costs = costs
	return nil
}
