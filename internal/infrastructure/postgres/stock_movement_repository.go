package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL. La tabla rechaza UPDATE y DELETE (trigger).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, company_id, product_id, variant_id, warehouse_id, batch_number,
			type, quantity, reference_type, reference_id, date, created_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.ID, m.CompanyID, m.ProductID, nullableUUID(m.VariantID), m.WarehouseID, m.BatchNumber,
		m.Type, m.Quantity, m.ReferenceType, m.ReferenceID, m.Date, m.CreatedBy, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByReference movimientos de un documento en orden de inserción.
func (r *StockMovementRepo) ListByReference(ctx context.Context, companyID, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, product_id, COALESCE(variant_id::text, ''), warehouse_id, batch_number,
		       type, quantity, reference_type, reference_id, date, created_by, notes, created_at
		FROM stock_movements
		WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY seq`, companyID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.StockMovement, error) {
		var m entity.StockMovement
		err := row.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.VariantID, &m.WarehouseID, &m.BatchNumber,
			&m.Type, &m.Quantity, &m.ReferenceType, &m.ReferenceID, &m.Date, &m.CreatedBy, &m.Notes, &m.CreatedAt)
		return &m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stock movements: %w", err)
	}
	return list, nil
}
