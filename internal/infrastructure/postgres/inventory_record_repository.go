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

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de InventoryRecordRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const inventoryRecordSelect = `
	SELECT id, company_id, product_id, COALESCE(variant_id::text, ''), warehouse_id, batch_number,
	       quantity, created_at, updated_at
	FROM inventory_records
	WHERE company_id = $1 AND product_id = $2 AND COALESCE(variant_id::text, '') = $3
	  AND warehouse_id = $4 AND batch_number = $5`

// Get obtiene el registro de la llave, o nil si no existe.
func (r *InventoryRecordRepo) Get(ctx context.Context, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	return r.get(ctx, companyID, key, "")
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	return r.get(ctx, companyID, key, " FOR UPDATE")
}

func (r *InventoryRecordRepo) get(ctx context.Context, companyID string, key entity.InventoryKey, lock string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, inventoryRecordSelect+lock,
		companyID, key.ProductID, key.VariantID, key.WarehouseID, key.BatchNumber,
	).Scan(
		&rec.ID, &rec.CompanyID, &rec.ProductID, &rec.VariantID, &rec.WarehouseID, &rec.BatchNumber,
		&rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Create inserta el registro. Si otra transacción creó la misma llave primero, carga esa
// fila bloqueada en record (ID y cantidad) en lugar de fallar.
func (r *InventoryRecordRepo) Create(ctx context.Context, record *entity.InventoryRecord) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO inventory_records (id, company_id, product_id, variant_id, warehouse_id, batch_number,
			quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING`,
		record.ID, record.CompanyID, record.ProductID, nullableUUID(record.VariantID), record.WarehouseID,
		record.BatchNumber, record.Quantity, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory record: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	existing, err := r.GetForUpdate(ctx, record.CompanyID, record.InventoryKey)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: registro de inventario en conflicto", domain.ErrConflict)
	}
	*record = *existing
	return nil
}

// UpdateQuantity fija la cantidad. El CHECK quantity >= 0 se traduce a ErrInsufficientStock.
func (r *InventoryRecordRepo) UpdateQuantity(ctx context.Context, companyID, id string, quantity decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_records SET quantity = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update inventory quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
