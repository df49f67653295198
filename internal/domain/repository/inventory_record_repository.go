package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryRecordRepository define el puerto de stock por producto/variante/bodega/lote.
type InventoryRecordRepository interface {
	// GetForUpdate bloquea y devuelve el registro, o nil si no existe.
	GetForUpdate(ctx context.Context, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error)
	Create(ctx context.Context, record *entity.InventoryRecord) error
	UpdateQuantity(ctx context.Context, companyID, id string, quantity decimal.Decimal) error
	Get(ctx context.Context, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error)
}
