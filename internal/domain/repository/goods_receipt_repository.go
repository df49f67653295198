package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
)

// GoodsReceiptRepository define el puerto de persistencia de notas de recepción.
type GoodsReceiptRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, grn *entity.GoodsReceipt) error
	AddCost(ctx context.Context, cost *entity.GoodsReceiptCost) error
	// GetByID devuelve la recepción con líneas y costos, o nil si no existe.
	GetByID(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error)
	ListByCompany(ctx context.Context, companyID, purchaseOrderID string) ([]*entity.GoodsReceipt, error)
	// MarkCancelled deja la recepción en CANCELLED (transición terminal).
	MarkCancelled(ctx context.Context, grn *entity.GoodsReceipt) error
}
