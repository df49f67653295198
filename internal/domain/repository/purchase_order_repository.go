package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseOrderRepository define el puerto de lectura/actualización de órdenes de compra.
// La creación de órdenes está fuera del motor de recepción.
type PurchaseOrderRepository interface {
	// GetByID devuelve la orden con sus líneas, o nil si no existe para la empresa.
	GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera y las líneas (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrder, error)
	UpdateLineReceived(ctx context.Context, companyID, lineID string, received decimal.Decimal) error
	UpdateStatus(ctx context.Context, companyID, id, status string) error
}
