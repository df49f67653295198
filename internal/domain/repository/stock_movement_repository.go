package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del kardex. Solo inserta; nunca actualiza ni borra.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByReference(ctx context.Context, companyID, referenceType, referenceID string) ([]*entity.StockMovement, error)
}
