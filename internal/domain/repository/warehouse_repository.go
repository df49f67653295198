package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de bodegas (DIP).
type WarehouseRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Warehouse, error)
}
