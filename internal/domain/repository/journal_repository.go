package repository

import (
	"context"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
)

// JournalRepository define el puerto de persistencia de asientos contables.
type JournalRepository interface {
	// Create persiste cabecera y líneas del asiento.
	Create(ctx context.Context, entry *entity.JournalEntry) error
	ListByReference(ctx context.Context, companyID, referenceType, referenceID string) ([]*entity.JournalEntry, error)
}

// AccountResolver resuelve cuentas lógicas (INVENTORY, TAX_PAYABLE, ACCOUNTS_PAYABLE)
// contra el plan de cuentas de la empresa.
type AccountResolver interface {
	Resolve(ctx context.Context, companyID, logicalAccount string) (string, error)
}
