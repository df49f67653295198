package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerTx repositorios del kardex atados a la transacción del llamador.
// repository.Tx lo implementa.
type LedgerTx interface {
	InventoryRecords() repository.InventoryRecordRepository
	StockMovements() repository.StockMovementRepository
}

// Ledger es el único escritor de cantidades de inventario y de movimientos de stock.
// No abre transacciones: siempre trabaja sobre el LedgerTx que recibe.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el kardex.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// MovementInput datos de un cambio lógico de cantidad.
type MovementInput struct {
	CompanyID     string
	ActorID       string
	Key           entity.InventoryKey
	Quantity      decimal.Decimal // siempre positivo; Receive suma, Reverse resta
	ReferenceType string
	ReferenceID   string
	Date          time.Time
	Notes         string
}

// FindOrCreate bloquea el registro de la llave (SELECT FOR UPDATE) o lo crea en cero.
func (l *Ledger) FindOrCreate(ctx context.Context, tx LedgerTx, companyID string, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	rec, err := tx.InventoryRecords().GetForUpdate(ctx, companyID, key)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	now := l.now()
	rec = &entity.InventoryRecord{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		InventoryKey: key,
		Quantity:     decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.InventoryRecords().Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AdjustQuantity suma delta (con signo) al registro. El resultado nunca queda negativo.
func (l *Ledger) AdjustQuantity(ctx context.Context, tx LedgerTx, rec *entity.InventoryRecord, delta decimal.Decimal) error {
	newQty := rec.Quantity.Add(delta)
	if newQty.IsNegative() {
		return fmt.Errorf("%w: producto %s lote %s (disponible %s, ajuste %s)",
			domain.ErrInsufficientStock, rec.ProductID, rec.BatchNumber, rec.Quantity, delta)
	}
	if err := tx.InventoryRecords().UpdateQuantity(ctx, rec.CompanyID, rec.ID, newQty); err != nil {
		return err
	}
	rec.Quantity = newQty
	rec.UpdatedAt = l.now()
	return nil
}

// AppendMovement agrega una fila al kardex. Las filas existentes nunca se modifican.
func (l *Ledger) AppendMovement(ctx context.Context, tx LedgerTx, mov *entity.StockMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	if mov.CreatedAt.IsZero() {
		mov.CreatedAt = l.now()
	}
	return tx.StockMovements().Create(ctx, mov)
}

// Receive incrementa el stock de la llave y registra un movimiento RECEIPT.
func (l *Ledger) Receive(ctx context.Context, tx LedgerTx, in MovementInput) (*entity.InventoryRecord, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	rec, err := l.FindOrCreate(ctx, tx, in.CompanyID, in.Key)
	if err != nil {
		return nil, err
	}
	if err := l.AdjustQuantity(ctx, tx, rec, in.Quantity); err != nil {
		return nil, err
	}
	if err := l.AppendMovement(ctx, tx, l.movement(in, entity.MovementTypeReceipt, in.Quantity)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Reverse descuenta el stock de la llave y registra un ADJUSTMENT negativo.
// El registro debe existir: si falta es un error de consistencia.
func (l *Ledger) Reverse(ctx context.Context, tx LedgerTx, in MovementInput) (*entity.InventoryRecord, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	rec, err := tx.InventoryRecords().GetForUpdate(ctx, in.CompanyID, in.Key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: producto %s bodega %s lote %s",
			domain.ErrInventoryMissing, in.Key.ProductID, in.Key.WarehouseID, in.Key.BatchNumber)
	}
	if err := l.AdjustQuantity(ctx, tx, rec, in.Quantity.Neg()); err != nil {
		return nil, err
	}
	if err := l.AppendMovement(ctx, tx, l.movement(in, entity.MovementTypeAdjustment, in.Quantity.Neg())); err != nil {
		return nil, err
	}
	return rec, nil
}

func (l *Ledger) movement(in MovementInput, movType string, qty decimal.Decimal) *entity.StockMovement {
	date := in.Date
	if date.IsZero() {
		date = l.now()
	}
	return &entity.StockMovement{
		CompanyID:     in.CompanyID,
		ProductID:     in.Key.ProductID,
		VariantID:     in.Key.VariantID,
		WarehouseID:   in.Key.WarehouseID,
		BatchNumber:   in.Key.BatchNumber,
		Type:          movType,
		Quantity:      qty,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Date:          date,
		CreatedBy:     in.ActorID,
		Notes:         in.Notes,
	}
}
