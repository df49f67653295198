package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

var _ receiving.TxRunner = (*TxRunner)(nil)
var _ repository.Tx = (*txContext)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + SELECT FOR UPDATE).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txContext{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txContext expone los repositorios atados a una pgx.Tx (transacción o savepoint).
type txContext struct {
	tx pgx.Tx
}

func (t *txContext) PurchaseOrders() repository.PurchaseOrderRepository {
	return NewPurchaseOrderRepository(t.tx)
}

func (t *txContext) GoodsReceipts() repository.GoodsReceiptRepository {
	return NewGoodsReceiptRepository(t.tx)
}

func (t *txContext) InventoryRecords() repository.InventoryRecordRepository {
	return NewInventoryRecordRepository(t.tx)
}

func (t *txContext) StockMovements() repository.StockMovementRepository {
	return NewStockMovementRepository(t.tx)
}

func (t *txContext) Products() repository.ProductRepository {
	return NewProductRepository(t.tx)
}

func (t *txContext) Journals() repository.JournalRepository {
	return NewJournalRepository(t.tx)
}

func (t *txContext) Accounts() repository.AccountResolver {
	return NewAccountRepository(t.tx)
}

func (t *txContext) Sequences() repository.SequenceRepository {
	return NewSequenceRepository(t.tx)
}

// Nested abre un SAVEPOINT (pgx.Tx.Begin sobre una tx). Si fn falla se hace
// ROLLBACK TO SAVEPOINT y la transacción externa sigue utilizable.
func (t *txContext) Nested(ctx context.Context, fn func(tx repository.Tx) error) error {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	if err := fn(&txContext{tx: sp}); err != nil {
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
