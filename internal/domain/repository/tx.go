package repository

import "context"

// Tx es el contexto transaccional: todos los repositorios que expone escriben en la
// misma transacción. Se pasa explícitamente a cada colaborador del motor.
type Tx interface {
	PurchaseOrders() PurchaseOrderRepository
	GoodsReceipts() GoodsReceiptRepository
	InventoryRecords() InventoryRecordRepository
	StockMovements() StockMovementRepository
	Products() ProductRepository
	Journals() JournalRepository
	Accounts() AccountResolver
	Sequences() SequenceRepository

	// Nested ejecuta fn en un savepoint: si fn falla solo se deshace lo hecho dentro de fn.
	Nested(ctx context.Context, fn func(tx Tx) error) error
}
