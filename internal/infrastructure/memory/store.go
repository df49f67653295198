// Package memory implementa los puertos de persistencia en memoria con transacciones
// reales: cada transacción trabaja sobre una copia del estado y la publica al confirmar.
package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

// state es una instantánea completa de los datos. Una vez publicada no se modifica.
type state struct {
	purchaseOrders map[string]entity.PurchaseOrder
	goodsReceipts  map[string]entity.GoodsReceipt
	grnOrder       []string
	inventory      map[string]entity.InventoryRecord
	movements      []entity.StockMovement
	products       map[string]entity.Product
	variants       map[string]entity.ProductVariant
	warehouses     map[string]entity.Warehouse
	journals       []entity.JournalEntry
	accounts       map[string]string // companyID|cuenta lógica -> account id
	sequences      map[string]int64  // companyID|nombre -> último valor
}

func newState() *state {
	return &state{
		purchaseOrders: map[string]entity.PurchaseOrder{},
		goodsReceipts:  map[string]entity.GoodsReceipt{},
		inventory:      map[string]entity.InventoryRecord{},
		products:       map[string]entity.Product{},
		variants:       map[string]entity.ProductVariant{},
		warehouses:     map[string]entity.Warehouse{},
		accounts:       map[string]string{},
		sequences:      map[string]int64{},
	}
}

// clone copia lo mutable. Las filas append-only (movimientos, asientos) se comparten.
func (s *state) clone() *state {
	c := &state{
		purchaseOrders: make(map[string]entity.PurchaseOrder, len(s.purchaseOrders)),
		goodsReceipts:  make(map[string]entity.GoodsReceipt, len(s.goodsReceipts)),
		grnOrder:       slices.Clip(s.grnOrder),
		inventory:      make(map[string]entity.InventoryRecord, len(s.inventory)),
		movements:      slices.Clip(s.movements),
		products:       make(map[string]entity.Product, len(s.products)),
		variants:       make(map[string]entity.ProductVariant, len(s.variants)),
		warehouses:     make(map[string]entity.Warehouse, len(s.warehouses)),
		journals:       slices.Clip(s.journals),
		accounts:       make(map[string]string, len(s.accounts)),
		sequences:      make(map[string]int64, len(s.sequences)),
	}
	for k, v := range s.purchaseOrders {
		c.purchaseOrders[k] = copyPurchaseOrder(v)
	}
	for k, v := range s.goodsReceipts {
		c.goodsReceipts[k] = copyGoodsReceipt(v)
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

func copyPurchaseOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Lines = slices.Clone(po.Lines)
	return po
}

func copyGoodsReceipt(g entity.GoodsReceipt) entity.GoodsReceipt {
	g.Lines = slices.Clone(g.Lines)
	g.Costs = slices.Clone(g.Costs)
	return g
}

// source abstrae dónde leen y escriben los repositorios: el estado confirmado del Store
// (autocommit) o la copia de una transacción.
type source interface {
	read() *state
	write(ctx context.Context, fn func(*state) error) error
}

// Store base de datos en memoria. Las escrituras se serializan; las lecturas fuera de
// transacción ven siempre el último estado confirmado.
type Store struct {
	mu        sync.Mutex
	committed atomic.Pointer[state]
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	s := &Store{}
	s.committed.Store(newState())
	return s
}

func (s *Store) read() *state { return s.committed.Load() }

func (s *Store) write(ctx context.Context, fn func(*state) error) error {
	return s.Run(ctx, func(tx repository.Tx) error {
		return fn(tx.(*memTx).st)
	})
}

// Run ejecuta fn en una transacción. Si fn retorna error o el contexto se cancela,
// nada de lo escrito se publica.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{st: s.committed.Load().clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.committed.Store(tx.st)
	return nil
}

// Repositorios en modo autocommit sobre el estado confirmado.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return &purchaseOrderRepo{src: s} }
func (s *Store) GoodsReceipts() repository.GoodsReceiptRepository { return &goodsReceiptRepo{src: s} }
func (s *Store) InventoryRecords() repository.InventoryRecordRepository {
	return &inventoryRecordRepo{src: s}
}
func (s *Store) StockMovements() repository.StockMovementRepository { return &stockMovementRepo{src: s} }
func (s *Store) Products() repository.ProductRepository { return &productRepo{src: s} }
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{src: s} }
func (s *Store) Journals() repository.JournalRepository { return &journalRepo{src: s} }
func (s *Store) Accounts() repository.AccountResolver { return &accountResolver{src: s} }
func (s *Store) Sequences() repository.SequenceRepository { return &sequenceRepo{src: s} }

// memTx implementa repository.Tx sobre una copia privada del estado.
type memTx struct {
	st *state
}

func (t *memTx) read() *state { return t.st }

func (t *memTx) write(_ context.Context, fn func(*state) error) error {
	return fn(t.st)
}

func (t *memTx) PurchaseOrders() repository.PurchaseOrderRepository { return &purchaseOrderRepo{src: t} }
func (t *memTx) GoodsReceipts() repository.GoodsReceiptRepository { return &goodsReceiptRepo{src: t} }
func (t *memTx) InventoryRecords() repository.InventoryRecordRepository {
	return &inventoryRecordRepo{src: t}
}
func (t *memTx) StockMovements() repository.StockMovementRepository { return &stockMovementRepo{src: t} }
func (t *memTx) Products() repository.ProductRepository { return &productRepo{src: t} }
func (t *memTx) Journals() repository.JournalRepository { return &journalRepo{src: t} }
func (t *memTx) Accounts() repository.AccountResolver { return &accountResolver{src: t} }
func (t *memTx) Sequences() repository.SequenceRepository { return &sequenceRepo{src: t} }

// Nested trabaja sobre otra copia; solo si fn termina bien la copia reemplaza al estado
// de la transacción (equivalente a RELEASE SAVEPOINT).
func (t *memTx) Nested(ctx context.Context, fn func(tx repository.Tx) error) error {
	child := &memTx{st: t.st.clone()}
	if err := fn(child); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.st = child.st
	return nil
}

var _ repository.Tx = (*memTx)(nil)
