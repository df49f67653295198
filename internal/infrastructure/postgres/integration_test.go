//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/recepcion-api/internal/application/dto"
	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/recepcion-api/pkg/config"
)

type seeded struct {
	companyID, actorID, warehouseID, productID, poID, poLineID string
}

// newTestPool levanta PostgreSQL en un contenedor, aplica migrations/ y abre el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("recepcion_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "iniciar contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mg, err := postgres.NewMigrator(dsn, "../../../migrations", nil)
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4, MinConns: 1, LockTimeout: "5s"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// seed carga bodega, producto, cuentas y una orden de 100 unidades a 10 con 17% de impuesto.
func seed(t *testing.T, pool *pgxpool.Pool) seeded {
	t.Helper()
	ctx := context.Background()
	s := seeded{
		companyID:   uuid.NewString(),
		actorID:     uuid.NewString(),
		warehouseID: uuid.NewString(),
		productID:   uuid.NewString(),
		poID:        uuid.NewString(),
		poLineID:    uuid.NewString(),
	}
	exec := func(sql string, args ...any) {
		_, err := pool.Exec(ctx, sql, args...)
		require.NoError(t, err, sql)
	}
	exec(`INSERT INTO warehouses (id, company_id, code, name) VALUES ($1, $2, 'B01', 'Bodega principal')`, s.warehouseID, s.companyID)
	exec(`INSERT INTO products (id, company_id, sku, name, cost_price) VALUES ($1, $2, 'SKU-1', 'Tornillo', 8)`, s.productID, s.companyID)
	for code, logical := range map[string]string{
		"1435": entity.AccountInventory,
		"2408": entity.AccountTaxPayable,
		"2205": entity.AccountAccountsPayable,
	} {
		exec(`INSERT INTO accounts (id, company_id, code, name, logical_code) VALUES ($1, $2, $3, $3, $4)`,
			uuid.NewString(), s.companyID, code, logical)
	}
	exec(`INSERT INTO purchase_orders (id, company_id, number, supplier_id, status, tax_rate)
		VALUES ($1, $2, 'OC-0001', $3, 'PENDING', 17)`, s.poID, s.companyID, uuid.NewString())
	exec(`INSERT INTO purchase_order_lines (id, purchase_order_id, product_id, ordered_quantity, unit_cost)
		VALUES ($1, $2, $3, 100, 10)`, s.poLineID, s.poID, s.productID)
	return s
}

func newUseCase(pool *pgxpool.Pool) *receiving.GoodsReceiptUseCase {
	return receiving.NewGoodsReceiptUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewPurchaseOrderRepository(pool),
		postgres.NewGoodsReceiptRepository(pool),
		postgres.NewWarehouseRepository(pool),
		receiving.NewSequenceNumbers("GRN"),
		nil,
	)
}

func receiveRequest(s seeded, qty int64) dto.CreateGoodsReceiptRequest {
	return dto.CreateGoodsReceiptRequest{
		PurchaseOrderID: s.poID,
		WarehouseID:     s.warehouseID,
		Lines: []dto.CreateGoodsReceiptLineRequest{{
			PurchaseOrderLineID: s.poLineID,
			ProductID:           s.productID,
			Quantity:            decimal.NewFromInt(qty),
			BatchNumber:         "L-001",
		}},
	}
}

func TestGoodsReceiptLifecycle_Postgres(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()
	key := entity.InventoryKey{ProductID: s.productID, WarehouseID: s.warehouseID, BatchNumber: "L-001"}
	inventory := postgres.NewInventoryRecordRepository(pool)
	journals := postgres.NewJournalRepository(pool)

	grn, err := uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 100))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, grn.PurchaseOrderStatus)
	assert.Regexp(t, `^GRN-\d{4}-000001$`, grn.Number)

	rec, err := inventory.Get(ctx, s.companyID, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(100)))

	entries, err := journals.ListByReference(ctx, s.companyID, entity.ReferenceGoodsReceipt, grn.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].TotalDebit.Equal(decimal.NewFromInt(1170)))
	assert.True(t, entries[0].TotalCredit.Equal(decimal.NewFromInt(1170)))

	added, err := uc.AddCost(ctx, s.companyID, s.actorID, grn.ID, dto.AddCostRequest{Type: entity.CostTypeShipping, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Empty(t, added.LandedCostWarning)
	product, err := postgres.NewProductRepository(pool).GetByID(ctx, s.companyID, s.productID)
	require.NoError(t, err)
	assert.True(t, product.CostPrice.Equal(decimal.RequireFromString("10.5")), product.CostPrice.String())

	cancelled, err := uc.Cancel(ctx, s.companyID, s.actorID, grn.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GRNStatusCancelled, cancelled.Status)
	assert.Equal(t, entity.POStatusPending, cancelled.PurchaseOrderStatus)

	rec, err = inventory.Get(ctx, s.companyID, key)
	require.NoError(t, err)
	assert.True(t, rec.Quantity.IsZero())

	entries, err = journals.ListByReference(ctx, s.companyID, entity.ReferenceGoodsReceipt, grn.ID)
	require.NoError(t, err)
	events := make([]string, 0, len(entries))
	for _, e := range entries {
		events = append(events, e.EventType)
		assert.True(t, e.TotalDebit.Equal(e.TotalCredit))
	}
	assert.Equal(t, []string{
		entity.JournalGoodsReceived,
		entity.JournalGRNCostAdded,
		entity.JournalGRNCostReversed,
		entity.JournalGoodsReceivedReversed,
	}, events)

	movements, err := postgres.NewStockMovementRepository(pool).ListByReference(ctx, s.companyID, entity.ReferenceGoodsReceipt, grn.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.True(t, movements[0].Quantity.Add(movements[1].Quantity).IsZero())

	_, err = uc.Cancel(ctx, s.companyID, s.actorID, grn.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGoodsReceipt_OverReceiptRollsBack_Postgres(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()

	_, err := uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 60))
	require.NoError(t, err)
	_, err = uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 41))
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	second, err := uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 40))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, second.PurchaseOrderStatus)
	assert.Regexp(t, `-000002$`, second.Number)

	list, err := uc.List(ctx, s.companyID, s.poID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}

// Dos recepciones simultáneas de 60 contra 100 pendientes: el FOR UPDATE sobre la orden
// serializa la revalidación y la segunda falla.
func TestGoodsReceipt_ConcurrentOverReceipt_Postgres(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 60))
		}()
	}
	close(start)
	wg.Wait()

	var ok, over int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrOverReceipt):
			over++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, over)

	po, err := postgres.NewPurchaseOrderRepository(pool).GetByID(ctx, s.companyID, s.poID)
	require.NoError(t, err)
	assert.True(t, po.Lines[0].ReceivedQuantity.Equal(decimal.NewFromInt(60)), po.Lines[0].ReceivedQuantity.String())
	assert.Equal(t, entity.POStatusPartiallyReceived, po.Status)

	rec, err := postgres.NewInventoryRecordRepository(pool).Get(ctx, s.companyID,
		entity.InventoryKey{ProductID: s.productID, WarehouseID: s.warehouseID, BatchNumber: "L-001"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.Equal(decimal.NewFromInt(60)))

	list, err := uc.List(ctx, s.companyID, s.poID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestGoodsReceipt_MissingAccountRollsBack_Postgres(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `UPDATE accounts SET active = FALSE WHERE company_id = $1 AND logical_code = $2`,
		s.companyID, entity.AccountTaxPayable)
	require.NoError(t, err)

	_, err = uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 10))
	require.ErrorIs(t, err, domain.ErrAccountNotConfigured)

	po, err := postgres.NewPurchaseOrderRepository(pool).GetByID(ctx, s.companyID, s.poID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPending, po.Status)
	assert.True(t, po.Lines[0].ReceivedQuantity.IsZero())

	var grns int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM goods_receipts WHERE company_id = $1`, s.companyID).Scan(&grns))
	assert.Zero(t, grns)

	var sequences int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM document_sequences WHERE company_id = $1`, s.companyID).Scan(&sequences))
	assert.Zero(t, sequences, "el rollback no debe consumir número")
}

func TestStockMovements_AppendOnly_Postgres(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()

	grn, err := uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 5))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE stock_movements SET quantity = 1 WHERE reference_id = $1`, grn.ID)
	assert.Error(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM stock_movements WHERE reference_id = $1`, grn.ID)
	assert.Error(t, err)
}

func TestInventoryRecord_NonNegative_Postgres(t *testing.T) {
	pool := newTestPool(t)
	s := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()

	grn, err := uc.Create(ctx, s.companyID, s.actorID, receiveRequest(s, 5))
	require.NoError(t, err)

	repo := postgres.NewInventoryRecordRepository(pool)
	rec, err := repo.Get(ctx, s.companyID, entity.InventoryKey{ProductID: s.productID, WarehouseID: s.warehouseID, BatchNumber: "L-001"})
	require.NoError(t, err)
	require.NotNil(t, rec)

	err = repo.UpdateQuantity(ctx, s.companyID, rec.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Stock consumido: la anulación debe fallar sin tocar nada.
	require.NoError(t, repo.UpdateQuantity(ctx, s.companyID, rec.ID, decimal.NewFromInt(2)))
	_, err = uc.Cancel(ctx, s.companyID, s.actorID, grn.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.GetByID(ctx, s.companyID, grn.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GRNStatusCompleted, got.Status)
}
