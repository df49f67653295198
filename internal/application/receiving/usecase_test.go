package receiving

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/recepcion-api/internal/application/dto"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/jhoicas/recepcion-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID = "c1"
	actorID   = "u1"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeRecorder struct {
	created, cancelled, costs int
	fallbacks                 map[string]int
	failures                  map[domain.Kind]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{fallbacks: map[string]int{}, failures: map[domain.Kind]int{}}
}

func (r *fakeRecorder) GoodsReceiptCreated() { r.created++ }
func (r *fakeRecorder) GoodsReceiptCancelled() { r.cancelled++ }
func (r *fakeRecorder) CostAdded() { r.costs++ }
func (r *fakeRecorder) LandedCostFallback(op string) { r.fallbacks[op]++ }
func (r *fakeRecorder) OperationFailed(_ string, k domain.Kind) { r.failures[k]++ }

type fixture struct {
	store    *memory.Store
	uc       *GoodsReceiptUseCase
	recorder *fakeRecorder
	runner   *faultyRunner
}

// newFixture carga una orden de 100 unidades a 10 con impuesto del 17%.
func newFixture(t *testing.T, po entity.PurchaseOrder) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SeedWarehouse(ctx, entity.Warehouse{ID: "w1", CompanyID: companyID, Active: true}))
	require.NoError(t, store.SeedWarehouse(ctx, entity.Warehouse{ID: "w-otra", CompanyID: "c2", Active: true}))
	require.NoError(t, store.SeedProduct(ctx, entity.Product{ID: "p1", CompanyID: companyID, CostPrice: d("8")}))
	require.NoError(t, store.SeedProduct(ctx, entity.Product{ID: "p2", CompanyID: companyID, CostPrice: d("1")}))
	require.NoError(t, store.SeedVariant(ctx, entity.ProductVariant{ID: "v1", CompanyID: companyID, ProductID: "p2", CostPrice: d("1")}))
	require.NoError(t, store.SeedDefaultAccounts(ctx, companyID))
	require.NoError(t, store.SeedPurchaseOrder(ctx, po))

	rec := newFakeRecorder()
	runner := &faultyRunner{inner: store}
	uc := NewGoodsReceiptUseCase(runner, store.PurchaseOrders(), store.GoodsReceipts(), store.Warehouses(),
		NewSequenceNumbers("GRN"), nil,
		WithRecorder(rec),
		WithClock(func() time.Time { return fixedNow }),
		WithBatchGenerator(&BatchGenerator{intN: func(int) int { return 7 }}),
	)
	return &fixture{store: store, uc: uc, recorder: rec, runner: runner}
}

func basePO() entity.PurchaseOrder {
	return entity.PurchaseOrder{
		ID:        "po1",
		CompanyID: companyID,
		Number:    "OC-0001",
		Status:    entity.POStatusPending,
		TaxRate:   d("17"),
		Lines: []entity.PurchaseOrderLine{
			{ID: "l1", PurchaseOrderID: "po1", ProductID: "p1", OrderedQuantity: d("100"), ReceivedQuantity: decimal.Zero, UnitCost: d("10")},
		},
	}
}

func receive(lines ...dto.CreateGoodsReceiptLineRequest) dto.CreateGoodsReceiptRequest {
	return dto.CreateGoodsReceiptRequest{PurchaseOrderID: "po1", WarehouseID: "w1", Lines: lines}
}

func line(poLine, product, qty string) dto.CreateGoodsReceiptLineRequest {
	return dto.CreateGoodsReceiptLineRequest{PurchaseOrderLineID: poLine, ProductID: product, Quantity: d(qty)}
}

func (f *fixture) journal(t *testing.T, grnID, eventType string) map[string][2]string {
	t.Helper()
	entries, err := f.store.Journals().ListByReference(context.Background(), companyID, entity.ReferenceGoodsReceipt, grnID)
	require.NoError(t, err)
	for _, e := range entries {
		if e.EventType != eventType {
			continue
		}
		assert.True(t, e.TotalDebit.Equal(e.TotalCredit))
		out := map[string][2]string{}
		for _, l := range e.Lines {
			out[l.AccountID] = [2]string{l.Debit.String(), l.Credit.String()}
		}
		return out
	}
	t.Fatalf("no hay asiento %s para %s", eventType, grnID)
	return nil
}

func (f *fixture) inventory(t *testing.T, batch string) decimal.Decimal {
	t.Helper()
	rec, err := f.store.InventoryRecords().Get(context.Background(), companyID,
		entity.InventoryKey{ProductID: "p1", WarehouseID: "w1", BatchNumber: batch})
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Quantity
}

func (f *fixture) po(t *testing.T) *entity.PurchaseOrder {
	t.Helper()
	po, err := f.store.PurchaseOrders().GetByID(context.Background(), companyID, "po1")
	require.NoError(t, err)
	return po
}

func (f *fixture) productCost(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), companyID, id)
	require.NoError(t, err)
	return p.CostPrice
}

func TestCreate_FullReceipt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())

	resp, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "100")))
	require.NoError(t, err)

	assert.Equal(t, "GRN-2026-000001", resp.Number)
	assert.Equal(t, entity.GRNStatusCompleted, resp.Status)
	assert.Equal(t, entity.POStatusReceived, resp.PurchaseOrderStatus)
	assert.Equal(t, CostSourceUnitCost, resp.CostPriceSource)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "20260315-007", resp.Lines[0].BatchNumber)

	assert.True(t, f.inventory(t, "20260315-007").Equal(d("100")))
	po := f.po(t)
	assert.Equal(t, entity.POStatusReceived, po.Status)
	assert.True(t, po.Lines[0].ReceivedQuantity.Equal(d("100")))
	assert.True(t, f.productCost(t, "p1").Equal(d("10")))

	assert.Equal(t, map[string][2]string{
		"1435": {"1000", "0"},
		"2408": {"170", "0"},
		"2205": {"0", "1170"},
	}, f.journal(t, resp.ID, entity.JournalGoodsReceived))

	movs, err := f.store.StockMovements().ListByReference(ctx, companyID, entity.ReferenceGoodsReceipt, resp.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeReceipt, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("100")))

	assert.Equal(t, 1, f.recorder.created)
	assert.Equal(t, 1, f.recorder.fallbacks[OpCreate])
}

func TestCreate_ExactRemainingVersusOneLess(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, basePO())
	resp, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "99")))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, resp.PurchaseOrderStatus)

	resp, err = f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "1")))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, resp.PurchaseOrderStatus)
	assert.Equal(t, "GRN-2026-000002", resp.Number)
}

func TestCreate_OverReceiptSumsLinesPerPOLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())

	_, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "60"), line("l1", "p1", "50")))
	require.ErrorIs(t, err, domain.ErrOverReceipt)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	list, err := f.uc.List(ctx, companyID, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.True(t, f.po(t).Lines[0].ReceivedQuantity.IsZero())
	assert.Equal(t, 1, f.recorder.failures[domain.KindValidation])
}

func TestCreate_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	received := basePO()
	received.ID = "po-recibida"
	received.Status = entity.POStatusReceived

	tests := []struct {
		name string
		req  dto.CreateGoodsReceiptRequest
		want error
	}{
		{"orden inexistente", dto.CreateGoodsReceiptRequest{PurchaseOrderID: "nope", WarehouseID: "w1", Lines: []dto.CreateGoodsReceiptLineRequest{line("l1", "p1", "1")}}, domain.ErrNotFound},
		{"orden recibida", dto.CreateGoodsReceiptRequest{PurchaseOrderID: "po-recibida", WarehouseID: "w1", Lines: []dto.CreateGoodsReceiptLineRequest{line("l1", "p1", "1")}}, domain.ErrInvalidStatus},
		{"bodega de otra empresa", dto.CreateGoodsReceiptRequest{PurchaseOrderID: "po1", WarehouseID: "w-otra", Lines: []dto.CreateGoodsReceiptLineRequest{line("l1", "p1", "1")}}, domain.ErrNotFound},
		{"sin líneas", receive(), domain.ErrInvalidInput},
		{"línea ajena", receive(line("lx", "p1", "1")), domain.ErrInvalidInput},
		{"producto distinto", receive(line("l1", "p2", "1")), domain.ErrProductMismatch},
		{"cantidad cero", receive(line("l1", "p1", "0")), domain.ErrInvalidInput},
		{"cantidad negativa", receive(line("l1", "p1", "-3")), domain.ErrInvalidInput},
		{"cantidad con más de 4 decimales", receive(line("l1", "p1", "99.99996")), domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, basePO())
			require.NoError(t, f.store.SeedPurchaseOrder(ctx, received))
			_, err := f.uc.Create(ctx, companyID, actorID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_QuantityScale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())

	_, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "10.12345")))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.po(t).Lines[0].ReceivedQuantity.IsZero())

	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "10.12340")))
	require.NoError(t, err)
	assert.True(t, f.po(t).Lines[0].ReceivedQuantity.Equal(d("10.1234")))
	assert.Equal(t, map[string][2]string{
		"1435": {"101.234", "0"},
		"2408": {"17.2098", "0"},
		"2205": {"0", "118.4438"},
	}, f.journal(t, created.ID, entity.JournalGoodsReceived))
}

func TestCreate_JournalFailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	f.runner.failAccounts = true

	_, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "40")))
	require.ErrorIs(t, err, domain.ErrAccountNotConfigured)
	assert.Equal(t, domain.KindConsistency, domain.KindOf(err))

	rec, err := f.store.InventoryRecords().Get(ctx, companyID, entity.InventoryKey{ProductID: "p1", WarehouseID: "w1", BatchNumber: "20260315-007"})
	require.NoError(t, err)
	assert.Nil(t, rec)
	po := f.po(t)
	assert.Equal(t, entity.POStatusPending, po.Status)
	assert.True(t, po.Lines[0].ReceivedQuantity.IsZero())
	assert.True(t, f.productCost(t, "p1").Equal(d("8")))

	f.runner.failAccounts = false
	resp, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "40")))
	require.NoError(t, err)
	assert.Equal(t, "GRN-2026-000001", resp.Number)
}

func TestCreate_VariantTakesCostAndDefaultsFromPOLine(t *testing.T) {
	ctx := context.Background()
	po := basePO()
	po.Lines = append(po.Lines, entity.PurchaseOrderLine{
		ID: "l2", PurchaseOrderID: "po1", ProductID: "p2", VariantID: "v1",
		OrderedQuantity: d("10"), ReceivedQuantity: decimal.Zero, UnitCost: d("4"),
	})
	f := newFixture(t, po)

	req := receive(line("l2", "p2", "10"))
	req.Lines[0].BatchNumber = "LOTE-A"
	resp, err := f.uc.Create(ctx, companyID, actorID, req)
	require.NoError(t, err)
	assert.Equal(t, "v1", resp.Lines[0].VariantID)
	assert.Equal(t, entity.POStatusPartiallyReceived, resp.PurchaseOrderStatus)

	v, err := f.store.Products().GetVariant(ctx, companyID, "v1")
	require.NoError(t, err)
	assert.True(t, v.CostPrice.Equal(d("4")))
	assert.True(t, f.productCost(t, "p2").Equal(d("1")))
}

func TestCancel_RestoresStateAndPostsReversal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "100")))
	require.NoError(t, err)

	resp, err := f.uc.Cancel(ctx, companyID, "admin1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GRNStatusCancelled, resp.Status)
	assert.Equal(t, "admin1", resp.CancelledBy)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, entity.POStatusPending, resp.PurchaseOrderStatus)

	assert.True(t, f.inventory(t, "20260315-007").IsZero())
	po := f.po(t)
	assert.Equal(t, entity.POStatusPending, po.Status)
	assert.True(t, po.Lines[0].ReceivedQuantity.IsZero())

	assert.Equal(t, map[string][2]string{
		"1435": {"0", "1000"},
		"2408": {"0", "170"},
		"2205": {"1170", "0"},
	}, f.journal(t, created.ID, entity.JournalGoodsReceivedReversed))

	movs, err := f.store.StockMovements().ListByReference(ctx, companyID, entity.ReferenceGoodsReceipt, created.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.True(t, movs[0].Quantity.Add(movs[1].Quantity).IsZero())
	assert.Equal(t, entity.MovementTypeAdjustment, movs[1].Type)

	_, err = f.uc.Cancel(ctx, companyID, "admin1", created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Equal(t, 1, f.recorder.cancelled)
}

func TestCancel_ShippedOrderFallsBackToInTransit(t *testing.T) {
	ctx := context.Background()
	po := basePO()
	shipped := fixedNow.Add(-48 * time.Hour)
	po.ShippedAt = &shipped
	po.Status = entity.POStatusInTransit
	f := newFixture(t, po)

	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "30")))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, created.PurchaseOrderStatus)

	resp, err := f.uc.Cancel(ctx, companyID, actorID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusInTransit, resp.PurchaseOrderStatus)
}

func TestCancel_OneOfTwoReceiptsKeepsPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	first, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "60")))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "40")))
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, f.po(t).Status)

	resp, err := f.uc.Cancel(ctx, companyID, actorID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, resp.PurchaseOrderStatus)
	assert.True(t, f.po(t).Lines[0].ReceivedQuantity.Equal(d("40")))
	// ambas recepciones comparten el lote generado del día
	assert.True(t, f.inventory(t, "20260315-007").Equal(d("40")))
}

func TestCancel_ConsumedStockFailsWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "100")))
	require.NoError(t, err)

	// otra parte del ERP vendió 60 unidades del lote
	require.NoError(t, f.store.Run(ctx, func(tx repository.Tx) error {
		rec, err := tx.InventoryRecords().GetForUpdate(ctx, companyID, entity.InventoryKey{ProductID: "p1", WarehouseID: "w1", BatchNumber: "20260315-007"})
		if err != nil {
			return err
		}
		return tx.InventoryRecords().UpdateQuantity(ctx, companyID, rec.ID, d("40"))
	}))

	_, err = f.uc.Cancel(ctx, companyID, actorID, created.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.KindConsistency, domain.KindOf(err))

	grn, err := f.uc.GetByID(ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GRNStatusCompleted, grn.Status)
	assert.True(t, f.po(t).Lines[0].ReceivedQuantity.Equal(d("100")))
	assert.True(t, f.inventory(t, "20260315-007").Equal(d("40")))
}

func TestAddCost_UpdatesLandedCost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "100")))
	require.NoError(t, err)

	resp, err := f.uc.AddCost(ctx, companyID, "conta1", created.ID, dto.AddCostRequest{Type: entity.CostTypeShipping, Amount: d("50"), Description: "flete"})
	require.NoError(t, err)
	assert.Equal(t, CostSourceLandedCost, resp.CostPriceSource)
	assert.Empty(t, resp.LandedCostWarning)
	assert.True(t, f.productCost(t, "p1").Equal(d("10.5")))

	assert.Equal(t, map[string][2]string{
		"1435": {"50", "0"},
		"2205": {"0", "50"},
	}, f.journal(t, created.ID, entity.JournalGRNCostAdded))

	lc, err := f.uc.GetLandedCost(ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.True(t, lc.HasAdditionalCosts)
	assert.True(t, lc.TotalAdditionalCost.Equal(d("50")))
	require.Len(t, lc.Products, 1)
	assert.True(t, lc.Products[0].LandedCostPerUnit.Equal(d("10.5")))
	assert.Equal(t, 1, f.recorder.costs)
}

func TestAddCost_RefreshFailureKeepsCostAndWarns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "100")))
	require.NoError(t, err)

	f.runner.failProducts = true
	resp, err := f.uc.AddCost(ctx, companyID, actorID, created.ID, dto.AddCostRequest{Type: entity.CostTypeCustoms, Amount: d("20")})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.LandedCostWarning)
	assert.Empty(t, resp.CostPriceSource)

	grn, err := f.uc.GetByID(ctx, companyID, created.ID)
	require.NoError(t, err)
	require.Len(t, grn.Costs, 1)
	assert.True(t, grn.Costs[0].Amount.Equal(d("20")))
	assert.True(t, f.productCost(t, "p1").Equal(d("10")))
	f.journal(t, created.ID, entity.JournalGRNCostAdded)
	assert.Equal(t, 1, f.recorder.fallbacks[OpAddCost])
}

func TestAddCost_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "10")))
	require.NoError(t, err)

	_, err = f.uc.AddCost(ctx, companyID, actorID, created.ID, dto.AddCostRequest{Type: entity.CostTypeOther, Amount: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.uc.AddCost(ctx, companyID, actorID, created.ID, dto.AddCostRequest{Type: entity.CostTypeShipping, Amount: d("0.00001")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	got, err := f.uc.GetByID(ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Costs)

	_, err = f.uc.AddCost(ctx, companyID, actorID, created.ID, dto.AddCostRequest{Type: "SEGURO", Amount: d("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddCost(ctx, companyID, actorID, "nope", dto.AddCostRequest{Type: entity.CostTypeOther, Amount: d("5")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Cancel(ctx, companyID, actorID, created.ID)
	require.NoError(t, err)
	_, err = f.uc.AddCost(ctx, companyID, actorID, created.ID, dto.AddCostRequest{Type: entity.CostTypeOther, Amount: d("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCancel_ReversesAdditionalCosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "100")))
	require.NoError(t, err)
	_, err = f.uc.AddCost(ctx, companyID, actorID, created.ID, dto.AddCostRequest{Type: entity.CostTypeShipping, Amount: d("50")})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, companyID, actorID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, map[string][2]string{
		"1435": {"0", "50"},
		"2205": {"50", "0"},
	}, f.journal(t, created.ID, entity.JournalGRNCostReversed))
}

func TestGetLandedCost_WithoutCostsReportsUnitCost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	created, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "5")))
	require.NoError(t, err)

	lc, err := f.uc.GetLandedCost(ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.False(t, lc.HasAdditionalCosts)
	require.Len(t, lc.Lines, 1)
	assert.True(t, lc.Lines[0].LandedCostPerUnit.Equal(d("10")))
	assert.True(t, lc.Lines[0].AllocatedCost.IsZero())

	_, err = f.uc.GetLandedCost(ctx, "c2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltersByPurchaseOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, basePO())
	_, err := f.uc.Create(ctx, companyID, actorID, receive(line("l1", "p1", "5")))
	require.NoError(t, err)

	all, err := f.uc.List(ctx, companyID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, all.Total)

	none, err := f.uc.List(ctx, companyID, "otra-orden")
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	other, err := f.uc.List(ctx, "c2", "")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

// faultyRunner envuelve el Store para forzar fallas de cuentas o de productos.
type faultyRunner struct {
	inner        TxRunner
	failAccounts bool
	failProducts bool
}

func (r *faultyRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	return r.inner.Run(ctx, func(tx repository.Tx) error {
		return fn(&faultyTx{Tx: tx, r: r})
	})
}

type faultyTx struct {
	repository.Tx
	r *faultyRunner
}

func (t *faultyTx) Accounts() repository.AccountResolver {
	if t.r.failAccounts {
		return missingAccounts{}
	}
	return t.Tx.Accounts()
}

func (t *faultyTx) Products() repository.ProductRepository {
	if t.r.failProducts {
		return brokenProducts{ProductRepository: t.Tx.Products()}
	}
	return t.Tx.Products()
}

func (t *faultyTx) Nested(ctx context.Context, fn func(tx repository.Tx) error) error {
	return t.Tx.Nested(ctx, func(n repository.Tx) error {
		return fn(&faultyTx{Tx: n, r: t.r})
	})
}

type missingAccounts struct{}

func (missingAccounts) Resolve(_ context.Context, _, logical string) (string, error) {
	return "", errors.Join(domain.ErrAccountNotConfigured, errors.New(logical))
}

type brokenProducts struct {
	repository.ProductRepository
}

func (brokenProducts) UpdateCostPrice(context.Context, string, string, string, decimal.Decimal) error {
	return errors.New("products table locked")
}
