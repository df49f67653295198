// Package receiving orquesta la recepción de mercancía contra órdenes de compra:
// kardex, ciclo de vida de la orden, costo aterrizado y asientos contables en una sola transacción.
package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/recepcion-api/internal/application/dto"
	stock "github.com/jhoicas/recepcion-api/internal/application/inventory"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/purchasing"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/jhoicas/recepcion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Nombres de operación usados en logs y métricas.
const (
	OpCreate        = "create"
	OpAddCost       = "add_cost"
	OpCancel        = "cancel"
	OpGetLandedCost = "get_landed_cost"
)

// GoodsReceiptUseCase casos de uso de notas de recepción (GRN).
type GoodsReceiptUseCase struct {
	txRunner      TxRunner
	poRepo        repository.PurchaseOrderRepository
	grnRepo       repository.GoodsReceiptRepository
	warehouseRepo repository.WarehouseRepository
	numbers       NumberGenerator
	ledger        *stock.Ledger
	poster        *JournalPoster
	batches       *BatchGenerator
	recorder      Recorder
	log           *logger.Logger
	now           func() time.Time
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*GoodsReceiptUseCase)

// WithRecorder registra eventos en métricas.
func WithRecorder(r Recorder) Option {
	return func(uc *GoodsReceiptUseCase) { uc.recorder = r }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *GoodsReceiptUseCase) { uc.now = now }
}

// WithBatchGenerator reemplaza el generador de lotes.
func WithBatchGenerator(b *BatchGenerator) Option {
	return func(uc *GoodsReceiptUseCase) { uc.batches = b }
}

// NewGoodsReceiptUseCase construye el caso de uso. Los repositorios sueltos se usan solo
// para lecturas fuera de transacción; toda escritura pasa por txRunner.
func NewGoodsReceiptUseCase(
	txRunner TxRunner,
	poRepo repository.PurchaseOrderRepository,
	grnRepo repository.GoodsReceiptRepository,
	warehouseRepo repository.WarehouseRepository,
	numbers NumberGenerator,
	log *logger.Logger,
	opts ...Option,
) *GoodsReceiptUseCase {
	uc := &GoodsReceiptUseCase{
		txRunner:      txRunner,
		poRepo:        poRepo,
		grnRepo:       grnRepo,
		warehouseRepo: warehouseRepo,
		numbers:       numbers,
		ledger:        stock.NewLedger(),
		poster:        NewJournalPoster(),
		batches:       NewBatchGenerator(),
		recorder:      nopRecorder{},
		log:           log,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// Create registra la recepción de mercancía de una orden de compra.
// Valida contra la orden leída sin bloqueo y de nuevo dentro de la transacción con la
// orden bloqueada (SELECT FOR UPDATE). Cualquier error deshace todo.
func (uc *GoodsReceiptUseCase) Create(ctx context.Context, companyID, actorID string, in dto.CreateGoodsReceiptRequest) (*dto.GoodsReceiptResponse, error) {
	po, err := uc.poRepo.GetByID(ctx, companyID, in.PurchaseOrderID)
	if err != nil {
		return nil, uc.fail(OpCreate, err)
	}
	if po == nil {
		return nil, uc.fail(OpCreate, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, in.PurchaseOrderID))
	}
	if err := checkReceivable(po, in.Lines); err != nil {
		return nil, uc.fail(OpCreate, err)
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, companyID, in.WarehouseID)
	if err != nil {
		return nil, uc.fail(OpCreate, err)
	}
	if wh == nil {
		return nil, uc.fail(OpCreate, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, in.WarehouseID))
	}

	now := uc.now()
	receivedDate := now
	if in.ReceivedDate != nil && !in.ReceivedDate.IsZero() {
		receivedDate = *in.ReceivedDate
	}
	grn := &entity.GoodsReceipt{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		PurchaseOrderID: po.ID,
		WarehouseID:     wh.ID,
		Status:          entity.GRNStatusCompleted,
		ReceivedDate:    receivedDate,
		Notes:           in.Notes,
		CreatedBy:       actorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var (
		refresh  CostRefresh
		poStatus string
	)
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		locked, err := tx.PurchaseOrders().GetForUpdate(ctx, companyID, po.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, po.ID)
		}
		if err := checkReceivable(locked, in.Lines); err != nil {
			return err
		}

		number, err := uc.numbers.NextGRNNumber(ctx, tx, companyID, receivedDate)
		if err != nil {
			return err
		}
		grn.Number = number
		grn.Lines = uc.buildLines(grn, locked, in.Lines)
		if err := tx.GoodsReceipts().Create(ctx, grn); err != nil {
			return fmt.Errorf("create goods receipt: %w", err)
		}

		poLines := locked.LinesByID()
		base := decimal.Zero
		for _, l := range grn.Lines {
			if _, err := uc.ledger.Receive(ctx, tx, stock.MovementInput{
				CompanyID:     companyID,
				ActorID:       actorID,
				Key:           lineKey(grn, l),
				Quantity:      l.Quantity,
				ReferenceType: entity.ReferenceGoodsReceipt,
				ReferenceID:   grn.ID,
				Date:          receivedDate,
				Notes:         grn.Number,
			}); err != nil {
				return fmt.Errorf("receive line %s: %w", l.ID, err)
			}
			poLine := poLines[l.PurchaseOrderLineID]
			poLine.ReceivedQuantity = poLine.ReceivedQuantity.Add(l.Quantity)
			base = base.Add(l.Quantity.Mul(poLine.UnitCost))
		}
		if err := persistReceived(ctx, tx, locked, grn.Lines); err != nil {
			return err
		}
		if poStatus, err = advanceStatus(ctx, tx, locked); err != nil {
			return err
		}
		if refresh, err = refreshCostPrices(ctx, tx, locked, grn); err != nil {
			return err
		}
		_, err = uc.poster.Post(ctx, tx, JournalInput{
			CompanyID:     companyID,
			ActorID:       actorID,
			EventType:     entity.JournalGoodsReceived,
			ReferenceType: entity.ReferenceGoodsReceipt,
			ReferenceID:   grn.ID,
			Description:   fmt.Sprintf("Recepción %s de la orden %s", grn.Number, locked.Number),
			Base:          base,
			TaxRate:       locked.TaxRate,
			Date:          receivedDate,
		})
		return err
	})
	if err != nil {
		return nil, uc.fail(OpCreate, err)
	}

	uc.recorder.GoodsReceiptCreated()
	if refresh.Fallback() {
		uc.recorder.LandedCostFallback(OpCreate)
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("actor_id", actorID).
		Str("grn_id", grn.ID).
		Str("grn_number", grn.Number).
		Str("po_status", poStatus).
		Str("cost_price_source", refresh.Source).
		Msg("goods receipt created")

	resp := toGoodsReceiptResponse(grn)
	resp.PurchaseOrderStatus = poStatus
	resp.CostPriceSource = refresh.Source
	return resp, nil
}

// AddCost agrega un costo posterior (flete, aduana, ...) a una recepción COMPLETED.
// El costo y su asiento siempre se confirman juntos; el recálculo del costo aterrizado
// corre en un savepoint y si falla solo se reporta como advertencia.
func (uc *GoodsReceiptUseCase) AddCost(ctx context.Context, companyID, actorID, grnID string, in dto.AddCostRequest) (*dto.AddCostResponse, error) {
	if !entity.ValidCostType(in.Type) {
		return nil, uc.fail(OpAddCost, fmt.Errorf("%w: tipo de costo %q", domain.ErrInvalidInput, in.Type))
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, uc.fail(OpAddCost, domain.ErrInvalidAmount)
	}
	if !entity.FitsScale(in.Amount) {
		return nil, uc.fail(OpAddCost, fmt.Errorf("%w: %s tiene más de %d decimales", domain.ErrInvalidAmount, in.Amount, entity.DecimalScale))
	}

	var (
		cost       *entity.GoodsReceiptCost
		refresh    CostRefresh
		refreshErr error
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		grn, err := tx.GoodsReceipts().GetForUpdate(ctx, companyID, grnID)
		if err != nil {
			return err
		}
		if grn == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, grnID)
		}
		if grn.Status != entity.GRNStatusCompleted {
			return fmt.Errorf("%w: la recepción %s está %s", domain.ErrInvalidStatus, grn.Number, grn.Status)
		}

		now := uc.now()
		cost = &entity.GoodsReceiptCost{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			GoodsReceiptID: grn.ID,
			Type:           in.Type,
			Amount:         in.Amount,
			Description:    in.Description,
			CreatedBy:      actorID,
			CreatedAt:      now,
		}
		if err := tx.GoodsReceipts().AddCost(ctx, cost); err != nil {
			return fmt.Errorf("add goods receipt cost: %w", err)
		}
		grn.Costs = append(grn.Costs, *cost)

		if _, err := uc.poster.Post(ctx, tx, JournalInput{
			CompanyID:     companyID,
			ActorID:       actorID,
			EventType:     entity.JournalGRNCostAdded,
			ReferenceType: entity.ReferenceGoodsReceipt,
			ReferenceID:   grn.ID,
			Description:   fmt.Sprintf("Costo %s de la recepción %s", cost.Type, grn.Number),
			Base:          cost.Amount,
			TaxRate:       decimal.Zero,
			Date:          now,
		}); err != nil {
			return err
		}

		refreshErr = tx.Nested(ctx, func(ntx repository.Tx) error {
			po, err := ntx.PurchaseOrders().GetByID(ctx, companyID, grn.PurchaseOrderID)
			if err != nil {
				return err
			}
			if po == nil {
				return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, grn.PurchaseOrderID)
			}
			refresh, err = refreshCostPrices(ctx, ntx, po, grn)
			return err
		})
		return nil
	})
	if err != nil {
		return nil, uc.fail(OpAddCost, err)
	}

	uc.recorder.CostAdded()
	resp := &dto.AddCostResponse{
		GoodsReceiptID: cost.GoodsReceiptID,
		Cost:           toCostResponse(*cost),
	}
	if refreshErr != nil {
		uc.recorder.LandedCostFallback(OpAddCost)
		uc.log.Warn().
			Err(refreshErr).
			Str("company_id", companyID).
			Str("actor_id", actorID).
			Str("grn_id", grnID).
			Msg("landed cost refresh failed; cost recorded without updating product cost")
		resp.LandedCostWarning = fmt.Sprintf("costo registrado; no se actualizó el costo de los productos: %v", refreshErr)
		return resp, nil
	}
	resp.CostPriceSource = refresh.Source
	uc.log.Info().
		Str("company_id", companyID).
		Str("actor_id", actorID).
		Str("grn_id", grnID).
		Str("cost_type", cost.Type).
		Str("amount", cost.Amount.String()).
		Msg("goods receipt cost added")
	return resp, nil
}

// Cancel anula una recepción COMPLETED: revierte inventario, cantidades recibidas,
// asientos de costos y de la recepción, y recalcula el estado de la orden.
// Orden de bloqueo: recepción, orden de compra, inventario.
func (uc *GoodsReceiptUseCase) Cancel(ctx context.Context, companyID, actorID, grnID string) (*dto.GoodsReceiptResponse, error) {
	var (
		grn      *entity.GoodsReceipt
		poStatus string
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		g, err := tx.GoodsReceipts().GetForUpdate(ctx, companyID, grnID)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, grnID)
		}
		if g.Status != entity.GRNStatusCompleted {
			return fmt.Errorf("%w: la recepción %s está %s", domain.ErrInvalidStatus, g.Number, g.Status)
		}
		po, err := tx.PurchaseOrders().GetForUpdate(ctx, companyID, g.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, g.PurchaseOrderID)
		}

		now := uc.now()
		poLines := po.LinesByID()
		base := decimal.Zero
		for _, l := range g.Lines {
			poLine, ok := poLines[l.PurchaseOrderLineID]
			if !ok {
				return fmt.Errorf("%w: la línea de orden %s ya no existe", domain.ErrReceivedUnderflow, l.PurchaseOrderLineID)
			}
			if _, err := uc.ledger.Reverse(ctx, tx, stock.MovementInput{
				CompanyID:     companyID,
				ActorID:       actorID,
				Key:           lineKey(g, l),
				Quantity:      l.Quantity,
				ReferenceType: entity.ReferenceGoodsReceipt,
				ReferenceID:   g.ID,
				Date:          now,
				Notes:         "Anulación " + g.Number,
			}); err != nil {
				return fmt.Errorf("reverse line %s: %w", l.ID, err)
			}
			received := poLine.ReceivedQuantity.Sub(l.Quantity)
			if received.IsNegative() {
				return fmt.Errorf("%w: línea de orden %s", domain.ErrReceivedUnderflow, poLine.ID)
			}
			poLine.ReceivedQuantity = received
			base = base.Add(l.Quantity.Mul(poLine.UnitCost))
		}
		if err := persistReceived(ctx, tx, po, g.Lines); err != nil {
			return err
		}

		for _, c := range g.Costs {
			if _, err := uc.poster.Post(ctx, tx, JournalInput{
				CompanyID:     companyID,
				ActorID:       actorID,
				EventType:     entity.JournalGRNCostReversed,
				ReferenceType: entity.ReferenceGoodsReceipt,
				ReferenceID:   g.ID,
				Description:   fmt.Sprintf("Reversión costo %s de la recepción %s", c.Type, g.Number),
				Base:          c.Amount,
				TaxRate:       decimal.Zero,
				Date:          now,
			}); err != nil {
				return err
			}
		}
		if _, err := uc.poster.Post(ctx, tx, JournalInput{
			CompanyID:     companyID,
			ActorID:       actorID,
			EventType:     entity.JournalGoodsReceivedReversed,
			ReferenceType: entity.ReferenceGoodsReceipt,
			ReferenceID:   g.ID,
			Description:   fmt.Sprintf("Anulación recepción %s de la orden %s", g.Number, po.Number),
			Base:          base,
			TaxRate:       po.TaxRate,
			Date:          now,
		}); err != nil {
			return err
		}

		if poStatus, err = advanceStatus(ctx, tx, po); err != nil {
			return err
		}

		g.Status = entity.GRNStatusCancelled
		g.CancelledBy = actorID
		g.CancelledAt = &now
		g.UpdatedAt = now
		if err := tx.GoodsReceipts().MarkCancelled(ctx, g); err != nil {
			return fmt.Errorf("cancel goods receipt: %w", err)
		}
		grn = g
		return nil
	})
	if err != nil {
		return nil, uc.fail(OpCancel, err)
	}

	uc.recorder.GoodsReceiptCancelled()
	uc.log.Info().
		Str("company_id", companyID).
		Str("actor_id", actorID).
		Str("grn_id", grn.ID).
		Str("grn_number", grn.Number).
		Str("po_status", poStatus).
		Msg("goods receipt cancelled")

	resp := toGoodsReceiptResponse(grn)
	resp.PurchaseOrderStatus = poStatus
	return resp, nil
}

// GetLandedCost calcula el costo aterrizado de la recepción sin escribir nada.
// Sin costos adicionales reporta el costo unitario de la orden.
func (uc *GoodsReceiptUseCase) GetLandedCost(ctx context.Context, companyID, grnID string) (*dto.LandedCostResponse, error) {
	grn, err := uc.grnRepo.GetByID(ctx, companyID, grnID)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, fmt.Errorf("%w: recepción %s", domain.ErrNotFound, grnID)
	}
	po, err := uc.poRepo.GetByID(ctx, companyID, grn.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, grn.PurchaseOrderID)
	}
	refresh, err := computeLandedCost(po, grn)
	if err != nil {
		return nil, uc.fail(OpGetLandedCost, err)
	}
	return toLandedCostResponse(grn, refresh), nil
}

// List lista las recepciones de la empresa; purchaseOrderID vacío no filtra.
func (uc *GoodsReceiptUseCase) List(ctx context.Context, companyID, purchaseOrderID string) (*dto.ListResponse[dto.GoodsReceiptResponse], error) {
	list, err := uc.grnRepo.ListByCompany(ctx, companyID, purchaseOrderID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GoodsReceiptResponse, 0, len(list))
	for _, g := range list {
		items = append(items, *toGoodsReceiptResponse(g))
	}
	return &dto.ListResponse[dto.GoodsReceiptResponse]{Items: items, Total: len(items)}, nil
}

// GetByID obtiene una recepción con líneas y costos.
func (uc *GoodsReceiptUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.GoodsReceiptResponse, error) {
	grn, err := uc.grnRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, fmt.Errorf("%w: recepción %s", domain.ErrNotFound, id)
	}
	return toGoodsReceiptResponse(grn), nil
}

// fail cuenta el error por clase y lo devuelve sin cambios.
func (uc *GoodsReceiptUseCase) fail(op string, err error) error {
	uc.recorder.OperationFailed(op, domain.KindOf(err))
	return err
}

// buildLines crea las líneas de la recepción. La variante vacía toma la de la línea de
// la orden; el lote vacío se genera.
func (uc *GoodsReceiptUseCase) buildLines(grn *entity.GoodsReceipt, po *entity.PurchaseOrder, in []dto.CreateGoodsReceiptLineRequest) []entity.GoodsReceiptLine {
	poLines := po.LinesByID()
	lines := make([]entity.GoodsReceiptLine, 0, len(in))
	for _, l := range in {
		variantID := l.VariantID
		if variantID == "" {
			variantID = poLines[l.PurchaseOrderLineID].VariantID
		}
		batch := l.BatchNumber
		if batch == "" {
			batch = uc.batches.Next(grn.ReceivedDate)
		}
		lines = append(lines, entity.GoodsReceiptLine{
			ID:                  uuid.New().String(),
			GoodsReceiptID:      grn.ID,
			PurchaseOrderLineID: l.PurchaseOrderLineID,
			ProductID:           l.ProductID,
			VariantID:           variantID,
			Quantity:            l.Quantity,
			BatchNumber:         batch,
			BinLocation:         l.BinLocation,
		})
	}
	return lines
}

// checkReceivable valida estado de la orden y líneas solicitadas. Indexa las líneas de la
// orden una sola vez y acumula la cantidad pedida por línea antes de comparar con lo pendiente.
func checkReceivable(po *entity.PurchaseOrder, lines []dto.CreateGoodsReceiptLineRequest) error {
	if !purchasing.CanReceive(po.Status) {
		return fmt.Errorf("%w: la orden %s está %s", domain.ErrInvalidStatus, po.Number, po.Status)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: la recepción no tiene líneas", domain.ErrInvalidInput)
	}
	poLines := po.LinesByID()
	requested := make(map[string]decimal.Decimal, len(lines))
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		poLine, ok := poLines[l.PurchaseOrderLineID]
		if !ok {
			return fmt.Errorf("%w: la línea %s no pertenece a la orden %s", domain.ErrInvalidInput, l.PurchaseOrderLineID, po.Number)
		}
		if l.ProductID != poLine.ProductID || (l.VariantID != "" && l.VariantID != poLine.VariantID) {
			return fmt.Errorf("%w: línea %s", domain.ErrProductMismatch, l.PurchaseOrderLineID)
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: cantidad de la línea %s debe ser mayor que cero", domain.ErrInvalidInput, l.PurchaseOrderLineID)
		}
		if !entity.FitsScale(l.Quantity) {
			return fmt.Errorf("%w: cantidad %s de la línea %s tiene más de %d decimales", domain.ErrInvalidInput, l.Quantity, l.PurchaseOrderLineID, entity.DecimalScale)
		}
		if _, seen := requested[poLine.ID]; !seen {
			order = append(order, poLine.ID)
		}
		requested[poLine.ID] = requested[poLine.ID].Add(l.Quantity)
	}
	for _, id := range order {
		remaining := poLines[id].RemainingQuantity()
		if requested[id].GreaterThan(remaining) {
			return fmt.Errorf("%w: línea %s pide %s, pendiente %s", domain.ErrOverReceipt, id, requested[id], remaining)
		}
	}
	return nil
}

// persistReceived escribe la cantidad recibida de cada línea de la orden tocada, una vez por línea.
func persistReceived(ctx context.Context, tx repository.Tx, po *entity.PurchaseOrder, lines []entity.GoodsReceiptLine) error {
	poLines := po.LinesByID()
	done := make(map[string]bool, len(lines))
	for _, l := range lines {
		if done[l.PurchaseOrderLineID] {
			continue
		}
		done[l.PurchaseOrderLineID] = true
		poLine := poLines[l.PurchaseOrderLineID]
		if err := tx.PurchaseOrders().UpdateLineReceived(ctx, po.CompanyID, poLine.ID, poLine.ReceivedQuantity); err != nil {
			return fmt.Errorf("update received quantity: %w", err)
		}
	}
	return nil
}

// advanceStatus recalcula el estado de la orden y lo persiste solo si cambió.
func advanceStatus(ctx context.Context, tx repository.Tx, po *entity.PurchaseOrder) (string, error) {
	next := purchasing.NextStatus(po.Lines, po.ShippedAt != nil)
	if next == po.Status {
		return next, nil
	}
	if err := tx.PurchaseOrders().UpdateStatus(ctx, po.CompanyID, po.ID, next); err != nil {
		return "", fmt.Errorf("update purchase order status: %w", err)
	}
	po.Status = next
	return next, nil
}

func lineKey(grn *entity.GoodsReceipt, l entity.GoodsReceiptLine) entity.InventoryKey {
	return entity.InventoryKey{
		ProductID:   l.ProductID,
		VariantID:   l.VariantID,
		WarehouseID: grn.WarehouseID,
		BatchNumber: l.BatchNumber,
	}
}
