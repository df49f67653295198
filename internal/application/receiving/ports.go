package receiving

import (
	"context"
	"time"

	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción. Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// NumberGenerator entrega el número legible de la siguiente recepción (ej: GRN-2026-000001).
// Recibe la transacción para que las implementaciones sobre base de datos no dejen huecos.
type NumberGenerator interface {
	NextGRNNumber(ctx context.Context, tx repository.Tx, companyID string, at time.Time) (string, error)
}

// Recorder recibe los eventos del motor que se exponen como métricas.
type Recorder interface {
	GoodsReceiptCreated()
	GoodsReceiptCancelled()
	CostAdded()
	LandedCostFallback(operation string)
	OperationFailed(operation string, kind domain.Kind)
}

type nopRecorder struct{}

func (nopRecorder) GoodsReceiptCreated() {}
func (nopRecorder) GoodsReceiptCancelled() {}
func (nopRecorder) CostAdded() {}
func (nopRecorder) LandedCostFallback(string) {}
func (nopRecorder) OperationFailed(string, domain.Kind) {}
