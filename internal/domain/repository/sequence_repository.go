package repository

import "context"

// SequenceRepository entrega consecutivos por empresa y nombre de secuencia.
type SequenceRepository interface {
	Next(ctx context.Context, companyID, name string) (int64, error)
}
