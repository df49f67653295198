package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos en document_sequences. Dentro de una tx la fila queda bloqueada
// hasta el commit, así que no hay huecos ni duplicados.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo (company_id, name); la primera vez devuelve 1.
func (r *SequenceRepo) Next(ctx context.Context, companyID, name string) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (company_id, name, last_value, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (company_id, name)
		DO UPDATE SET last_value = document_sequences.last_value + 1, updated_at = now()
		RETURNING last_value`, companyID, name,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return next, nil
}
