package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

// DefaultGRNPrefix prefijo de los números de recepción.
const DefaultGRNPrefix = "GRN"

// FormatGRNNumber arma el número legible: {prefix}-{yyyy}-{000001}.
func FormatGRNNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

// SequenceName nombre de la secuencia anual de recepciones.
func SequenceName(prefix string, year int) string {
	return fmt.Sprintf("%s-%d", prefix, year)
}

// SequenceNumbers numera recepciones con la tabla de secuencias de la misma transacción,
// así un rollback no consume número.
type SequenceNumbers struct {
	prefix string
}

// NewSequenceNumbers construye el generador. prefix vacío usa DefaultGRNPrefix.
func NewSequenceNumbers(prefix string) *SequenceNumbers {
	if prefix == "" {
		prefix = DefaultGRNPrefix
	}
	return &SequenceNumbers{prefix: prefix}
}

// NextGRNNumber implementa NumberGenerator.
func (s *SequenceNumbers) NextGRNNumber(ctx context.Context, tx repository.Tx, companyID string, at time.Time) (string, error) {
	seq, err := tx.Sequences().Next(ctx, companyID, SequenceName(s.prefix, at.Year()))
	if err != nil {
		return "", fmt.Errorf("next grn number: %w", err)
	}
	return FormatGRNNumber(s.prefix, at.Year(), seq), nil
}

var _ NumberGenerator = (*SequenceNumbers)(nil)
