package receiving

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// BatchGenerator genera números de lote {yyyyMMdd}-{NNN} para líneas que no traen uno.
type BatchGenerator struct {
	intN func(n int) int
}

// NewBatchGenerator construye el generador con math/rand/v2.
func NewBatchGenerator() *BatchGenerator {
	return &BatchGenerator{intN: rand.IntN}
}

// Next devuelve un lote para la fecha dada.
func (g *BatchGenerator) Next(at time.Time) string {
	return fmt.Sprintf("%s-%03d", at.Format("20060102"), g.intN(1000))
}
