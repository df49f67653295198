// Package purchasing contiene la máquina de estados de la orden de compra.
package purchasing

import (
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CanReceive indica si una orden en el estado dado admite recepciones.
func CanReceive(status string) bool {
	switch status {
	case entity.POStatusPending, entity.POStatusInTransit, entity.POStatusPartiallyReceived:
		return true
	}
	return false
}

// NextStatus calcula el estado de la orden a partir de las cantidades recibidas.
// Es una función pura: el llamador persiste el resultado.
//   - RECEIVED si todas las líneas están completas
//   - PARTIALLY_RECEIVED si se recibió algo
//   - IN_TRANSIT si no queda nada recibido pero hubo despacho, si no PENDING
func NextStatus(lines []entity.PurchaseOrderLine, shipped bool) string {
	totalReceived := decimal.Zero
	allReceived := len(lines) > 0
	for _, l := range lines {
		totalReceived = totalReceived.Add(l.ReceivedQuantity)
		if !l.IsFullyReceived() {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		return entity.POStatusReceived
	case totalReceived.GreaterThan(decimal.Zero):
		return entity.POStatusPartiallyReceived
	case shipped:
		return entity.POStatusInTransit
	default:
		return entity.POStatusPending
	}
}
