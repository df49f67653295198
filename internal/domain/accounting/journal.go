// Package accounting construye asientos de partida doble para el motor de recepción.
package accounting

import (
	"fmt"

	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AmountScale precisión de los montos contables.
const AmountScale = entity.DecimalScale

var hundred = decimal.NewFromInt(100)

// TaxAmount impuesto proporcional: round(base * rate / 100, 4).
func TaxAmount(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePercent).Div(hundred).Round(AmountScale)
}

// BuildLines arma las líneas del asiento para el evento indicado.
//
//	GOODS_RECEIVED / GRN_COST_ADDED:  Dr Inventario base, Dr Impuesto tax, Cr CxP base+tax
//	*_REVERSED:                       lados invertidos
//
// Las líneas en cero se omiten; base cero no genera asiento (nil, nil).
// Las cuentas son lógicas; el poster resuelve el AccountID.
func BuildLines(eventType string, base, ratePercent decimal.Decimal) ([]entity.JournalLine, error) {
	if base.IsNegative() || ratePercent.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	base = base.Round(AmountScale)
	if base.IsZero() {
		return nil, nil
	}
	tax := TaxAmount(base, ratePercent)
	total := base.Add(tax)

	var reversed bool
	switch eventType {
	case entity.JournalGoodsReceived, entity.JournalGRNCostAdded:
	case entity.JournalGoodsReceivedReversed, entity.JournalGRNCostReversed:
		reversed = true
	default:
		return nil, fmt.Errorf("%w: evento contable %q", domain.ErrInvalidInput, eventType)
	}

	lines := []entity.JournalLine{
		side(entity.AccountInventory, base, reversed),
		side(entity.AccountTaxPayable, tax, reversed),
		side(entity.AccountAccountsPayable, total, !reversed),
	}
	out := lines[:0]
	for _, l := range lines {
		if l.Debit.IsZero() && l.Credit.IsZero() {
			continue
		}
		out = append(out, l)
	}
	if err := CheckBalanced(out); err != nil {
		return nil, err
	}
	return out, nil
}

// side crea una línea al débito, o al crédito si credit es true.
func side(account string, amount decimal.Decimal, credit bool) entity.JournalLine {
	if credit {
		return entity.JournalLine{Account: account, Debit: decimal.Zero, Credit: amount}
	}
	return entity.JournalLine{Account: account, Debit: amount, Credit: decimal.Zero}
}

// Totals suma débitos y créditos.
func Totals(lines []entity.JournalLine) (debit, credit decimal.Decimal) {
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// CheckBalanced verifica Σ débitos == Σ créditos con exactitud. Cualquier diferencia es error.
func CheckBalanced(lines []entity.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: el asiento necesita al menos dos líneas", domain.ErrUnbalancedJournal)
	}
	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: monto negativo en cuenta %s", domain.ErrUnbalancedJournal, l.Account)
		}
		if !l.Debit.IsZero() && !l.Credit.IsZero() {
			return fmt.Errorf("%w: línea con débito y crédito en cuenta %s", domain.ErrUnbalancedJournal, l.Account)
		}
	}
	debit, credit := Totals(lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: débitos %s, créditos %s", domain.ErrUnbalancedJournal, debit.String(), credit.String())
	}
	return nil
}
