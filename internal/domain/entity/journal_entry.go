package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento contable del motor de recepción.
const (
	JournalGoodsReceived         = "GOODS_RECEIVED"
	JournalGoodsReceivedReversed = "GOODS_RECEIVED_REVERSED"
	JournalGRNCostAdded          = "GRN_COST_ADDED"
	JournalGRNCostReversed       = "GRN_COST_REVERSED"
)

// Cuentas lógicas resueltas contra el plan de cuentas de la empresa.
const (
	AccountInventory       = "INVENTORY"
	AccountTaxPayable      = "TAX_PAYABLE"
	AccountAccountsPayable = "ACCOUNTS_PAYABLE"
)

// JournalEntry asiento contable de partida doble. TotalDebit == TotalCredit siempre.
type JournalEntry struct {
	ID            string
	CompanyID     string
	EventType     string
	ReferenceType string
	ReferenceID   string
	Description   string
	Date          time.Time
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
	Lines         []JournalLine
}

// JournalLine línea del asiento; solo uno de Debit/Credit es distinto de cero.
type JournalLine struct {
	ID             string
	JournalEntryID string
	Account        string // cuenta lógica (INVENTORY, ...)
	AccountID      string // cuenta del plan de cuentas de la empresa
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Memo           string
}
