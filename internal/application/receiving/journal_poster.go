package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/recepcion-api/internal/domain/accounting"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// JournalTx repositorios contables atados a la transacción del llamador.
type JournalTx interface {
	Journals() repository.JournalRepository
	Accounts() repository.AccountResolver
}

// JournalInput datos de un asiento. TaxRate en porcentaje; los eventos de costo usan cero.
type JournalInput struct {
	CompanyID     string
	ActorID       string
	EventType     string
	ReferenceType string
	ReferenceID   string
	Description   string
	Base          decimal.Decimal
	TaxRate       decimal.Decimal
	Date          time.Time
}

// JournalPoster construye, valida y persiste asientos balanceados.
type JournalPoster struct {
	now func() time.Time
}

// NewJournalPoster construye el poster.
func NewJournalPoster() *JournalPoster {
	return &JournalPoster{now: time.Now}
}

// Post arma las líneas del evento, resuelve las cuentas de la empresa y persiste el asiento.
// Un asiento descuadrado nunca se inserta. Base cero no genera asiento y retorna nil.
func (p *JournalPoster) Post(ctx context.Context, tx JournalTx, in JournalInput) (*entity.JournalEntry, error) {
	lines, err := accounting.BuildLines(in.EventType, in.Base, in.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("build journal lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	entry := &entity.JournalEntry{
		ID:            uuid.New().String(),
		CompanyID:     in.CompanyID,
		EventType:     in.EventType,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Description:   in.Description,
		Date:          in.Date,
		CreatedBy:     in.ActorID,
		CreatedAt:     p.now(),
	}
	if entry.Date.IsZero() {
		entry.Date = entry.CreatedAt
	}

	accounts := make(map[string]string, len(lines))
	for i := range lines {
		l := &lines[i]
		id, ok := accounts[l.Account]
		if !ok {
			id, err = tx.Accounts().Resolve(ctx, in.CompanyID, l.Account)
			if err != nil {
				return nil, fmt.Errorf("resolve account %s: %w", l.Account, err)
			}
			accounts[l.Account] = id
		}
		l.ID = uuid.New().String()
		l.JournalEntryID = entry.ID
		l.AccountID = id
		l.Memo = in.Description
	}
	if err := accounting.CheckBalanced(lines); err != nil {
		return nil, err
	}
	entry.Lines = lines
	entry.TotalDebit, entry.TotalCredit = accounting.Totals(lines)

	if err := tx.Journals().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return entry, nil
}
