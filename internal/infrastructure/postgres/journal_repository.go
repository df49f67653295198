package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/internal/domain/entity"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
)

var (
	_ repository.JournalRepository = (*JournalRepo)(nil)
	_ repository.AccountResolver   = (*AccountRepo)(nil)
)

// JournalRepo asientos contables sobre PostgreSQL (usable con pool o tx).
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create inserta cabecera y líneas del asiento.
func (r *JournalRepo) Create(ctx context.Context, e *entity.JournalEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO journal_entries (id, company_id, event_type, reference_type, reference_id, description,
			date, total_debit, total_credit, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.CompanyID, e.EventType, e.ReferenceType, e.ReferenceID, e.Description,
		e.Date, e.TotalDebit, e.TotalCredit, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	for i, l := range e.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO journal_lines (id, journal_entry_id, account_id, account, debit, credit, memo, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, e.ID, l.AccountID, l.Account, l.Debit, l.Credit, l.Memo, i,
		)
		if err != nil {
			return fmt.Errorf("insert journal line: %w", err)
		}
	}
	return nil
}

// ListByReference asientos de un documento con sus líneas, en orden de creación.
func (r *JournalRepo) ListByReference(ctx context.Context, companyID, referenceType, referenceID string) ([]*entity.JournalEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, event_type, reference_type, reference_id, description, date,
		       total_debit, total_credit, created_by, created_at
		FROM journal_entries
		WHERE company_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY seq`, companyID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.JournalEntry, error) {
		var e entity.JournalEntry
		err := row.Scan(&e.ID, &e.CompanyID, &e.EventType, &e.ReferenceType, &e.ReferenceID, &e.Description,
			&e.Date, &e.TotalDebit, &e.TotalCredit, &e.CreatedBy, &e.CreatedAt)
		return &e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan journal entries: %w", err)
	}

	for _, e := range entries {
		rows, err := r.q.Query(ctx, `
			SELECT id, journal_entry_id, account, account_id, debit, credit, memo
			FROM journal_lines WHERE journal_entry_id = $1 ORDER BY position`, e.ID)
		if err != nil {
			return nil, fmt.Errorf("list journal lines: %w", err)
		}
		e.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.JournalLine, error) {
			var l entity.JournalLine
			err := row.Scan(&l.ID, &l.JournalEntryID, &l.Account, &l.AccountID, &l.Debit, &l.Credit, &l.Memo)
			return l, err
		})
		if err != nil {
			return nil, fmt.Errorf("scan journal lines: %w", err)
		}
	}
	return entries, nil
}

// AccountRepo resuelve cuentas lógicas contra la tabla accounts de la empresa.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el resolvedor. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Resolve devuelve el id de la cuenta activa marcada con logicalAccount.
func (r *AccountRepo) Resolve(ctx context.Context, companyID, logicalAccount string) (string, error) {
	var id string
	err := r.q.QueryRow(ctx,
		`SELECT id FROM accounts WHERE company_id = $1 AND logical_code = $2 AND active`,
		companyID, logicalAccount,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", domain.ErrAccountNotConfigured, logicalAccount)
		}
		return "", fmt.Errorf("resolve account: %w", err)
	}
	return id, nil
}
