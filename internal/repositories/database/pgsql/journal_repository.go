package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	"github.com/egledger/treasury_backend/internal/models"
	"github.com/egledger/treasury_backend/internal/utils/accounting"
	"github.com/egledger/treasury_backend/internal/utils/mapping"
	"github.com/egledger/treasury_backend/internal/utils/pagination"
)

const journalColumns = `journal_id, journal_date, reference, description, currency_code, exchange_rate, status, amount, original_journal_id, reversing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxJournalRepository creates a new repository for journal and line data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// insertJournalTx inserts the journal header row within tx.
func insertJournalTx(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalID,
		m.JournalDate,
		m.Reference,
		m.Description,
		m.CurrencyCode,
		m.ExchangeRate,
		m.Status,
		m.Amount,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		// A primary key hit means this journal already committed, so a retry
		// must not replay it.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal %s already exists", apperrors.ErrDuplicate, m.JournalID)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, err)
	}
	return nil
}

// postJournalInTx runs the full posting sequence within an open transaction:
// insert the journal row, lock the affected accounts, apply balance deltas and
// insert the lines with per-account running balances. Voucher and cheque
// repositories reuse it so every posting path behaves identically.
func postJournalInTx(ctx context.Context, tx pgx.Tx, accountRepo *PgxAccountRepository, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	if err := insertJournalTx(ctx, tx, journal); err != nil {
		return err
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	now := journal.CreatedAt
	userID := journal.CreatedBy
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, account_id, debit, credit, description, cost_center_id, running_balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	// Running balances start from the balance before this journal's changes.
	currentRunningBalances := make(map[string]decimal.Decimal)
	for accID, lockedAcc := range lockedAccounts {
		currentRunningBalances[accID] = lockedAcc.Balance
	}

	// Sort by LineID for deterministic running balance order.
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].LineID < lines[j].LineID
	})

	for _, line := range lines {
		lockedAccount, ok := lockedAccounts[line.AccountID]
		if !ok {
			return apperrors.NewAppError(500, "internal error: locked account "+line.AccountID+" not found during line processing", nil)
		}

		signedAmount, err := accounting.SignedAmount(line, lockedAccount.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to calculate signed amount for line "+line.LineID, err)
		}

		newRunningBalance := currentRunningBalances[line.AccountID].Add(signedAmount)
		currentRunningBalances[line.AccountID] = newRunningBalance

		m := mapping.ToModelJournalLine(line)
		m.RunningBalance = newRunningBalance
		batch.Queue(lineQuery,
			m.LineID,
			m.JournalID,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.Description,
			m.CostCenterID,
			m.RunningBalance,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for journal "+journal.JournalID, err)
	}
	return nil
}

// SaveJournal saves a journal, updates account balances, and saves the lines
// within one DB transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := postJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal posts the reversing journal and links it to the original, all
// in one transaction. The original must still be POSTED; a concurrent reversal
// surfaces as ErrConflict.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, originalJournalID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	markQuery := `
		UPDATE journals
		SET status = $2, reversing_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1 AND status = $6;
	`
	ct, err := tx.Exec(ctx, markQuery,
		originalJournalID,
		models.JournalStatus(domain.Reversed),
		reversing.JournalID,
		reversing.CreatedAt,
		reversing.CreatedBy,
		models.JournalStatus(domain.Posted),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal "+originalJournalID+" reversed", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := postJournalInTx(ctx, tx, r.accountRepo, reversing, lines, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func scanJournalRow(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	var originalID, reversingID sql.NullString
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Reference,
		&m.Description,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Status,
		&m.Amount,
		&originalID,
		&reversingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Journal{}, err
	}
	if originalID.Valid {
		m.OriginalJournalID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingJournalID = &reversingID.String
	}
	return m, nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournalRow(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}
	journal := mapping.ToDomainJournal(m)
	return &journal, nil
}

// FindLinesByJournalID retrieves all lines of a journal in insert order.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, journal_id, account_id, debit, credit, description, cost_center_id, running_balance, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE journal_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Description,
			&m.CostCenterID,
			&m.RunningBalance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal "+journalID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal "+journalID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListJournals retrieves a page of journals ordered by (journal_date, created_at)
// descending, resuming from the pagination token. Reversal journals and
// reversed originals are filtered out unless includeReversals is set.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	query := `SELECT ` + journalColumns + ` FROM journals`
	args := []any{}
	conditions := ""

	if !includeReversals {
		conditions = ` WHERE original_journal_id IS NULL AND status != 'REVERSED'`
	}

	if nextToken != nil && *nextToken != "" {
		journalDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, errors.Join(apperrors.ErrValidation, err)
		}
		if conditions == "" {
			conditions = ` WHERE (journal_date, created_at) < ($1, $2)`
		} else {
			conditions += ` AND (journal_date, created_at) < ($1, $2)`
		}
		args = append(args, journalDate, createdAt)
	}

	query += conditions + ` ORDER BY journal_date DESC, created_at DESC`
	if len(args) == 0 {
		query += ` LIMIT $1;`
	} else {
		query += ` LIMIT $3;`
	}
	args = append(args, limit+1) // fetch one extra to detect the next page

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	journals := []models.Journal{}
	for rows.Next() {
		m, err := scanJournalRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		journals = append(journals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var newNextToken *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		newNextToken = &token
	}

	out := make([]domain.Journal, len(journals))
	for i, m := range journals {
		out[i] = mapping.ToDomainJournal(m)
	}
	return out, newNextToken, nil
}
