package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	"github.com/egledger/treasury_backend/internal/models"
	"github.com/egledger/treasury_backend/internal/utils/mapping"
	"github.com/egledger/treasury_backend/internal/utils/pagination"
)

const chequeColumns = `cheque_id, cheque_number, direction, amount, due_date, party_id, party_name, bank_name, status, notes, journal_id, transfer_account_number, transfer_bank_name, transfer_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxChequeRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxChequeRepository creates a new repository for cheque data.
func newPgxChequeRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxChequeRepository {
	return &PgxChequeRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.ChequeRepositoryFacade = (*PgxChequeRepository)(nil)

// SaveChequeWithJournal registers a cheque and posts its registration journal
// in one transaction.
func (r *PgxChequeRepository) SaveChequeWithJournal(ctx context.Context, cheque domain.Cheque, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := postJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges); err != nil {
		return err
	}

	m := mapping.ToModelCheque(cheque)
	query := `
		INSERT INTO cheques (` + chequeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.ChequeID,
		m.ChequeNumber,
		m.Direction,
		m.Amount,
		m.DueDate,
		m.PartyID,
		m.PartyName,
		m.BankName,
		m.Status,
		m.Notes,
		m.JournalID,
		m.TransferAccountNumber,
		m.TransferBankName,
		m.TransferDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cheque number %s already exists", apperrors.ErrDuplicate, m.ChequeNumber)
		}
		return apperrors.NewAppError(500, "failed to insert cheque "+m.ChequeID, err)
	}

	return r.Commit(ctx, tx)
}

// TransitionCheque moves the cheque to its new status and posts the transition
// journal atomically. The UPDATE is conditioned on expectedStatus still
// holding; zero affected rows means a concurrent change won and nothing is
// committed.
func (r *PgxChequeRepository) TransitionCheque(ctx context.Context, cheque domain.Cheque, expectedStatus domain.ChequeStatus, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelCheque(cheque)
	query := `
		UPDATE cheques
		SET status = $2, transfer_account_number = $3, transfer_bank_name = $4, transfer_date = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE cheque_id = $1 AND status = $8;
	`
	ct, err := tx.Exec(ctx, query,
		m.ChequeID,
		m.Status,
		m.TransferAccountNumber,
		m.TransferBankName,
		m.TransferDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(expectedStatus),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update cheque status "+m.ChequeID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrTransitionConflict
	}

	if err := postJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func scanChequeRow(row pgx.Row) (models.Cheque, error) {
	var m models.Cheque
	var transferAccount, transferBank sql.NullString
	var transferDate sql.NullTime
	err := row.Scan(
		&m.ChequeID,
		&m.ChequeNumber,
		&m.Direction,
		&m.Amount,
		&m.DueDate,
		&m.PartyID,
		&m.PartyName,
		&m.BankName,
		&m.Status,
		&m.Notes,
		&m.JournalID,
		&transferAccount,
		&transferBank,
		&transferDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Cheque{}, err
	}
	if transferAccount.Valid {
		m.TransferAccountNumber = &transferAccount.String
	}
	if transferBank.Valid {
		m.TransferBankName = &transferBank.String
	}
	if transferDate.Valid {
		m.TransferDate = &transferDate.Time
	}
	return m, nil
}

// FindChequeByID retrieves a cheque by its ID.
func (r *PgxChequeRepository) FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	query := `SELECT ` + chequeColumns + ` FROM cheques WHERE cheque_id = $1;`

	m, err := scanChequeRow(r.Pool.QueryRow(ctx, query, chequeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cheque by ID "+chequeID, err)
	}
	cheque := mapping.ToDomainCheque(m)
	return &cheque, nil
}

// ListCheques retrieves a page of cheques ordered by (due_date, created_at)
// descending, optionally filtered by direction.
func (r *PgxChequeRepository) ListCheques(ctx context.Context, direction *domain.ChequeDirection, limit int, nextToken *string) ([]domain.Cheque, *string, error) {
	query := `SELECT ` + chequeColumns + ` FROM cheques`
	args := []any{}
	conditions := []string{}

	if direction != nil {
		args = append(args, string(*direction))
		conditions = append(conditions, fmt.Sprintf("direction = $%d", len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		dueDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, dueDate, createdAt)
		conditions = append(conditions, fmt.Sprintf("(due_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY due_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query cheques", err)
	}
	defer rows.Close()

	cheques := []models.Cheque{}
	for rows.Next() {
		m, err := scanChequeRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan cheque row", err)
		}
		cheques = append(cheques, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating cheque rows", err)
	}

	var newNextToken *string
	if len(cheques) > limit {
		cheques = cheques[:limit]
		last := cheques[len(cheques)-1]
		token := pagination.EncodeToken(last.DueDate, last.CreatedAt)
		newNextToken = &token
	}

	return mapping.ToDomainChequeSlice(cheques), newNextToken, nil
}
