package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const voucherColumns = `voucher_id, voucher_number, voucher_type, sub_type, voucher_date, amount, currency_code, exchange_rate, treasury_account_id, party_id, target_account_id, payment_method, notes, journal_id, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
	journalRepo *PgxJournalRepository
	atomic      bool
}

// newPgxVoucherRepository creates a new repository for voucher data. atomic
// selects the posting variant: one transaction for voucher plus journal, or
// the composite two-step path.
func newPgxVoucherRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository, journalRepo *PgxJournalRepository, atomic bool) *PgxVoucherRepository {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
		atomic:         atomic,
	}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

// execer is satisfied by both pgx.Tx and *pgxpool.Pool.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertVoucherTx(ctx context.Context, exec execer, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	var partyID sql.NullString
	if m.PartyID != "" {
		partyID = sql.NullString{String: m.PartyID, Valid: true}
	}

	_, err := exec.Exec(ctx, query,
		m.VoucherID,
		m.VoucherNumber,
		m.VoucherType,
		m.SubType,
		m.VoucherDate,
		m.Amount,
		m.CurrencyCode,
		m.ExchangeRate,
		m.TreasuryAccountID,
		partyID,
		m.TargetAccountID,
		m.PaymentMethod,
		m.Notes,
		m.JournalID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: voucher number %s already exists", apperrors.ErrDuplicate, m.VoucherNumber)
		}
		return apperrors.NewAppError(500, "failed to insert voucher "+m.VoucherID, err)
	}
	return nil
}

// PostVoucher persists the voucher and its journal through the configured
// posting variant.
func (r *PgxVoucherRepository) PostVoucher(ctx context.Context, voucher domain.Voucher, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	if r.atomic {
		return r.postVoucherAtomic(ctx, voucher, journal, lines, balanceChanges)
	}
	return r.postVoucherComposite(ctx, voucher, journal, lines, balanceChanges)
}

// postVoucherAtomic commits the voucher row, the journal, its lines and the
// balance updates in a single database transaction.
func (r *PgxVoucherRepository) postVoucherAtomic(ctx context.Context, voucher domain.Voucher, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := postJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges); err != nil {
		return err
	}
	if err := insertVoucherTx(ctx, tx, voucher); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// postVoucherComposite posts the journal first, then inserts the voucher row
// as a separate operation. A failure between the two steps leaves a posted
// journal without its voucher; the calling service's replay detects the
// committed journal and finishes the posting through SaveVoucher.
func (r *PgxVoucherRepository) postVoucherComposite(ctx context.Context, voucher domain.Voucher, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	if err := r.journalRepo.SaveJournal(ctx, journal, lines, balanceChanges); err != nil {
		return err
	}
	return insertVoucherTx(ctx, r.Pool, voucher)
}

// SaveVoucher inserts the voucher row alone, without touching the journal.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	return insertVoucherTx(ctx, r.Pool, voucher)
}

func scanVoucherRow(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	var partyID sql.NullString
	err := row.Scan(
		&m.VoucherID,
		&m.VoucherNumber,
		&m.VoucherType,
		&m.SubType,
		&m.VoucherDate,
		&m.Amount,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.TreasuryAccountID,
		&partyID,
		&m.TargetAccountID,
		&m.PaymentMethod,
		&m.Notes,
		&m.JournalID,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Voucher{}, err
	}
	if partyID.Valid {
		m.PartyID = partyID.String
	}
	return m, nil
}

// FindVoucherByID retrieves a voucher by its ID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	m, err := scanVoucherRow(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by ID "+voucherID, err)
	}
	voucher := mapping.ToDomainVoucher(m)
	return &voucher, nil
}

// FindVoucherByNumber retrieves a voucher by its business number.
func (r *PgxVoucherRepository) FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_number = $1;`

	m, err := scanVoucherRow(r.Pool.QueryRow(ctx, query, voucherNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by number "+voucherNumber, err)
	}
	voucher := mapping.ToDomainVoucher(m)
	return &voucher, nil
}

// ListVouchers retrieves a page of vouchers ordered by (voucher_date, created_at)
// descending, optionally filtered by type.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers`
	args := []any{}
	conditions := []string{}

	if voucherType != nil {
		args = append(args, string(*voucherType))
		conditions = append(conditions, fmt.Sprintf("voucher_type = $%d", len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		voucherDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, voucherDate, createdAt)
		conditions = append(conditions, fmt.Sprintf("(voucher_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY voucher_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query vouchers", err)
	}
	defer rows.Close()

	vouchers := []models.Voucher{}
	for rows.Next() {
		m, err := scanVoucherRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan voucher row", err)
		}
		vouchers = append(vouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating voucher rows", err)
	}

	var newNextToken *string
	if len(vouchers) > limit {
		vouchers = vouchers[:limit]
		last := vouchers[len(vouchers)-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		newNextToken = &token
	}

	return mapping.ToDomainVoucherSlice(vouchers), newNextToken, nil
}

// UpdateVoucherDetails persists non-financial edits.
func (r *PgxVoucherRepository) UpdateVoucherDetails(ctx context.Context, voucherID string, notes string, method domain.PaymentMethod, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET notes = $2, payment_method = $3, last_updated_at = $4, last_updated_by = $5
		WHERE voucher_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, voucherID, notes, string(method), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update voucher "+voucherID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkVoucherReversed flips the voucher status after its journal was reversed.
func (r *PgxVoucherRepository) MarkVoucherReversed(ctx context.Context, voucherID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND status = $5;
	`
	ct, err := r.Pool.Exec(ctx, query, voucherID,
		string(domain.VoucherReversed), updatedAt, updatedBy, string(domain.VoucherPosted))
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark voucher reversed "+voucherID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
