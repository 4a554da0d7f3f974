package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/dto"
	"github.com/egledger/treasury_backend/internal/middleware"
	"github.com/egledger/treasury_backend/internal/utils/accounting"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

const reversalDescriptionPrefix = "Reversal of: "

// ledgerService validates and posts journal entries. It is the single posting
// gate: vouchers and cheques derive their entries and hand them here (or to
// repositories that apply the same validation result atomically).
type ledgerService struct {
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountReader
	baseCurrency string
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, cfg *config.Config) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		baseCurrency: cfg.BaseCurrency,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// buildLines converts request lines into domain lines for a new journal.
func buildLines(journalID string, reqLines []dto.CreateJournalLineRequest, now time.Time, userID string) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, lr := range reqLines {
		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			JournalID:    journalID,
			AccountID:    lr.AccountID,
			Debit:        lr.Debit,
			Credit:       lr.Credit,
			Description:  lr.Description,
			CostCenterID: lr.CostCenterID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// validateLines enforces the per-line rules: nonnegative sides and exactly one
// positive side per line.
func validateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal must have at least two lines", apperrors.ErrValidation)
	}
	for _, line := range lines {
		if line.AccountID == "" {
			return fmt.Errorf("%w: every line must reference an account", apperrors.ErrValidation)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: debit and credit must be nonnegative for account %s", apperrors.ErrValidation, line.AccountID)
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return fmt.Errorf("%w: each line must carry exactly one of debit or credit for account %s", apperrors.ErrValidation, line.AccountID)
		}
	}
	return nil
}

// checkBalance enforces Σdebit == Σcredit with exact decimal equality.
func checkBalance(lines []domain.JournalLine) error {
	debits, credits := accounting.Totals(lines)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// resolveAccountTypes fetches the referenced accounts and rejects missing,
// inactive or group accounts.
func (s *ledgerService) resolveAccountTypes(ctx context.Context, lines []domain.JournalLine) (map[string]domain.AccountType, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: journal must affect at least two different accounts", apperrors.ErrValidation)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	types := make(map[string]domain.AccountType, len(ids))
	for _, id := range ids {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.IsGroup {
			return nil, fmt.Errorf("%w: account %s is a group account and cannot hold postings", apperrors.ErrValidation, acc.Code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
		types[id] = acc.AccountType
	}
	return types, nil
}

// ValidateAndPost implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ValidateAndPost(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(req.Reference) == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	if len(strings.TrimSpace(req.Description)) < 3 {
		return nil, fmt.Errorf("%w: description must be at least 3 characters", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	lines := buildLines(journalID, req.Lines, now, creatorUserID)

	if err := validateLines(lines); err != nil {
		return nil, err
	}
	if err := checkBalance(lines); err != nil {
		return nil, err
	}

	accountTypes, err := s.resolveAccountTypes(ctx, lines)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.baseCurrency
	}
	rate := req.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	debits, _ := accounting.Totals(lines)
	journal := domain.Journal{
		JournalID:    journalID,
		JournalDate:  req.Date,
		Reference:    strings.TrimSpace(req.Reference),
		Description:  strings.TrimSpace(req.Description),
		CurrencyCode: currency,
		ExchangeRate: rate,
		Status:       domain.Posted,
		Amount:       debits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, lines, balanceChanges); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("reference", journal.Reference))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID), slog.String("reference", journal.Reference))
	journal.Lines = lines
	return &journal, nil
}

// GetJournalByID implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal by ID", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch lines for journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, apperrors.ErrInternal)
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournals implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list journals from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				logger.Warn("Failed to fetch lines for journal listing", "journalID", journals[i].JournalID, "error", err)
			} else {
				journals[i].Lines = lines
			}
		}
		responses[i] = dto.ToJournalResponse(&journals[i])
	}

	return &dto.ListJournalsResponse{Journals: responses, NextToken: nextToken}, nil
}

// ReverseEntry implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ReverseEntry(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve original journal: %w", err)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a journal that is already a reversal", apperrors.ErrConflict)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve original lines: %w", err)
	}

	now := time.Now().UTC()
	newJournalID := uuid.NewString()

	reversingLines := make([]domain.JournalLine, len(originalLines))
	for i, orig := range originalLines {
		reversingLines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			JournalID:    newJournalID,
			AccountID:    orig.AccountID,
			Debit:        orig.Credit,
			Credit:       orig.Debit,
			Description:  orig.Description,
			CostCenterID: orig.CostCenterID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	accountTypes, err := s.resolveAccountTypes(ctx, reversingLines)
	if err != nil {
		return nil, fmt.Errorf("failed to get account details for reversal: %w", err)
	}
	balanceChanges, err := accounting.BalanceChanges(reversingLines, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balance changes for reversal: %w", err)
	}

	reversing := domain.Journal{
		JournalID:         newJournalID,
		JournalDate:       original.JournalDate,
		Reference:         fmt.Sprintf("REV-%s", original.Reference),
		Description:       reversalDescriptionPrefix + original.Description,
		CurrencyCode:      original.CurrencyCode,
		ExchangeRate:      original.ExchangeRate,
		Status:            domain.Posted,
		Amount:            original.Amount,
		OriginalJournalID: &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveReversal(ctx, reversing, reversingLines, balanceChanges, original.JournalID); err != nil {
		logger.Error("Failed to save reversing journal entry", "error", err)
		return nil, fmt.Errorf("failed to save reversing journal: %w", err)
	}

	logger.Info("Journal reversed", slog.String("original_journal_id", journalID), slog.String("reversing_journal_id", newJournalID))
	reversing.Lines = reversingLines
	return &reversing, nil
}
