package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/dto"
	"github.com/egledger/treasury_backend/internal/middleware"
	"github.com/egledger/treasury_backend/internal/platform/config"
	"github.com/egledger/treasury_backend/internal/utils/accounting"
)

type chequeService struct {
	chequeRepo     portsrepo.ChequeRepositoryFacade
	accountRepo    portsrepo.AccountReader
	partyRepo      portsrepo.PartyReader
	attachmentRepo portsrepo.AttachmentRepository
	sysAccounts    portssvc.SystemAccountSvcFacade
	classifier     *TreasuryClassifier
	baseCurrency   string
}

// NewChequeService creates a new ChequeService.
func NewChequeService(
	chequeRepo portsrepo.ChequeRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	partyRepo portsrepo.PartyReader,
	attachmentRepo portsrepo.AttachmentRepository,
	sysAccounts portssvc.SystemAccountSvcFacade,
	classifier *TreasuryClassifier,
	cfg *config.Config,
) portssvc.ChequeSvcFacade {
	return &chequeService{
		chequeRepo:     chequeRepo,
		accountRepo:    accountRepo,
		partyRepo:      partyRepo,
		attachmentRepo: attachmentRepo,
		sysAccounts:    sysAccounts,
		classifier:     classifier,
		baseCurrency:   cfg.BaseCurrency,
	}
}

var _ portssvc.ChequeSvcFacade = (*chequeService)(nil)

// twoLineJournal builds the balanced pair every cheque posting consists of.
func twoLineJournal(journalID string, debitAcc, creditAcc *domain.Account, amount decimal.Decimal, description string, audit domain.AuditFields) ([]domain.JournalLine, map[string]domain.AccountType) {
	lines := []domain.JournalLine{
		{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   debitAcc.AccountID,
			Debit:       amount,
			Credit:      decimal.Zero,
			Description: description,
			AuditFields: audit,
		},
		{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   creditAcc.AccountID,
			Debit:       decimal.Zero,
			Credit:      amount,
			Description: description,
			AuditFields: audit,
		},
	}
	types := map[string]domain.AccountType{
		debitAcc.AccountID:  debitAcc.AccountType,
		creditAcc.AccountID: creditAcc.AccountType,
	}
	return lines, types
}

// registrationAccounts resolves the debit/credit pair of the registration
// posting. Incoming cheques raise a note receivable against the customers
// control account; outgoing cheques clear the suppliers control account
// against notes payable.
func (s *chequeService) registrationAccounts(ctx context.Context, direction domain.ChequeDirection) (debit, credit *domain.Account, err error) {
	if direction == domain.Incoming {
		debit, err = s.sysAccounts.Resolve(ctx, domain.RoleNotesReceivable)
		if err != nil {
			return nil, nil, err
		}
		credit, err = s.sysAccounts.Resolve(ctx, domain.RoleCustomers)
		if err != nil {
			return nil, nil, err
		}
		return debit, credit, nil
	}
	debit, err = s.sysAccounts.Resolve(ctx, domain.RoleSuppliers)
	if err != nil {
		return nil, nil, err
	}
	credit, err = s.sysAccounts.Resolve(ctx, domain.RoleNotesPayable)
	if err != nil {
		return nil, nil, err
	}
	return debit, credit, nil
}

// CreateCheque implements portssvc.ChequeSvcFacade.
func (s *chequeService) CreateCheque(ctx context.Context, req dto.CreateChequeRequest, creatorUserID string) (*domain.Cheque, []dto.AttachmentFailure, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, req.PartyID)
		}
		return nil, nil, fmt.Errorf("failed to fetch party: %w", err)
	}

	// Resolve both system accounts before writing anything.
	debitAcc, creditAcc, err := s.registrationAccounts(ctx, req.Direction)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	chequeID := uuid.NewString()
	journalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	verb := "issued to"
	if req.Direction == domain.Incoming {
		verb = "received from"
	}
	description := fmt.Sprintf("Cheque %s %s %s", req.ChequeNumber, verb, party.Name)

	lines, types := twoLineJournal(journalID, debitAcc, creditAcc, req.Amount, description, audit)
	balanceChanges, err := accounting.BalanceChanges(lines, types)
	if err != nil {
		return nil, nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	journal := domain.Journal{
		JournalID:    journalID,
		JournalDate:  now,
		Reference:    fmt.Sprintf("CHQ-%s", req.ChequeNumber),
		Description:  description,
		CurrencyCode: s.baseCurrency,
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.Posted,
		Amount:       req.Amount,
		AuditFields:  audit,
	}

	cheque := domain.Cheque{
		ChequeID:     chequeID,
		ChequeNumber: req.ChequeNumber,
		Direction:    req.Direction,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		PartyID:      party.PartyID,
		PartyName:    party.Name,
		BankName:     req.BankName,
		Status:       req.Direction.InitialStatus(),
		Notes:        req.Notes,
		JournalID:    journalID,
		AuditFields:  audit,
	}

	if err := s.chequeRepo.SaveChequeWithJournal(ctx, cheque, journal, lines, balanceChanges); err != nil {
		logger.Error("Failed to register cheque", slog.String("error", err.Error()), slog.String("cheque_number", req.ChequeNumber))
		return nil, nil, fmt.Errorf("failed to register cheque: %w", err)
	}

	failures := saveAttachmentInputs(ctx, s.attachmentRepo, domain.OwnerCheque, chequeID, req.Attachments, creatorUserID, now)

	logger.Info("Cheque registered",
		slog.String("cheque_id", chequeID),
		slog.String("cheque_number", req.ChequeNumber),
		slog.String("status", string(cheque.Status)))
	return &cheque, failures, nil
}

// GetChequeByID implements portssvc.ChequeSvcFacade.
func (s *chequeService) GetChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	cheque, err := s.chequeRepo.FindChequeByID(ctx, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	return cheque, nil
}

// ListCheques implements portssvc.ChequeSvcFacade.
func (s *chequeService) ListCheques(ctx context.Context, params dto.ListChequesParams) (*dto.ListChequesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	cheques, nextToken, err := s.chequeRepo.ListCheques(ctx, params.Direction, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	responses := make([]dto.ChequeResponse, len(cheques))
	for i := range cheques {
		responses[i] = dto.ToChequeResponse(&cheques[i])
	}
	return &dto.ListChequesResponse{Cheques: responses, NextToken: nextToken}, nil
}

// allowedTransition checks target against the lifecycle of the cheque's
// direction. Terminal states allow nothing.
func allowedTransition(c *domain.Cheque, target domain.ChequeStatus) error {
	if c.Status.IsTerminal() {
		return fmt.Errorf("%w: cheque %s is already %s", apperrors.ErrInvalidTransition, c.ChequeNumber, c.Status)
	}
	switch target {
	case domain.ChequeCashed:
		if c.Direction != domain.Outgoing || c.Status != domain.ChequeIssued {
			return fmt.Errorf("%w: only an issued outgoing cheque can be cashed", apperrors.ErrInvalidTransition)
		}
	case domain.ChequeCollected:
		if c.Direction != domain.Incoming || c.Status != domain.ChequeReceived {
			return fmt.Errorf("%w: only a received incoming cheque can be collected", apperrors.ErrInvalidTransition)
		}
	case domain.ChequeRejected:
		// Reachable from either non-terminal state.
	default:
		return fmt.Errorf("%w: %s is not a transition target", apperrors.ErrInvalidTransition, target)
	}
	return nil
}

// settlementBank fetches and validates the bank account money settles through.
func (s *chequeService) settlementBank(ctx context.Context, bankAccountID string) (*domain.Account, error) {
	if bankAccountID == "" {
		return nil, fmt.Errorf("%w: bank account is required for settlement", apperrors.ErrValidation)
	}
	bank, err := s.accountRepo.FindAccountByID(ctx, bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
		}
		return nil, fmt.Errorf("failed to fetch bank account: %w", err)
	}
	if !bank.IsActive {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrValidation, bank.Code)
	}
	if !s.classifier.IsTreasury(*bank) {
		return nil, fmt.Errorf("%w: account %s is not a treasury account", apperrors.ErrValidation, bank.Code)
	}
	return bank, nil
}

// transitionPosting resolves the debit/credit pair and reference for the move
// to target.
func (s *chequeService) transitionPosting(ctx context.Context, c *domain.Cheque, req dto.ChequeTransitionRequest) (debit, credit *domain.Account, reference, description string, err error) {
	switch req.TargetStatus {
	case domain.ChequeCashed:
		bank, bErr := s.settlementBank(ctx, req.BankAccountID)
		if bErr != nil {
			return nil, nil, "", "", bErr
		}
		notesPayable, rErr := s.sysAccounts.Resolve(ctx, domain.RoleNotesPayable)
		if rErr != nil {
			return nil, nil, "", "", rErr
		}
		reference = fmt.Sprintf("CHQ-CASH-%s", c.ChequeNumber)
		description = fmt.Sprintf("Cheque %s cashed for %s", c.ChequeNumber, c.PartyName)
		return notesPayable, bank, reference, description, nil

	case domain.ChequeCollected:
		bank, bErr := s.settlementBank(ctx, req.BankAccountID)
		if bErr != nil {
			return nil, nil, "", "", bErr
		}
		notesReceivable, rErr := s.sysAccounts.Resolve(ctx, domain.RoleNotesReceivable)
		if rErr != nil {
			return nil, nil, "", "", rErr
		}
		reference = fmt.Sprintf("CHQ-COLL-%s", c.ChequeNumber)
		description = fmt.Sprintf("Cheque %s collected from %s", c.ChequeNumber, c.PartyName)
		return bank, notesReceivable, reference, description, nil

	case domain.ChequeRejected:
		// Rejection undoes the registration posting.
		regDebit, regCredit, rErr := s.registrationAccounts(ctx, c.Direction)
		if rErr != nil {
			return nil, nil, "", "", rErr
		}
		reference = fmt.Sprintf("CHQ-REJ-%s", c.ChequeNumber)
		description = fmt.Sprintf("Cheque %s rejected, %s reinstated", c.ChequeNumber, c.PartyName)
		return regCredit, regDebit, reference, description, nil
	}
	return nil, nil, "", "", fmt.Errorf("%w: %s", apperrors.ErrInvalidTransition, req.TargetStatus)
}

// TransitionCheque implements portssvc.ChequeSvcFacade.
func (s *chequeService) TransitionCheque(ctx context.Context, chequeID string, req dto.ChequeTransitionRequest, userID string) (*domain.Cheque, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cheque, err := s.chequeRepo.FindChequeByID(ctx, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cheque %s: %w", chequeID, err)
	}
	if err := allowedTransition(cheque, req.TargetStatus); err != nil {
		return nil, err
	}

	debitAcc, creditAcc, reference, description, err := s.transitionPosting(ctx, cheque, req)
	if err != nil {
		return nil, err
	}

	// A transfer settlement records its bank details and relabels the posting.
	if req.Transfer != nil {
		if req.TargetStatus == domain.ChequeRejected {
			return nil, fmt.Errorf("%w: a rejection cannot carry transfer details", apperrors.ErrValidation)
		}
		reference = fmt.Sprintf("TRF-%s", cheque.ChequeNumber)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	lines, types := twoLineJournal(journalID, debitAcc, creditAcc, cheque.Amount, description, audit)
	balanceChanges, err := accounting.BalanceChanges(lines, types)
	if err != nil {
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	journal := domain.Journal{
		JournalID:    journalID,
		JournalDate:  req.ActionDate,
		Reference:    reference,
		Description:  description,
		CurrencyCode: s.baseCurrency,
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.Posted,
		Amount:       cheque.Amount,
		AuditFields:  audit,
	}

	expectedStatus := cheque.Status
	updated := *cheque
	updated.Status = req.TargetStatus
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID
	if req.Transfer != nil {
		updated.Transfer = &domain.TransferDetails{
			DestinationAccountNumber: req.Transfer.DestinationAccountNumber,
			DestinationBankName:      req.Transfer.DestinationBankName,
			TransferDate:             req.Transfer.TransferDate,
		}
	}

	if err := s.chequeRepo.TransitionCheque(ctx, updated, expectedStatus, journal, lines, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrTransitionConflict) {
			logger.Warn("Concurrent cheque transition detected",
				slog.String("cheque_id", chequeID), slog.String("expected_status", string(expectedStatus)))
			return nil, err
		}
		logger.Error("Failed to transition cheque", slog.String("error", err.Error()), slog.String("cheque_id", chequeID))
		return nil, fmt.Errorf("failed to transition cheque: %w", err)
	}

	logger.Info("Cheque transitioned",
		slog.String("cheque_id", chequeID),
		slog.String("from", string(expectedStatus)),
		slog.String("to", string(req.TargetStatus)),
		slog.String("journal_id", journalID))
	return &updated, nil
}
