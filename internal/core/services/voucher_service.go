package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
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

type voucherService struct {
	voucherRepo    portsrepo.VoucherRepositoryFacade
	accountRepo    portsrepo.AccountReader
	partyRepo      portsrepo.PartyReader
	attachmentRepo portsrepo.AttachmentRepository
	ledgerSvc      portssvc.LedgerSvcFacade
	sysAccounts    portssvc.SystemAccountSvcFacade
	classifier     *TreasuryClassifier

	baseCurrency    string
	atomicPosting   bool
	retryMaxElapsed time.Duration
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	partyRepo portsrepo.PartyReader,
	attachmentRepo portsrepo.AttachmentRepository,
	ledgerSvc portssvc.LedgerSvcFacade,
	sysAccounts portssvc.SystemAccountSvcFacade,
	classifier *TreasuryClassifier,
	cfg *config.Config,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:     voucherRepo,
		accountRepo:     accountRepo,
		partyRepo:       partyRepo,
		attachmentRepo:  attachmentRepo,
		ledgerSvc:       ledgerSvc,
		sysAccounts:     sysAccounts,
		classifier:      classifier,
		baseCurrency:    cfg.BaseCurrency,
		atomicPosting:   cfg.VoucherAtomicPosting,
		retryMaxElapsed: cfg.RetryMaxElapsed,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func voucherNumberPrefix(t domain.VoucherType) string {
	if t == domain.Receipt {
		return "RCT"
	}
	return "PAY"
}

// newVoucherNumber derives a business number from the creation instant. The
// unique constraint on voucher_number is the final arbiter; a collision
// surfaces as ErrDuplicate.
func newVoucherNumber(t domain.VoucherType, now time.Time) string {
	return fmt.Sprintf("%s-%d", voucherNumberPrefix(t), now.UnixMilli()%1_000_000_000)
}

// resolveCounterpart picks the account on the far side of the treasury
// movement. An explicit target account always wins; otherwise the sub type
// selects a system account role.
func (s *voucherService) resolveCounterpart(ctx context.Context, req dto.CreateVoucherRequest) (*domain.Account, error) {
	if req.TargetAccountID != "" {
		target, err := s.accountRepo.FindAccountByID(ctx, req.TargetAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: target account %s", apperrors.ErrNotFound, req.TargetAccountID)
			}
			return nil, fmt.Errorf("failed to fetch target account: %w", err)
		}
		return target, nil
	}

	switch req.SubType {
	case domain.SubTypeParty:
		if req.PartyID == "" {
			return nil, fmt.Errorf("%w: party voucher without a party", apperrors.ErrMissingCounterparty)
		}
		party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, req.PartyID)
			}
			return nil, fmt.Errorf("failed to fetch party: %w", err)
		}
		role := domain.RoleCustomers
		if party.PartyType == domain.Supplier {
			role = domain.RoleSuppliers
		}
		return s.sysAccounts.Resolve(ctx, role)
	case domain.SubTypeDeposit:
		return s.sysAccounts.Resolve(ctx, domain.RoleCustomerDeposits)
	default:
		return nil, apperrors.ErrMissingCounterparty
	}
}

// CreateVoucher implements portssvc.VoucherSvcFacade.
func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, []dto.AttachmentFailure, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	subType := req.SubType
	if subType == "" {
		if req.PartyID != "" {
			subType = domain.SubTypeParty
		} else {
			subType = domain.SubTypeGeneral
		}
	}
	req.SubType = subType

	treasury, err := s.accountRepo.FindAccountByID(ctx, req.TreasuryAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: treasury account %s", apperrors.ErrNotFound, req.TreasuryAccountID)
		}
		return nil, nil, fmt.Errorf("failed to fetch treasury account: %w", err)
	}
	if !treasury.IsActive {
		return nil, nil, fmt.Errorf("%w: treasury account %s is inactive", apperrors.ErrValidation, treasury.Code)
	}
	if !s.classifier.IsTreasury(*treasury) {
		return nil, nil, fmt.Errorf("%w: account %s is not a treasury account", apperrors.ErrValidation, treasury.Code)
	}

	counterpart, err := s.resolveCounterpart(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if counterpart.IsGroup {
		return nil, nil, fmt.Errorf("%w: counterpart account %s is a group account", apperrors.ErrValidation, counterpart.Code)
	}
	if !counterpart.IsActive {
		return nil, nil, fmt.Errorf("%w: counterpart account %s is inactive", apperrors.ErrValidation, counterpart.Code)
	}
	if counterpart.AccountID == treasury.AccountID {
		return nil, nil, fmt.Errorf("%w: counterpart and treasury account must differ", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	voucherID := uuid.NewString()
	journalID := uuid.NewString()
	voucherNumber := newVoucherNumber(req.VoucherType, now)

	method := req.PaymentMethod
	if method == "" {
		method = domain.MethodCash
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.baseCurrency
	}
	rate := req.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	// Receipt: money enters the treasury. Payment: money leaves it.
	debitAccount, creditAccount := treasury, counterpart
	if req.VoucherType == domain.Payment {
		debitAccount, creditAccount = counterpart, treasury
	}

	kind := "Receipt"
	if req.VoucherType == domain.Payment {
		kind = "Payment"
	}
	description := fmt.Sprintf("%s voucher %s", kind, voucherNumber)
	if req.Notes != "" {
		description = fmt.Sprintf("%s: %s", description, req.Notes)
	}

	lines := []domain.JournalLine{
		{
			LineID:       uuid.NewString(),
			JournalID:    journalID,
			AccountID:    debitAccount.AccountID,
			Debit:        req.Amount,
			Credit:       decimal.Zero,
			Description:  description,
			CostCenterID: req.CostCenterID,
			AuditFields:  audit,
		},
		{
			LineID:       uuid.NewString(),
			JournalID:    journalID,
			AccountID:    creditAccount.AccountID,
			Debit:        decimal.Zero,
			Credit:       req.Amount,
			Description:  description,
			CostCenterID: req.CostCenterID,
			AuditFields:  audit,
		},
	}

	accountTypes := map[string]domain.AccountType{
		debitAccount.AccountID:  debitAccount.AccountType,
		creditAccount.AccountID: creditAccount.AccountType,
	}
	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	journal := domain.Journal{
		JournalID:    journalID,
		JournalDate:  req.Date,
		Reference:    voucherNumber,
		Description:  description,
		CurrencyCode: currency,
		ExchangeRate: rate,
		Status:       domain.Posted,
		Amount:       req.Amount,
		AuditFields:  audit,
	}

	voucher := domain.Voucher{
		VoucherID:         voucherID,
		VoucherNumber:     voucherNumber,
		VoucherType:       req.VoucherType,
		SubType:           subType,
		VoucherDate:       req.Date,
		Amount:            req.Amount,
		CurrencyCode:      currency,
		ExchangeRate:      rate,
		TreasuryAccountID: treasury.AccountID,
		PartyID:           req.PartyID,
		TargetAccountID:   counterpart.AccountID,
		PaymentMethod:     method,
		Notes:             req.Notes,
		JournalID:         journalID,
		Status:            domain.VoucherPosted,
		AuditFields:       audit,
	}

	if err := s.postWithRetry(ctx, voucher, journal, lines, balanceChanges); err != nil {
		logger.Error("Failed to post voucher", slog.String("error", err.Error()), slog.String("voucher_number", voucherNumber))
		return nil, nil, fmt.Errorf("failed to post voucher: %w", err)
	}

	failures := saveAttachmentInputs(ctx, s.attachmentRepo, domain.OwnerVoucher, voucherID, req.Attachments, creatorUserID, now)

	logger.Info("Voucher posted",
		slog.String("voucher_id", voucherID),
		slog.String("voucher_number", voucherNumber),
		slog.String("journal_id", journalID))
	return &voucher, failures, nil
}

// postWithRetry posts through the configured poster. The composite path is
// at-least-once: transient persistence failures are retried with bounded
// backoff, and every attempt first checks the voucher number for a completed
// posting and the journal ID for a partial one, so a replay runs only the
// step that is missing. Validation-class errors are never retried.
func (s *voucherService) postWithRetry(ctx context.Context, voucher domain.Voucher, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	classify := func(err error) error {
		if err == nil || apperrors.IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	if s.atomicPosting {
		// One transaction, nothing partial to reconcile and nothing to retry.
		return unwrapPermanent(classify(s.voucherRepo.PostVoucher(ctx, voucher, journal, lines, balanceChanges)))
	}

	operation := func() error {
		if existing, err := s.voucherRepo.FindVoucherByNumber(ctx, voucher.VoucherNumber); err == nil && existing != nil {
			return nil
		}
		// An earlier attempt may have committed the journal and then failed on
		// the voucher insert. Finish that insert instead of posting the journal
		// a second time, which would double its balance effects.
		existing, err := s.ledgerSvc.GetJournalByID(ctx, journal.JournalID)
		switch {
		case err == nil && existing != nil:
			return classify(s.voucherRepo.SaveVoucher(ctx, voucher))
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return classify(err)
		}
		return classify(s.voucherRepo.PostVoucher(ctx, voucher, journal, lines, balanceChanges))
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(s.retryMaxElapsed)), ctx)
	return unwrapPermanent(backoff.Retry(operation, policy))
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

// saveAttachmentInputs records attachment metadata for a committed financial
// record. Failures are collected per file and never propagate.
func saveAttachmentInputs(ctx context.Context, repo portsrepo.AttachmentRepository, owner domain.AttachmentOwner, ownerID string, inputs []dto.AttachmentInput, userID string, now time.Time) []dto.AttachmentFailure {
	if len(inputs) == 0 {
		return nil
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var failures []dto.AttachmentFailure
	for _, in := range inputs {
		attachment := domain.Attachment{
			AttachmentID: uuid.NewString(),
			OwnerType:    owner,
			OwnerID:      ownerID,
			FilePath:     in.FilePath,
			FileName:     in.FileName,
			FileType:     in.FileType,
			FileSize:     in.FileSize,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := repo.SaveAttachment(ctx, attachment); err != nil {
			logger.Warn("Failed to save attachment, financial record unaffected",
				slog.String("file_name", in.FileName), slog.String("error", err.Error()))
			failures = append(failures, dto.AttachmentFailure{FileName: in.FileName, Reason: err.Error()})
		}
	}
	return failures
}

// GetVoucherByID implements portssvc.VoucherSvcFacade.
func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	return voucher, nil
}

// ListVouchers implements portssvc.VoucherSvcFacade.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, params.VoucherType, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	responses := make([]dto.VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = dto.ToVoucherResponse(&vouchers[i])
	}
	return &dto.ListVouchersResponse{Vouchers: responses, NextToken: nextToken}, nil
}

// UpdateVoucher implements portssvc.VoucherSvcFacade. Only non-financial
// fields can change; the posted journal stays untouched.
func (s *voucherService) UpdateVoucher(ctx context.Context, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	if voucher.Status == domain.VoucherReversed {
		return nil, fmt.Errorf("%w: voucher %s is reversed", apperrors.ErrConflict, voucher.VoucherNumber)
	}

	notes := voucher.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	method := voucher.PaymentMethod
	if req.PaymentMethod != nil {
		method = *req.PaymentMethod
	}

	now := time.Now().UTC()
	if err := s.voucherRepo.UpdateVoucherDetails(ctx, voucherID, notes, method, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update voucher details: %w", err)
	}

	voucher.Notes = notes
	voucher.PaymentMethod = method
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID
	return voucher, nil
}

// ReverseVoucher implements portssvc.VoucherSvcFacade.
func (s *voucherService) ReverseVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	if voucher.Status != domain.VoucherPosted {
		return nil, fmt.Errorf("%w: voucher %s status is %s, expected POSTED", apperrors.ErrConflict, voucher.VoucherNumber, voucher.Status)
	}

	reversing, err := s.ledgerSvc.ReverseEntry(ctx, voucher.JournalID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse voucher journal: %w", err)
	}

	now := time.Now().UTC()
	if err := s.voucherRepo.MarkVoucherReversed(ctx, voucherID, userID, now); err != nil {
		logger.Error("Journal reversed but voucher status update failed",
			slog.String("voucher_id", voucherID),
			slog.String("reversing_journal_id", reversing.JournalID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to mark voucher reversed: %w", err)
	}

	voucher.Status = domain.VoucherReversed
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID
	logger.Info("Voucher reversed", slog.String("voucher_id", voucherID), slog.String("reversing_journal_id", reversing.JournalID))
	return voucher, nil
}
