package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/core/services"
	"github.com/egledger/treasury_backend/internal/dto"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo    *MockVoucherRepository
	mockAccountRepo    *MockAccountRepository
	mockPartyRepo      *MockPartyRepository
	mockAttachmentRepo *MockAttachmentRepository
	mockLedger         *MockLedgerService
	mockSysAccounts    *MockSystemAccountService
	service            portssvc.VoucherSvcFacade
	cfg                *config.Config
	ctx                context.Context

	treasuryAccount  domain.Account
	customersAccount domain.Account
	suppliersAccount domain.Account
	expenseAccount   domain.Account
}

func (s *VoucherServiceTestSuite) SetupTest() {
	s.mockVoucherRepo = new(MockVoucherRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockPartyRepo = new(MockPartyRepository)
	s.mockAttachmentRepo = new(MockAttachmentRepository)
	s.mockLedger = new(MockLedgerService)
	s.mockSysAccounts = new(MockSystemAccountService)
	s.ctx = context.Background()

	s.cfg = &config.Config{
		BaseCurrency:         "EGP",
		VoucherAtomicPosting: true,
		RetryMaxElapsed:      2 * time.Second,
		TreasuryCodePrefixes: []string{"101", "123"},
		TreasuryNameKeywords: []string{"cash", "bank"},
	}
	s.service = s.newService(s.cfg)

	s.treasuryAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1231",
		Name:        "Main Cash Box",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.customersAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "10201",
		Name:        "Customers Control",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.suppliersAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "201",
		Name:        "Suppliers Control",
		AccountType: domain.Liability,
		IsActive:    true,
	}
	s.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "502",
		Name:        "General Expenses",
		AccountType: domain.Expense,
		IsActive:    true,
	}
}

func (s *VoucherServiceTestSuite) newService(cfg *config.Config) portssvc.VoucherSvcFacade {
	return services.NewVoucherService(
		s.mockVoucherRepo,
		s.mockAccountRepo,
		s.mockPartyRepo,
		s.mockAttachmentRepo,
		s.mockLedger,
		s.mockSysAccounts,
		services.NewTreasuryClassifier(cfg),
		cfg,
	)
}

func (s *VoucherServiceTestSuite) receiptRequest(amount decimal.Decimal) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		VoucherType:       domain.Receipt,
		Date:              time.Now().UTC(),
		Amount:            amount,
		TreasuryAccountID: s.treasuryAccount.AccountID,
		TargetAccountID:   s.expenseAccount.AccountID,
	}
}

func (s *VoucherServiceTestSuite) expectAccount(account domain.Account) {
	s.mockAccountRepo.On("FindAccountByID", s.ctx, account.AccountID).Return(&account, nil)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_ReceiptDebitsTreasury() {
	amount := decimal.NewFromInt(500)
	req := s.receiptRequest(amount)
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)

	var postedVoucher domain.Voucher
	var postedJournal domain.Journal
	var postedLines []domain.JournalLine
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			postedVoucher = args.Get(1).(domain.Voucher)
			postedJournal = args.Get(2).(domain.Journal)
			postedLines = args.Get(3).([]domain.JournalLine)
		}).
		Return(nil).Once()

	voucher, failures, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.Require().NotNil(voucher)
	s.Empty(failures)
	s.Equal(domain.VoucherPosted, postedVoucher.Status)
	s.Regexp(`^RCT-\d+$`, postedVoucher.VoucherNumber)
	s.Equal(postedVoucher.VoucherNumber, postedJournal.Reference)
	s.Equal(domain.SubTypeGeneral, postedVoucher.SubType)
	s.Equal(domain.MethodCash, postedVoucher.PaymentMethod)

	s.Require().Len(postedLines, 2)
	s.Equal(s.treasuryAccount.AccountID, postedLines[0].AccountID)
	s.True(postedLines[0].Debit.Equal(amount), "receipt must debit the treasury account")
	s.Equal(s.expenseAccount.AccountID, postedLines[1].AccountID)
	s.True(postedLines[1].Credit.Equal(amount))
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_PaymentCreditsTreasury() {
	amount := decimal.NewFromInt(300)
	req := s.receiptRequest(amount)
	req.VoucherType = domain.Payment
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)

	var postedVoucher domain.Voucher
	var postedLines []domain.JournalLine
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			postedVoucher = args.Get(1).(domain.Voucher)
			postedLines = args.Get(3).([]domain.JournalLine)
		}).
		Return(nil).Once()

	_, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.Regexp(`^PAY-\d+$`, postedVoucher.VoucherNumber)
	s.Require().Len(postedLines, 2)
	s.Equal(s.expenseAccount.AccountID, postedLines[0].AccountID)
	s.True(postedLines[0].Debit.Equal(amount))
	s.Equal(s.treasuryAccount.AccountID, postedLines[1].AccountID)
	s.True(postedLines[1].Credit.Equal(amount), "payment must credit the treasury account")
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_PartyResolvesSuppliersRole() {
	partyID := uuid.NewString()
	party := &domain.Party{PartyID: partyID, PartyType: domain.Supplier, Name: "Nile Traders"}
	req := dto.CreateVoucherRequest{
		VoucherType:       domain.Payment,
		Date:              time.Now().UTC(),
		Amount:            decimal.NewFromInt(700),
		TreasuryAccountID: s.treasuryAccount.AccountID,
		PartyID:           partyID,
	}

	s.expectAccount(s.treasuryAccount)
	s.mockPartyRepo.On("FindPartyByID", s.ctx, partyID).Return(party, nil).Once()
	s.mockSysAccounts.On("Resolve", s.ctx, domain.RoleSuppliers).Return(&s.suppliersAccount, nil).Once()
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	voucher, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.Equal(domain.SubTypeParty, voucher.SubType)
	s.Equal(s.suppliersAccount.AccountID, voucher.TargetAccountID)
	s.mockSysAccounts.AssertExpectations(s.T())
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_DepositResolvesDepositsRole() {
	deposits := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "226",
		Name:        "Customer Deposits",
		AccountType: domain.Liability,
		IsActive:    true,
	}
	req := dto.CreateVoucherRequest{
		VoucherType:       domain.Receipt,
		SubType:           domain.SubTypeDeposit,
		Date:              time.Now().UTC(),
		Amount:            decimal.NewFromInt(250),
		TreasuryAccountID: s.treasuryAccount.AccountID,
	}

	s.expectAccount(s.treasuryAccount)
	s.mockSysAccounts.On("Resolve", s.ctx, domain.RoleCustomerDeposits).Return(&deposits, nil).Once()
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	voucher, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.Equal(deposits.AccountID, voucher.TargetAccountID)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_NoCounterpartyRejected() {
	req := dto.CreateVoucherRequest{
		VoucherType:       domain.Receipt,
		Date:              time.Now().UTC(),
		Amount:            decimal.NewFromInt(100),
		TreasuryAccountID: s.treasuryAccount.AccountID,
	}
	s.expectAccount(s.treasuryAccount)

	_, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrMissingCounterparty)
	s.mockVoucherRepo.AssertNotCalled(s.T(), "PostVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_NonTreasuryAccountRejected() {
	req := s.receiptRequest(decimal.NewFromInt(100))
	req.TreasuryAccountID = s.expenseAccount.AccountID
	s.expectAccount(s.expenseAccount)

	_, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_NonPositiveAmountRejected() {
	req := s.receiptRequest(decimal.Zero)

	_, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_CounterpartEqualsTreasuryRejected() {
	req := s.receiptRequest(decimal.NewFromInt(100))
	req.TargetAccountID = s.treasuryAccount.AccountID
	s.expectAccount(s.treasuryAccount)

	_, _, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_AttachmentFailureDoesNotFailVoucher() {
	req := s.receiptRequest(decimal.NewFromInt(100))
	req.Attachments = []dto.AttachmentInput{
		{FilePath: "vouchers/a.pdf", FileName: "a.pdf"},
		{FilePath: "vouchers/b.pdf", FileName: "b.pdf"},
	}
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockAttachmentRepo.On("SaveAttachment", s.ctx, mock.MatchedBy(func(a domain.Attachment) bool {
		return a.FileName == "a.pdf"
	})).Return(nil).Once()
	s.mockAttachmentRepo.On("SaveAttachment", s.ctx, mock.MatchedBy(func(a domain.Attachment) bool {
		return a.FileName == "b.pdf"
	})).Return(apperrors.NewAppError(500, "insert failed", nil)).Once()

	voucher, failures, err := s.service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.Require().NotNil(voucher)
	s.Require().Len(failures, 1)
	s.Equal("b.pdf", failures[0].FileName)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_CompositeRetriesTransientFailure() {
	cfg := *s.cfg
	cfg.VoucherAtomicPosting = false
	service := s.newService(&cfg)

	req := s.receiptRequest(decimal.NewFromInt(100))
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)

	// First attempt fails transiently before anything commits; the retry finds
	// neither the voucher nor the journal and posts successfully.
	s.mockVoucherRepo.On("FindVoucherByNumber", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	s.mockLedger.On("GetJournalByID", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(500, "connection reset", nil)).Once()
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	_, _, err := service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.mockVoucherRepo.AssertNumberOfCalls(s.T(), "PostVoucher", 2)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_CompositeReplayFinishesVoucherInsert() {
	cfg := *s.cfg
	cfg.VoucherAtomicPosting = false
	service := s.newService(&cfg)

	req := s.receiptRequest(decimal.NewFromInt(100))
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)

	// The journal commits but the voucher insert fails. The retry must detect
	// the committed journal and finish the voucher insert rather than post the
	// journal again and double its balance effects.
	s.mockVoucherRepo.On("FindVoucherByNumber", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	s.mockLedger.On("GetJournalByID", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(500, "connection reset during voucher insert", nil)).Once()
	s.mockLedger.On("GetJournalByID", s.ctx, mock.Anything).Return(&domain.Journal{Status: domain.Posted}, nil)

	var savedVoucher domain.Voucher
	s.mockVoucherRepo.On("SaveVoucher", s.ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			savedVoucher = args.Get(1).(domain.Voucher)
		}).
		Return(nil).Once()

	voucher, _, err := service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.mockVoucherRepo.AssertNumberOfCalls(s.T(), "PostVoucher", 1)
	s.mockVoucherRepo.AssertNumberOfCalls(s.T(), "SaveVoucher", 1)
	s.Equal(voucher.VoucherID, savedVoucher.VoucherID)
	s.Equal(voucher.JournalID, savedVoucher.JournalID)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_CompositeReplayStopsAtExistingVoucher() {
	cfg := *s.cfg
	cfg.VoucherAtomicPosting = false
	service := s.newService(&cfg)

	req := s.receiptRequest(decimal.NewFromInt(100))
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)

	// Both steps committed even though the first attempt reported a failure.
	// The retry sees the voucher number taken and writes nothing more.
	s.mockVoucherRepo.On("FindVoucherByNumber", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	s.mockLedger.On("GetJournalByID", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(500, "connection reset after commit", nil)).Once()
	s.mockVoucherRepo.On("FindVoucherByNumber", s.ctx, mock.Anything).Return(&domain.Voucher{}, nil)

	_, _, err := service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().NoError(err)
	s.mockVoucherRepo.AssertNumberOfCalls(s.T(), "PostVoucher", 1)
	s.mockVoucherRepo.AssertNotCalled(s.T(), "SaveVoucher", mock.Anything, mock.Anything)
}

func (s *VoucherServiceTestSuite) TestCreateVoucher_DuplicateNumberNotRetried() {
	cfg := *s.cfg
	cfg.VoucherAtomicPosting = false
	service := s.newService(&cfg)

	req := s.receiptRequest(decimal.NewFromInt(100))
	s.expectAccount(s.treasuryAccount)
	s.expectAccount(s.expenseAccount)

	s.mockVoucherRepo.On("FindVoucherByNumber", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	s.mockLedger.On("GetJournalByID", s.ctx, mock.Anything).Return(nil, apperrors.ErrNotFound)
	s.mockVoucherRepo.On("PostVoucher", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate)

	_, _, err := service.CreateVoucher(s.ctx, req, uuid.NewString())

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockVoucherRepo.AssertNumberOfCalls(s.T(), "PostVoucher", 1)
}

func (s *VoucherServiceTestSuite) TestUpdateVoucher_PatchesNotesAndMethod() {
	voucherID := uuid.NewString()
	existing := &domain.Voucher{
		VoucherID:     voucherID,
		VoucherNumber: "RCT-104522",
		Status:        domain.VoucherPosted,
		Notes:         "old",
		PaymentMethod: domain.MethodCash,
	}
	newNotes := "corrected note"
	newMethod := domain.MethodTransfer

	s.mockVoucherRepo.On("FindVoucherByID", s.ctx, voucherID).Return(existing, nil).Once()
	s.mockVoucherRepo.On("UpdateVoucherDetails", s.ctx, voucherID, newNotes, newMethod, mock.Anything, mock.Anything).
		Return(nil).Once()

	updated, err := s.service.UpdateVoucher(s.ctx, voucherID, dto.UpdateVoucherRequest{Notes: &newNotes, PaymentMethod: &newMethod}, uuid.NewString())

	s.Require().NoError(err)
	s.Equal(newNotes, updated.Notes)
	s.Equal(newMethod, updated.PaymentMethod)
}

func (s *VoucherServiceTestSuite) TestUpdateVoucher_ReversedVoucherRejected() {
	voucherID := uuid.NewString()
	existing := &domain.Voucher{VoucherID: voucherID, VoucherNumber: "RCT-1", Status: domain.VoucherReversed}
	s.mockVoucherRepo.On("FindVoucherByID", s.ctx, voucherID).Return(existing, nil).Once()

	_, err := s.service.UpdateVoucher(s.ctx, voucherID, dto.UpdateVoucherRequest{}, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockVoucherRepo.AssertNotCalled(s.T(), "UpdateVoucherDetails", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_ReversesJournalAndMarksVoucher() {
	voucherID := uuid.NewString()
	journalID := uuid.NewString()
	userID := uuid.NewString()
	existing := &domain.Voucher{
		VoucherID: voucherID,
		JournalID: journalID,
		Status:    domain.VoucherPosted,
	}
	reversing := &domain.Journal{JournalID: uuid.NewString(), Status: domain.Posted}

	s.mockVoucherRepo.On("FindVoucherByID", s.ctx, voucherID).Return(existing, nil).Once()
	s.mockLedger.On("ReverseEntry", s.ctx, journalID, userID).Return(reversing, nil).Once()
	s.mockVoucherRepo.On("MarkVoucherReversed", s.ctx, voucherID, userID, mock.Anything).Return(nil).Once()

	voucher, err := s.service.ReverseVoucher(s.ctx, voucherID, userID)

	s.Require().NoError(err)
	s.Equal(domain.VoucherReversed, voucher.Status)
	s.mockLedger.AssertExpectations(s.T())
}

func (s *VoucherServiceTestSuite) TestReverseVoucher_AlreadyReversedRejected() {
	voucherID := uuid.NewString()
	existing := &domain.Voucher{VoucherID: voucherID, Status: domain.VoucherReversed}
	s.mockVoucherRepo.On("FindVoucherByID", s.ctx, voucherID).Return(existing, nil).Once()

	_, err := s.service.ReverseVoucher(s.ctx, voucherID, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockLedger.AssertNotCalled(s.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
