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

type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade
	ctx             context.Context

	cashAccount  domain.Account
	salesAccount domain.Account
	groupAccount domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.ctx = context.Background()

	cfg := &config.Config{BaseCurrency: "EGP"}
	s.service = services.NewLedgerService(s.mockJournalRepo, s.mockAccountRepo, cfg)

	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1231",
		Name:        "Main Cash Box",
		AccountType: domain.Asset,
		IsActive:    true,
		Balance:     decimal.NewFromInt(1000),
	}
	s.salesAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4101",
		Name:        "Sales Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
		Balance:     decimal.Zero,
	}
	s.groupAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1",
		Name:        "Assets",
		AccountType: domain.Asset,
		IsGroup:     true,
		IsActive:    true,
	}
}

func (s *LedgerServiceTestSuite) accountsByID(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (s *LedgerServiceTestSuite) balancedRequest(amount decimal.Decimal) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Date:        time.Now().UTC(),
		Reference:   "INV-100",
		Description: "Cash sale",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.cashAccount.AccountID, Debit: amount},
			{AccountID: s.salesAccount.AccountID, Credit: amount},
		},
	}
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_BalancedEntryIsPosted() {
	amount := decimal.NewFromInt(150)
	req := s.balancedRequest(amount)
	userID := uuid.NewString()

	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).
		Return(s.accountsByID(s.cashAccount, s.salesAccount), nil).Once()

	var savedJournal domain.Journal
	var savedLines []domain.JournalLine
	var savedChanges map[string]decimal.Decimal
	s.mockJournalRepo.On("SaveJournal", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedJournal = args.Get(1).(domain.Journal)
			savedLines = args.Get(2).([]domain.JournalLine)
			savedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()

	journal, err := s.service.ValidateAndPost(s.ctx, req, userID)

	s.Require().NoError(err)
	s.Require().NotNil(journal)
	s.Equal(domain.Posted, savedJournal.Status)
	s.Equal("INV-100", savedJournal.Reference)
	s.True(savedJournal.Amount.Equal(amount))
	s.Equal("EGP", savedJournal.CurrencyCode)
	s.True(savedJournal.ExchangeRate.Equal(decimal.NewFromInt(1)))
	s.Equal(userID, savedJournal.CreatedBy)
	s.Len(savedLines, 2)

	// Debit to an asset and credit to revenue both increase their balances.
	s.True(savedChanges[s.cashAccount.AccountID].Equal(amount))
	s.True(savedChanges[s.salesAccount.AccountID].Equal(amount))
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_UnbalancedEntryRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[1].Credit = decimal.NewFromInt(99)

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_ExactDecimalEquality() {
	// 0.1 + 0.2 vs 0.3 must balance exactly under decimal arithmetic.
	req := dto.CreateJournalRequest{
		Date:        time.Now().UTC(),
		Reference:   "ADJ-7",
		Description: "Fractional adjustment",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.cashAccount.AccountID, Debit: decimal.RequireFromString("0.1")},
			{AccountID: s.cashAccount.AccountID, Debit: decimal.RequireFromString("0.2")},
			{AccountID: s.salesAccount.AccountID, Credit: decimal.RequireFromString("0.3")},
		},
	}

	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).
		Return(s.accountsByID(s.cashAccount, s.salesAccount), nil).Once()
	s.mockJournalRepo.On("SaveJournal", s.ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())
	s.NoError(err)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_SingleLineRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines = req.Lines[:1]

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_BothSidesOnOneLineRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[0].Credit = decimal.NewFromInt(100)

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_NegativeAmountRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[0].Debit = decimal.NewFromInt(-100)

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_SameAccountOnBothSidesRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[1].AccountID = s.cashAccount.AccountID

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_MissingAccountRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))

	// Repository only knows the cash account.
	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).
		Return(s.accountsByID(s.cashAccount), nil).Once()

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_GroupAccountRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Lines[0].AccountID = s.groupAccount.AccountID

	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).
		Return(s.accountsByID(s.groupAccount, s.salesAccount), nil).Once()

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_InactiveAccountRejected() {
	inactive := s.salesAccount
	inactive.IsActive = false
	req := s.balancedRequest(decimal.NewFromInt(100))

	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).
		Return(s.accountsByID(s.cashAccount, inactive), nil).Once()

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestValidateAndPost_MissingReferenceRejected() {
	req := s.balancedRequest(decimal.NewFromInt(100))
	req.Reference = "   "

	_, err := s.service.ValidateAndPost(s.ctx, req, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestGetJournalByID_AttachesLines() {
	journalID := uuid.NewString()
	journal := &domain.Journal{JournalID: journalID, Status: domain.Posted}
	lines := []domain.JournalLine{{LineID: uuid.NewString(), JournalID: journalID}}

	s.mockJournalRepo.On("FindJournalByID", s.ctx, journalID).Return(journal, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalID", s.ctx, journalID).Return(lines, nil).Once()

	got, err := s.service.GetJournalByID(s.ctx, journalID)

	s.Require().NoError(err)
	s.Len(got.Lines, 1)
}

func (s *LedgerServiceTestSuite) TestListJournals_DefaultLimit() {
	s.mockJournalRepo.On("ListJournals", s.ctx, 20, (*string)(nil), false).
		Return([]domain.Journal{}, nil, nil).Once()

	resp, err := s.service.ListJournals(s.ctx, dto.ListJournalsParams{})

	s.Require().NoError(err)
	s.Empty(resp.Journals)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestReverseEntry_SwapsSidesAndLinks() {
	journalID := uuid.NewString()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(250)
	original := &domain.Journal{
		JournalID:    journalID,
		JournalDate:  time.Now().UTC(),
		Reference:    "INV-42",
		Description:  "Cash sale",
		CurrencyCode: "EGP",
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.Posted,
		Amount:       amount,
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: s.cashAccount.AccountID, Debit: amount, Credit: decimal.Zero},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: s.salesAccount.AccountID, Debit: decimal.Zero, Credit: amount},
	}

	s.mockJournalRepo.On("FindJournalByID", s.ctx, journalID).Return(original, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalID", s.ctx, journalID).Return(originalLines, nil).Once()
	s.mockAccountRepo.On("FindAccountsByIDs", s.ctx, mock.Anything).
		Return(s.accountsByID(s.cashAccount, s.salesAccount), nil).Once()

	var reversing domain.Journal
	var reversingLines []domain.JournalLine
	var changes map[string]decimal.Decimal
	s.mockJournalRepo.On("SaveReversal", s.ctx, mock.Anything, mock.Anything, mock.Anything, journalID).
		Run(func(args mock.Arguments) {
			reversing = args.Get(1).(domain.Journal)
			reversingLines = args.Get(2).([]domain.JournalLine)
			changes = args.Get(3).(map[string]decimal.Decimal)
		}).
		Return(nil).Once()

	got, err := s.service.ReverseEntry(s.ctx, journalID, userID)

	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("REV-INV-42", reversing.Reference)
	s.Contains(reversing.Description, "Reversal of:")
	s.Require().NotNil(reversing.OriginalJournalID)
	s.Equal(journalID, *reversing.OriginalJournalID)

	s.Require().Len(reversingLines, 2)
	s.True(reversingLines[0].Credit.Equal(amount), "original debit side must become credit")
	s.True(reversingLines[1].Debit.Equal(amount), "original credit side must become debit")

	// Reversal undoes the balance effect of the original posting.
	s.True(changes[s.cashAccount.AccountID].Equal(amount.Neg()))
	s.True(changes[s.salesAccount.AccountID].Equal(amount.Neg()))
}

func (s *LedgerServiceTestSuite) TestReverseEntry_AlreadyReversedRejected() {
	journalID := uuid.NewString()
	original := &domain.Journal{JournalID: journalID, Status: domain.Reversed}
	s.mockJournalRepo.On("FindJournalByID", s.ctx, journalID).Return(original, nil).Once()

	_, err := s.service.ReverseEntry(s.ctx, journalID, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestReverseEntry_ReversalOfReversalRejected() {
	journalID := uuid.NewString()
	origID := uuid.NewString()
	original := &domain.Journal{JournalID: journalID, Status: domain.Posted, OriginalJournalID: &origID}
	s.mockJournalRepo.On("FindJournalByID", s.ctx, journalID).Return(original, nil).Once()

	_, err := s.service.ReverseEntry(s.ctx, journalID, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *LedgerServiceTestSuite) TestReverseEntry_NotFound() {
	journalID := uuid.NewString()
	s.mockJournalRepo.On("FindJournalByID", s.ctx, journalID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.ReverseEntry(s.ctx, journalID, uuid.NewString())

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
