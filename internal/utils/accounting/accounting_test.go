package accounting_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/utils/accounting"
)

func debitLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{
		LineID:    uuid.NewString(),
		AccountID: accountID,
		Debit:     decimal.NewFromInt(amount),
		Credit:    decimal.Zero,
	}
}

func creditLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{
		LineID:    uuid.NewString(),
		AccountID: accountID,
		Debit:     decimal.Zero,
		Credit:    decimal.NewFromInt(amount),
	}
}

func TestSignedAmount(t *testing.T) {
	testCases := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    int64
	}{
		{"debit to asset increases", debitLine("a", 100), domain.Asset, 100},
		{"credit to asset decreases", creditLine("a", 100), domain.Asset, -100},
		{"debit to expense increases", debitLine("a", 100), domain.Expense, 100},
		{"debit to liability decreases", debitLine("a", 100), domain.Liability, -100},
		{"credit to liability increases", creditLine("a", 100), domain.Liability, 100},
		{"credit to revenue increases", creditLine("a", 100), domain.Revenue, 100},
		{"debit to equity decreases", debitLine("a", 100), domain.Equity, -100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := accounting.SignedAmount(tc.line, tc.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tc.expected)), "got %s", got)
		})
	}
}

func TestSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := accounting.SignedAmount(debitLine("a", 100), domain.AccountType("CONTRA"))

	assert.Error(t, err)
}

func TestTotals(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("a", 70),
		debitLine("b", 30),
		creditLine("c", 100),
	}

	debits, credits := accounting.Totals(lines)

	assert.True(t, debits.Equal(decimal.NewFromInt(100)))
	assert.True(t, credits.Equal(decimal.NewFromInt(100)))
}

func TestBalanceChanges_NetsPerAccount(t *testing.T) {
	cashID := uuid.NewString()
	salesID := uuid.NewString()
	lines := []domain.JournalLine{
		debitLine(cashID, 70),
		debitLine(cashID, 30),
		creditLine(salesID, 100),
	}
	types := map[string]domain.AccountType{
		cashID:  domain.Asset,
		salesID: domain.Revenue,
	}

	changes, err := accounting.BalanceChanges(lines, types)

	require.NoError(t, err)
	assert.True(t, changes[cashID].Equal(decimal.NewFromInt(100)))
	assert.True(t, changes[salesID].Equal(decimal.NewFromInt(100)))
}

func TestBalanceChanges_MissingAccountType(t *testing.T) {
	lines := []domain.JournalLine{debitLine(uuid.NewString(), 10)}

	_, err := accounting.BalanceChanges(lines, map[string]domain.AccountType{})

	assert.Error(t, err)
}
