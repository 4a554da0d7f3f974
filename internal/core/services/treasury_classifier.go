package services

import (
	"sort"
	"strings"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

// TreasuryClassifier decides which accounts qualify as treasury (cash box or
// bank) accounts. There is exactly one instance, injected wherever the rule is
// needed, so vouchers and cheques can never disagree about eligibility.
type TreasuryClassifier struct {
	codePrefixes []string
	nameKeywords []string
}

// NewTreasuryClassifier builds the classifier from configuration.
func NewTreasuryClassifier(cfg *config.Config) *TreasuryClassifier {
	keywords := make([]string, len(cfg.TreasuryNameKeywords))
	for i, kw := range cfg.TreasuryNameKeywords {
		keywords[i] = strings.ToLower(kw)
	}
	return &TreasuryClassifier{
		codePrefixes: append([]string(nil), cfg.TreasuryCodePrefixes...),
		nameKeywords: keywords,
	}
}

// IsTreasury reports whether a single account qualifies. Group accounts never
// qualify; they hold no balance.
func (c *TreasuryClassifier) IsTreasury(account domain.Account) bool {
	if account.IsGroup {
		return false
	}
	for _, prefix := range c.codePrefixes {
		if strings.HasPrefix(account.Code, prefix) {
			return true
		}
	}
	name := strings.ToLower(account.Name)
	for _, kw := range c.nameKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Classify selects the treasury-eligible accounts from the given set. Pure
// and order-independent: the result is sorted by account code, so identical
// input sets always yield identical output.
func (c *TreasuryClassifier) Classify(accounts []domain.Account) []domain.Account {
	selected := make([]domain.Account, 0)
	for _, account := range accounts {
		if c.IsTreasury(account) {
			selected = append(selected, account)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Code < selected[j].Code
	})
	return selected
}
