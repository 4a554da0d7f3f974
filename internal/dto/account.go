package dto

import (
	"time"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest adds an account to the chart of accounts.
type CreateAccountRequest struct {
	Code            string                `json:"code" binding:"required"`
	Name            string                `json:"name" binding:"required"`
	AccountType     domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType         domain.AccountSubType `json:"subType" binding:"omitempty,oneof=CURRENT NON_CURRENT"`
	IsGroup         bool                  `json:"isGroup"`
	ParentAccountID string                `json:"parentAccountID"`
}

// AccountResponse is the outward shape of an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	SubType         string          `json:"subType,omitempty"`
	IsGroup         bool            `json:"isGroup"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SetSystemAccountRequest binds an accounting role to an account.
type SetSystemAccountRequest struct {
	AccountID string `json:"accountID" binding:"required"`
}

// SystemAccountResponse reports the account currently fulfilling a role.
type SystemAccountResponse struct {
	Role    string          `json:"role"`
	Account AccountResponse `json:"account"`
}

// ToAccountResponse converts a domain account to its DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		SubType:         string(a.SubType),
		IsGroup:         a.IsGroup,
		ParentAccountID: a.ParentAccountID,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
