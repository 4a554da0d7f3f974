package dto

import (
	"time"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit/credit line of an incoming entry.
// Amounts are nonnegative; exactly one side of each line must be positive.
type CreateJournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description"`
	CostCenterID *string         `json:"costCenterID"`
}

// CreateJournalRequest is the payload for posting a journal entry.
type CreateJournalRequest struct {
	Date         time.Time                  `json:"date" binding:"required"`
	Reference    string                     `json:"reference" binding:"required"`
	Description  string                     `json:"description" binding:"required,min=3"`
	CurrencyCode string                     `json:"currencyCode"`
	ExchangeRate decimal.Decimal            `json:"exchangeRate"`
	Lines        []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse is the outward shape of a posted line.
type JournalLineResponse struct {
	LineID         string          `json:"lineID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Description    string          `json:"description,omitempty"`
	CostCenterID   *string         `json:"costCenterID,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// JournalResponse is the outward shape of a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	Date               time.Time             `json:"date"`
	Reference          string                `json:"reference"`
	Description        string                `json:"description"`
	CurrencyCode       string                `json:"currencyCode"`
	ExchangeRate       decimal.Decimal       `json:"exchangeRate"`
	Status             string                `json:"status"`
	Amount             decimal.Decimal       `json:"amount"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	Lines              []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// ListJournalsParams carries pagination options for journal listing.
type ListJournalsParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListJournalsResponse is a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain line to its DTO.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:         l.LineID,
		AccountID:      l.AccountID,
		Debit:          l.Debit,
		Credit:         l.Credit,
		Description:    l.Description,
		CostCenterID:   l.CostCenterID,
		RunningBalance: l.RunningBalance,
	}
}

// ToJournalResponse converts a domain journal to its DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		Date:               j.JournalDate,
		Reference:          j.Reference,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		ExchangeRate:       j.ExchangeRate,
		Status:             string(j.Status),
		Amount:             j.Amount,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i, l := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}
