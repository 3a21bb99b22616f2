package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	AccountNo       string  `json:"account_no"`
	AccountName     string  `json:"account_name"`
	Kind            string  `json:"kind"`
	ParentAccountNo *string `json:"parent_account_no,omitempty"`
	IsCurrency      bool    `json:"is_currency"`
	IsQuantitative  bool    `json:"is_quantitative"`
	// IsBalance defaults to true when omitted; balance accounts are the
	// common case in the chart.
	IsBalance *bool `json:"is_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	isBalance := true
	if r.IsBalance != nil {
		isBalance = *r.IsBalance
	}

	return usecase.CreateAccountInput{
		AccountNo:       r.AccountNo,
		AccountName:     r.AccountName,
		Kind:            domain.AccountKind(r.Kind),
		ParentAccountNo: r.ParentAccountNo,
		IsCurrency:      r.IsCurrency,
		IsQuantitative:  r.IsQuantitative,
		IsBalance:       isBalance,
	}
}

// PostEntryRequest represents a request to post a double-entry transaction.
type PostEntryRequest struct {
	OperationID int64           `json:"operation_id"`
	DrAccountNo string          `json:"dr_account_no"`
	CrAccountNo string          `json:"cr_account_no"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDt     *time.Time      `json:"entry_dt,omitempty"`
}

// ToDomain converts to the domain posting request.
func (r *PostEntryRequest) ToDomain() domain.PostEntryRequest {
	return domain.PostEntryRequest{
		OperationID: r.OperationID,
		DrAccountNo: r.DrAccountNo,
		CrAccountNo: r.CrAccountNo,
		Amount:      r.Amount,
		EntryDt:     r.EntryDt,
	}
}

// CreateOperationRequest represents a request to register an operation.
type CreateOperationRequest struct {
	Name string `json:"name"`
}
