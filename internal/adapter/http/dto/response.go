package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountNo       string    `json:"account_no"`
	AccountName     string    `json:"account_name"`
	Kind            string    `json:"kind"`
	ParentAccountNo *string   `json:"parent_account_no,omitempty"`
	IsCurrency      bool      `json:"is_currency"`
	IsQuantitative  bool      `json:"is_quantitative"`
	IsBalance       bool      `json:"is_balance"`
	CreatedAt       time.Time `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountNo:       a.AccountNo,
		AccountName:     a.AccountName,
		Kind:            string(a.Kind),
		ParentAccountNo: a.ParentAccountNo,
		IsCurrency:      a.IsCurrency,
		IsQuantitative:  a.IsQuantitative,
		IsBalance:       a.IsBalance,
		CreatedAt:       a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	EntryDt     time.Time       `json:"entry_dt"`
	OperationID int64           `json:"operation_id"`
	DrAccountNo string          `json:"dr_account_no"`
	CrAccountNo string          `json:"cr_account_no"`
	Amount      decimal.Decimal `json:"amount"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		EntryDt:     e.EntryDt,
		OperationID: e.OperationID,
		DrAccountNo: e.DrAccountNo,
		CrAccountNo: e.CrAccountNo,
		Amount:      e.Amount,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalanceResponse represents a daily balance row in API responses.
type BalanceResponse struct {
	AccountNo   string          `json:"account_no"`
	BalanceDate string          `json:"balance_date"`
	DrTurnover  decimal.Decimal `json:"dr_turnover"`
	CrTurnover  decimal.Decimal `json:"cr_turnover"`
	DrBalance   decimal.Decimal `json:"dr_balance"`
	CrBalance   decimal.Decimal `json:"cr_balance"`
}

// BalanceFromDomain converts a domain balance row to response.
func BalanceFromDomain(b *domain.AccountBalance) *BalanceResponse {
	return &BalanceResponse{
		AccountNo:   b.AccountNo,
		BalanceDate: b.BalanceDate.Format("2006-01-02"),
		DrTurnover:  b.DrTurnover,
		CrTurnover:  b.CrTurnover,
		DrBalance:   b.DrBalance,
		CrBalance:   b.CrBalance,
	}
}

// BalancesFromDomain converts domain balance rows to responses.
func BalancesFromDomain(balances []*domain.AccountBalance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// OperationResponse represents an operation in API responses.
type OperationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OperationFromDomain converts domain operation to response.
func OperationFromDomain(o *domain.Operation) *OperationResponse {
	return &OperationResponse{ID: o.ID, Name: o.Name}
}

// OperationsFromDomain converts domain operations to responses.
func OperationsFromDomain(operations []*domain.Operation) []*OperationResponse {
	result := make([]*OperationResponse, len(operations))
	for i, o := range operations {
		result[i] = OperationFromDomain(o)
	}
	return result
}

// TrialBalanceResponse represents a trial balance in API responses.
type TrialBalanceResponse struct {
	Date            string             `json:"date"`
	Rows            []*BalanceResponse `json:"rows"`
	TotalDrTurnover decimal.Decimal    `json:"total_dr_turnover"`
	TotalCrTurnover decimal.Decimal    `json:"total_cr_turnover"`
	Balanced        bool               `json:"balanced"`
}

// TrialBalanceFromUseCase converts a trial balance to response.
func TrialBalanceFromUseCase(tb *usecase.TrialBalance) *TrialBalanceResponse {
	return &TrialBalanceResponse{
		Date:            tb.Date.Format("2006-01-02"),
		Rows:            BalancesFromDomain(tb.Rows),
		TotalDrTurnover: tb.TotalDrTurnover,
		TotalCrTurnover: tb.TotalCrTurnover,
		Balanced:        tb.Balanced,
	}
}

// ReplayResponse represents a replay check in API responses.
type ReplayResponse struct {
	AccountNo  string           `json:"account_no"`
	EntryCount int              `json:"entry_count"`
	Matches    bool             `json:"matches"`
	Stored     *BalanceResponse `json:"stored,omitempty"`
	Replayed   *BalanceResponse `json:"replayed,omitempty"`
	CheckedAt  time.Time        `json:"checked_at"`
}

// ReplayFromUseCase converts a replay result to response.
func ReplayFromUseCase(r *usecase.ReplayResult) *ReplayResponse {
	resp := &ReplayResponse{
		AccountNo:  r.AccountNo,
		EntryCount: r.EntryCount,
		Matches:    r.Matches,
		CheckedAt:  r.CheckedAt,
	}
	if r.Stored != nil {
		resp.Stored = BalanceFromDomain(r.Stored)
	}
	if r.Replayed != nil {
		resp.Replayed = BalanceFromDomain(r.Replayed)
	}
	return resp
}

// ConsistencyResponse represents a double-entry consistency check.
type ConsistencyResponse struct {
	Date       string `json:"date"`
	Consistent bool   `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
