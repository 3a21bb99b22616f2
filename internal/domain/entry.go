package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one posted double-entry transaction. Entries are append-only:
// once recorded they are never updated or deleted, and their entry_dt values
// are strictly increasing across the whole ledger.
type Entry struct {
	EntryDt     time.Time
	ID          string
	DrAccountNo string
	CrAccountNo string
	Amount      decimal.Decimal
	OperationID int64
}

// PostEntryRequest is a typed posting request. EntryDt is optional; when nil
// the recorder stamps the entry with the current time in the ledger's time
// zone.
type PostEntryRequest struct {
	EntryDt     *time.Time
	DrAccountNo string
	CrAccountNo string
	Amount      decimal.Decimal
	OperationID int64
}

// Validate checks the request fields that need no storage access.
func (r *PostEntryRequest) Validate() error {
	if r.DrAccountNo == r.CrAccountNo {
		return ErrSameAccount
	}

	return ValidateAmount(r.Amount)
}
