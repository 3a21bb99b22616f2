package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountNotPostable = errors.New("account does not resolve to a postable leaf account")
	ErrAccountExists      = errors.New("account already exists")

	// Posting errors
	ErrSameAccount   = errors.New("debit and credit cannot use the same account")
	ErrInvalidAmount = errors.New("amount must be positive")

	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")

	// Operation errors
	ErrOperationNotFound = errors.New("operation not found")
	ErrOperationExists   = errors.New("operation already exists")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")

	// ErrBalanceDateConflict is returned when a stored balance row is dated
	// after the posting date. The global entry ordering check makes this
	// unreachable in a consistent ledger.
	ErrBalanceDateConflict = errors.New("balance row exists for a later date")
)

// OutOfOrderEntryError is returned when an entry timestamp is not strictly
// after the latest recorded entry. It carries the conflicting timestamp so
// the caller can retry with a corrected time.
type OutOfOrderEntryError struct {
	EntryDt       time.Time
	LatestEntryDt time.Time
}

func (e *OutOfOrderEntryError) Error() string {
	return fmt.Sprintf("entry timestamp %s is not after the latest entry %s",
		e.EntryDt.Format(time.RFC3339), e.LatestEntryDt.Format(time.RFC3339))
}

// SignViolationError is returned when a posting would drive an Active
// account's balance negative or a Passive account's balance positive.
// Balance holds the would-be binding-side balance.
type SignViolationError struct {
	AccountNo string
	Kind      AccountKind
	Side      Side
	Balance   decimal.Decimal
}

func (e *SignViolationError) Error() string {
	return fmt.Sprintf("account %s (kind %s) would end with %s balance %s",
		e.AccountNo, e.Kind, e.Side, e.Balance)
}
