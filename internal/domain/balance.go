package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is one of the two sides of a double-entry posting.
type Side int

const (
	SideDr Side = iota
	SideCr
)

func (s Side) String() string {
	if s == SideDr {
		return "Dr"
	}
	return "Cr"
}

// AccountBalance is the daily snapshot of one account: turnovers posted on
// BalanceDate and cumulative balances as of the end of that date. There is
// at most one row per (account, date); rows for earlier dates are immutable
// once a later row exists.
type AccountBalance struct {
	BalanceDate time.Time
	AccountNo   string
	DrTurnover  decimal.Decimal
	CrTurnover  decimal.Decimal
	DrBalance   decimal.Decimal
	CrBalance   decimal.Decimal
}

// Opening derives the opening balances of the row's date by reversing the
// day's turnovers out of the closing balances.
func (b *AccountBalance) Opening() (dr, cr decimal.Decimal) {
	dr = b.DrBalance.Sub(b.DrTurnover).Add(b.CrTurnover)
	cr = b.CrBalance.Sub(b.CrTurnover).Add(b.DrTurnover)
	return dr, cr
}

// NextBalance computes the balance row that results from posting amount on
// side to account on date, given the account's most recent stored row (prior
// may be nil when the account has never been posted to).
//
// It is a pure function: the caller persists the returned row. A
// SignViolationError is returned when the account's kind forbids the
// resulting balance.
func NextBalance(account *Account, prior *AccountBalance, date time.Time, amount decimal.Decimal, side Side) (*AccountBalance, error) {
	var openingDr, openingCr decimal.Decimal
	var drTurnover, crTurnover decimal.Decimal

	switch {
	case prior == nil:
		// First posting ever: opening balance is zero.
	case prior.BalanceDate.Before(date):
		// Fresh day: openings are re-derived from the prior row, turnovers
		// start from the posted amount only.
		openingDr, openingCr = prior.Opening()
	case prior.BalanceDate.Equal(date):
		// Same day: keep the day's opening and accumulated turnovers.
		openingDr, openingCr = prior.Opening()
		drTurnover = prior.DrTurnover
		crTurnover = prior.CrTurnover
	default:
		return nil, ErrBalanceDateConflict
	}

	if side == SideDr {
		drTurnover = drTurnover.Add(amount)
	} else {
		crTurnover = crTurnover.Add(amount)
	}

	next := &AccountBalance{
		AccountNo:   account.AccountNo,
		BalanceDate: date,
		DrTurnover:  drTurnover,
		CrTurnover:  crTurnover,
	}

	switch account.Kind {
	case KindActive:
		next.DrBalance = openingDr.Add(drTurnover).Sub(crTurnover)
		next.CrBalance = decimal.Zero
		if next.DrBalance.IsNegative() {
			return nil, &SignViolationError{
				AccountNo: account.AccountNo,
				Kind:      account.Kind,
				Side:      SideDr,
				Balance:   next.DrBalance,
			}
		}
	case KindPassive:
		next.CrBalance = openingCr.Add(crTurnover).Sub(drTurnover)
		next.DrBalance = decimal.Zero
		if next.CrBalance.IsNegative() {
			return nil, &SignViolationError{
				AccountNo: account.AccountNo,
				Kind:      account.Kind,
				Side:      SideCr,
				Balance:   next.CrBalance,
			}
		}
	case KindActivePassive:
		// Each side floors at zero independently. This mirrors how the
		// clearing accounts behaved in the legacy books.
		next.DrBalance = openingDr.Add(drTurnover).Sub(crTurnover)
		next.CrBalance = openingCr.Add(crTurnover).Sub(drTurnover)
		if next.DrBalance.IsNegative() {
			next.DrBalance = decimal.Zero
		}
		if next.CrBalance.IsNegative() {
			next.CrBalance = decimal.Zero
		}
	}

	return next, nil
}

// BalanceDateOf truncates an entry timestamp to its calendar date in loc.
// The returned time is midnight UTC of that date, the canonical form used
// for balance_date throughout the ledger.
func BalanceDateOf(entryDt time.Time, loc *time.Location) time.Time {
	y, m, d := entryDt.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
