package domain

import (
	"time"
)

// AccountKind describes the nature of an account: which side of its
// balance is the "normal" one.
type AccountKind string

const (
	// KindActive accounts carry their balance on the debit side (assets).
	KindActive AccountKind = "A"
	// KindPassive accounts carry their balance on the credit side (liabilities).
	KindPassive AccountKind = "P"
	// KindActivePassive accounts may swing either way (clearing accounts).
	KindActivePassive AccountKind = "AP"
)

// Valid reports whether k is one of the known account kinds.
func (k AccountKind) Valid() bool {
	switch k {
	case KindActive, KindPassive, KindActivePassive:
		return true
	}
	return false
}

// Account is a node in the chart-of-accounts tree. Only leaf accounts
// (accounts with no children) may receive postings; non-leaf accounts are
// summary rows. Accounts are immutable once created.
type Account struct {
	CreatedAt       time.Time
	ParentAccountNo *string
	AccountNo       string
	AccountName     string
	Kind            AccountKind
	IsCurrency      bool
	IsQuantitative  bool
	IsBalance       bool
}
