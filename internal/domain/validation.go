package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountNo   = errors.New("invalid account number")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidAccountKind = errors.New("invalid account kind")
	ErrInvalidOperation   = errors.New("invalid operation name")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrAmountTooPrecise   = errors.New("amount has more than 4 decimal places")
)

// Validation constants
const (
	MaxAccountNoLength     = 50
	MaxAccountNameLength   = 100
	MaxOperationNameLength = 50
	MaxEntryAmount         = "1000000000000" // 1 trillion

	// AmountScale is the number of decimal places amounts are stored with.
	AmountScale = 4
)

// Account numbers are dotted segments of digits, e.g. "10", "10.1", "60.02".
var accountNoRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// ValidateAccountNo validates an account number.
func ValidateAccountNo(accountNo string) error {
	accountNo = strings.TrimSpace(accountNo)

	if accountNo == "" || len(accountNo) > MaxAccountNoLength {
		return ErrInvalidAccountNo
	}

	if !accountNoRegex.MatchString(accountNo) {
		return fmt.Errorf("%w: %q is not a dotted numeric code", ErrInvalidAccountNo, accountNo)
	}

	return nil
}

// ValidateAccountName validates an account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateOperationName validates an operation name.
func ValidateOperationName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" || len(name) > MaxOperationNameLength {
		return ErrInvalidOperation
	}

	return nil
}

// ValidateAmount validates a posting amount: positive, within range and
// representable in fixed point with AmountScale decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxEntryAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	if amount.Exponent() < -AmountScale {
		if !amount.Equal(amount.Truncate(AmountScale)) {
			return ErrAmountTooPrecise
		}
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
