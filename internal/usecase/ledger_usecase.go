package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
)

// LedgerUseCase handles ledger-wide reports and consistency checks.
type LedgerUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	balanceRepo BalanceRepository
	loc         *time.Location
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	balanceRepo BalanceRepository,
	loc *time.Location,
) *LedgerUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &LedgerUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		loc:         loc,
	}
}

// TrialBalance holds every account's balance row for one date plus the
// ledger-wide turnover totals for that date.
type TrialBalance struct {
	Date            time.Time
	Rows            []*domain.AccountBalance
	TotalDrTurnover decimal.Decimal
	TotalCrTurnover decimal.Decimal
	Balanced        bool
}

// GetTrialBalance builds the trial balance for a date.
func (uc *LedgerUseCase) GetTrialBalance(ctx context.Context, date time.Time) (*TrialBalance, error) {
	date = domain.BalanceDateOf(date, uc.loc)

	rows, err := uc.balanceRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	dr, cr, err := uc.balanceRepo.TurnoverTotals(ctx, date)
	if err != nil {
		return nil, err
	}

	return &TrialBalance{
		Date:            date,
		Rows:            rows,
		TotalDrTurnover: dr,
		TotalCrTurnover: cr,
		Balanced:        dr.Equal(cr),
	}, nil
}

// CheckConsistency verifies the double-entry balance law for a date: the sum
// of debit turnovers across all accounts equals the sum of credit turnovers.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, date time.Time) (bool, error) {
	date = domain.BalanceDateOf(date, uc.loc)

	dr, cr, err := uc.balanceRepo.TurnoverTotals(ctx, date)
	if err != nil {
		return false, err
	}

	return dr.Equal(cr), nil
}

// ReplayResult compares an account's stored latest balance row with the row
// re-derived by replaying every entry from scratch.
type ReplayResult struct {
	CheckedAt  time.Time
	Stored     *domain.AccountBalance
	Replayed   *domain.AccountBalance
	AccountNo  string
	EntryCount int
	Matches    bool
}

// ReplayAccount re-derives an account's balance from its full entry history
// and checks it against the incrementally maintained snapshot.
func (uc *LedgerUseCase) ReplayAccount(ctx context.Context, accountNo string) (*ReplayResult, error) {
	account, err := uc.accountRepo.GetByNo(ctx, accountNo)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByAccountAsc(ctx, accountNo)
	if err != nil {
		return nil, err
	}

	var replayed *domain.AccountBalance
	for _, entry := range entries {
		side := domain.SideCr
		if entry.DrAccountNo == accountNo {
			side = domain.SideDr
		}

		date := domain.BalanceDateOf(entry.EntryDt, uc.loc)

		replayed, err = domain.NextBalance(account, replayed, date, entry.Amount, side)
		if err != nil {
			return nil, err
		}
	}

	stored, err := uc.balanceRepo.GetLatest(ctx, accountNo)
	if err != nil {
		return nil, err
	}

	return &ReplayResult{
		AccountNo:  accountNo,
		Stored:     stored,
		Replayed:   replayed,
		EntryCount: len(entries),
		Matches:    balancesEqual(stored, replayed),
		CheckedAt:  time.Now().UTC(),
	}, nil
}

func balancesEqual(a, b *domain.AccountBalance) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.AccountNo == b.AccountNo &&
		a.BalanceDate.Equal(b.BalanceDate) &&
		a.DrTurnover.Equal(b.DrTurnover) &&
		a.CrTurnover.Equal(b.CrTurnover) &&
		a.DrBalance.Equal(b.DrBalance) &&
		a.CrBalance.Equal(b.CrBalance)
}
