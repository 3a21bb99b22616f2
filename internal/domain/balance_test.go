package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNextBalance_FirstPosting(t *testing.T) {
	account := &domain.Account{AccountNo: "10.1", Kind: domain.KindActive}

	row, err := domain.NextBalance(account, nil, date(2023, 5, 1), dec("1500.00"), domain.SideDr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !row.DrTurnover.Equal(dec("1500.00")) {
		t.Errorf("expected dr_turnover 1500.00, got %s", row.DrTurnover)
	}
	if !row.CrTurnover.IsZero() {
		t.Errorf("expected zero cr_turnover, got %s", row.CrTurnover)
	}
	if !row.DrBalance.Equal(dec("1500.00")) {
		t.Errorf("expected dr_balance 1500.00, got %s", row.DrBalance)
	}
	if !row.CrBalance.IsZero() {
		t.Errorf("expected zero cr_balance, got %s", row.CrBalance)
	}
}

func TestNextBalance_FirstPosting_PassiveCredit(t *testing.T) {
	account := &domain.Account{AccountNo: "60", Kind: domain.KindPassive}

	row, err := domain.NextBalance(account, nil, date(2023, 5, 1), dec("1500.00"), domain.SideCr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !row.CrTurnover.Equal(dec("1500.00")) {
		t.Errorf("expected cr_turnover 1500.00, got %s", row.CrTurnover)
	}
	if !row.CrBalance.Equal(dec("1500.00")) {
		t.Errorf("expected cr_balance 1500.00, got %s", row.CrBalance)
	}
	if !row.DrBalance.IsZero() {
		t.Errorf("expected zero dr_balance, got %s", row.DrBalance)
	}
}

func TestNextBalance_SameDayAccumulates(t *testing.T) {
	account := &domain.Account{AccountNo: "51", Kind: domain.KindActive}
	day := date(2023, 5, 2)

	first, err := domain.NextBalance(account, nil, day, dec("3000.00"), domain.SideDr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := domain.NextBalance(account, first, day, dec("1200.00"), domain.SideDr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.DrTurnover.Equal(dec("4200.00")) {
		t.Errorf("expected dr_turnover 4200.00, got %s", second.DrTurnover)
	}
	if !second.DrBalance.Equal(dec("4200.00")) {
		t.Errorf("expected dr_balance 4200.00, got %s", second.DrBalance)
	}
	if !second.BalanceDate.Equal(day) {
		t.Errorf("expected balance_date %s, got %s", day, second.BalanceDate)
	}
}

func TestNextBalance_SameDayOtherSideCarriedOver(t *testing.T) {
	account := &domain.Account{AccountNo: "71", Kind: domain.KindActive}
	day := date(2023, 5, 2)

	prior := &domain.AccountBalance{
		AccountNo:   "71",
		BalanceDate: day,
		DrTurnover:  dec("500"),
		CrTurnover:  dec("100"),
		DrBalance:   dec("400"),
	}

	row, err := domain.NextBalance(account, prior, day, dec("50"), domain.SideCr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !row.DrTurnover.Equal(dec("500")) {
		t.Errorf("expected dr_turnover carried over as 500, got %s", row.DrTurnover)
	}
	if !row.CrTurnover.Equal(dec("150")) {
		t.Errorf("expected cr_turnover 150, got %s", row.CrTurnover)
	}
	if !row.DrBalance.Equal(dec("350")) {
		t.Errorf("expected dr_balance 350, got %s", row.DrBalance)
	}
}

func TestNextBalance_FreshDaySeedsTurnover(t *testing.T) {
	account := &domain.Account{AccountNo: "51", Kind: domain.KindActive}

	prior := &domain.AccountBalance{
		AccountNo:   "51",
		BalanceDate: date(2023, 5, 1),
		DrTurnover:  dec("3000"),
		CrTurnover:  dec("1000"),
		DrBalance:   dec("2000"),
	}

	row, err := domain.NextBalance(account, prior, date(2023, 5, 2), dec("700"), domain.SideDr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !row.DrTurnover.Equal(dec("700")) {
		t.Errorf("expected fresh-day dr_turnover 700, got %s", row.DrTurnover)
	}
	if !row.CrTurnover.IsZero() {
		t.Errorf("expected fresh-day cr_turnover 0, got %s", row.CrTurnover)
	}

	// Opening is re-derived by reversing the prior turnovers out of the
	// prior balances: 2000 - 3000 + 1000 = 0.
	if !row.DrBalance.Equal(dec("700")) {
		t.Errorf("expected dr_balance 700, got %s", row.DrBalance)
	}
}

func TestNextBalance_ActiveSignViolation(t *testing.T) {
	account := &domain.Account{AccountNo: "50", Kind: domain.KindActive}
	day := date(2023, 5, 3)

	prior, err := domain.NextBalance(account, nil, day, dec("100"), domain.SideDr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = domain.NextBalance(account, prior, day, dec("250"), domain.SideCr)

	var sv *domain.SignViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected SignViolationError, got %v", err)
	}
	if sv.AccountNo != "50" {
		t.Errorf("expected account 50 in violation, got %s", sv.AccountNo)
	}
	if !sv.Balance.Equal(dec("-150")) {
		t.Errorf("expected would-be balance -150, got %s", sv.Balance)
	}
}

func TestNextBalance_PassiveSignViolation(t *testing.T) {
	account := &domain.Account{AccountNo: "60", Kind: domain.KindPassive}

	_, err := domain.NextBalance(account, nil, date(2023, 5, 3), dec("10"), domain.SideDr)

	var sv *domain.SignViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("expected SignViolationError, got %v", err)
	}
	if sv.Side != domain.SideCr {
		t.Errorf("expected credit side violation, got %s", sv.Side)
	}
}

func TestNextBalance_ActivePassiveClampsEachSide(t *testing.T) {
	account := &domain.Account{AccountNo: "76", Kind: domain.KindActivePassive}
	day := date(2023, 5, 4)

	tests := []struct {
		name   string
		amount string
		side   domain.Side
		wantDr string
		wantCr string
	}{
		{"debit swings asset side", "300", domain.SideDr, "300", "0"},
		{"credit swings liability side", "300", domain.SideCr, "0", "300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := domain.NextBalance(account, nil, day, dec(tt.amount), tt.side)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !row.DrBalance.Equal(dec(tt.wantDr)) {
				t.Errorf("expected dr_balance %s, got %s", tt.wantDr, row.DrBalance)
			}
			if !row.CrBalance.Equal(dec(tt.wantCr)) {
				t.Errorf("expected cr_balance %s, got %s", tt.wantCr, row.CrBalance)
			}
		})
	}
}

func TestNextBalance_ActivePassiveNetsSameDay(t *testing.T) {
	account := &domain.Account{AccountNo: "76", Kind: domain.KindActivePassive}
	day := date(2023, 5, 4)

	first, err := domain.NextBalance(account, nil, day, dec("300"), domain.SideDr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := domain.NextBalance(account, first, day, dec("500"), domain.SideCr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.DrBalance.IsZero() {
		t.Errorf("expected dr side floored at zero, got %s", second.DrBalance)
	}
	if !second.CrBalance.Equal(dec("200")) {
		t.Errorf("expected cr_balance 200, got %s", second.CrBalance)
	}
}

func TestNextBalance_PriorRowAfterPostingDate(t *testing.T) {
	account := &domain.Account{AccountNo: "51", Kind: domain.KindActive}

	prior := &domain.AccountBalance{
		AccountNo:   "51",
		BalanceDate: date(2023, 5, 10),
		DrTurnover:  dec("100"),
		DrBalance:   dec("100"),
	}

	_, err := domain.NextBalance(account, prior, date(2023, 5, 9), dec("10"), domain.SideDr)
	if !errors.Is(err, domain.ErrBalanceDateConflict) {
		t.Fatalf("expected ErrBalanceDateConflict, got %v", err)
	}
}

func TestBalanceDateOf(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 23:30 UTC is already the next day in Kyiv.
	entryDt := time.Date(2023, 5, 1, 23, 30, 0, 0, time.UTC)

	got := domain.BalanceDateOf(entryDt, loc)
	want := date(2023, 5, 2)
	if !got.Equal(want) {
		t.Errorf("expected balance date %s, got %s", want, got)
	}
}
