package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

const balanceColumns = `account_no, balance_date, dr_turnover, cr_turnover, dr_balance, cr_balance`

// BalanceRepository implements usecase.BalanceRepository on the per-day
// account_balances table.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// GetLatest returns the account's most recent balance row, or nil when the
// account has never been posted to.
func (r *BalanceRepository) GetLatest(ctx context.Context, accountNo string) (*domain.AccountBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM account_balances
		WHERE account_no = $1
		ORDER BY balance_date DESC
		LIMIT 1
	`

	balance, err := scanBalance(r.pool.QueryRow(ctx, query, accountNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return balance, nil
}

// GetLatestForUpdate reads the account's most recent balance row with a
// FOR UPDATE lock. Callers lock accounts in account-number order.
func (r *BalanceRepository) GetLatestForUpdate(ctx context.Context, tx usecase.Transaction, accountNo string) (*domain.AccountBalance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + balanceColumns + `
		FROM account_balances
		WHERE account_no = $1
		ORDER BY balance_date DESC
		LIMIT 1
		FOR UPDATE
	`

	balance, err := scanBalance(pgxTx.QueryRow(ctx, query, accountNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return balance, nil
}

// Upsert writes a balance row, replacing the row for the same account and
// date if one exists.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO account_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_no, balance_date) DO UPDATE SET
			dr_turnover = EXCLUDED.dr_turnover,
			cr_turnover = EXCLUDED.cr_turnover,
			dr_balance  = EXCLUDED.dr_balance,
			cr_balance  = EXCLUDED.cr_balance
	`

	_, err := pgxTx.Exec(ctx, query,
		balance.AccountNo,
		balance.BalanceDate,
		decimalToMinor(balance.DrTurnover),
		decimalToMinor(balance.CrTurnover),
		decimalToMinor(balance.DrBalance),
		decimalToMinor(balance.CrBalance),
	)

	return err
}

// ListByAccount lists an account's balance history, newest first.
func (r *BalanceRepository) ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.AccountBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM account_balances
		WHERE account_no = $1
		ORDER BY balance_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountNo, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBalances(rows)
}

// ListByDate lists every account's balance row for one date.
func (r *BalanceRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.AccountBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM account_balances
		WHERE balance_date = $1
		ORDER BY account_no
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBalances(rows)
}

// TurnoverTotals sums debit and credit turnovers across all accounts for one
// date. In a consistent ledger the two sums are equal.
func (r *BalanceRepository) TurnoverTotals(ctx context.Context, date time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(dr_turnover), 0)::BIGINT,
		       COALESCE(SUM(cr_turnover), 0)::BIGINT
		FROM account_balances
		WHERE balance_date = $1
	`

	var dr, cr int64
	if err := r.pool.QueryRow(ctx, query, date).Scan(&dr, &cr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return minorToDecimal(dr), minorToDecimal(cr), nil
}

func scanBalance(row pgx.Row) (*domain.AccountBalance, error) {
	var balance domain.AccountBalance
	var drTurnover, crTurnover, drBalance, crBalance int64

	err := row.Scan(
		&balance.AccountNo,
		&balance.BalanceDate,
		&drTurnover,
		&crTurnover,
		&drBalance,
		&crBalance,
	)
	if err != nil {
		return nil, err
	}

	balance.DrTurnover = minorToDecimal(drTurnover)
	balance.CrTurnover = minorToDecimal(crTurnover)
	balance.DrBalance = minorToDecimal(drBalance)
	balance.CrBalance = minorToDecimal(crBalance)

	return &balance, nil
}

func scanBalances(rows pgx.Rows) ([]*domain.AccountBalance, error) {
	var balances []*domain.AccountBalance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}
