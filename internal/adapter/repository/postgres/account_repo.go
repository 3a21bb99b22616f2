package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

const accountColumns = `account_no, account_name, kind, parent_account_no,
	is_currency, is_quantitative, is_balance, created_at`

// AccountRepository implements usecase.AccountRepository on the
// chart_of_accounts table.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO chart_of_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		account.AccountNo,
		account.AccountName,
		string(account.Kind),
		account.ParentAccountNo,
		account.IsCurrency,
		account.IsQuantitative,
		account.IsBalance,
		account.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAccountExists
	}

	return err
}

// GetByNo retrieves an account by number, leaf or not.
func (r *AccountRepository) GetByNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts WHERE account_no = $1`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, accountNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// Leaf resolution: the account exists and no other account names it as a
// parent. Summary accounts fail the anti-join and are unpostable.
const resolveLeafQuery = `
	SELECT a.account_no, a.account_name, a.kind, a.parent_account_no,
	       a.is_currency, a.is_quantitative, a.is_balance, a.created_at
	FROM chart_of_accounts a
	WHERE a.account_no = $1
	  AND NOT EXISTS (
	      SELECT 1 FROM chart_of_accounts c WHERE c.parent_account_no = a.account_no
	  )
`

// ResolveLeaf resolves an account number to the postable leaf account.
func (r *AccountRepository) ResolveLeaf(ctx context.Context, accountNo string) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, resolveLeafQuery, accountNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotPostable
		}

		return nil, err
	}

	return account, nil
}

// ResolveLeafTx resolves a leaf account inside an open transaction.
func (r *AccountRepository) ResolveLeafTx(ctx context.Context, tx usecase.Transaction, accountNo string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	account, err := scanAccount(pgxTx.QueryRow(ctx, resolveLeafQuery, accountNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotPostable
		}

		return nil, err
	}

	return account, nil
}

// List lists accounts with pagination, ordered by account number.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM chart_of_accounts
		ORDER BY account_no
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListChildren lists the direct children of an account.
func (r *AccountRepository) ListChildren(ctx context.Context, accountNo string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM chart_of_accounts
		WHERE parent_account_no = $1
		ORDER BY account_no
	`

	rows, err := r.pool.Query(ctx, query, accountNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var kind string
	var parent pgtype.Text

	err := row.Scan(
		&account.AccountNo,
		&account.AccountName,
		&kind,
		&parent,
		&account.IsCurrency,
		&account.IsQuantitative,
		&account.IsBalance,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Kind = domain.AccountKind(kind)
	if parent.Valid {
		account.ParentAccountNo = &parent.String
	}

	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (error code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
