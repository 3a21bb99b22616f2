package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

const entryColumns = `id, entry_dt, operation_id, dr_account_no, cr_account_no, amount`

// EntryRepository implements usecase.EntryRepository on the append-only
// entries table.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create records a new entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.EntryDt,
		entry.OperationID,
		entry.DrAccountNo,
		entry.CrAccountNo,
		decimalToMinor(entry.Amount),
	)

	return err
}

// LatestEntryDt returns the timestamp of the most recent entry, or nil when
// the ledger is empty. Read inside the posting transaction so the ordering
// check and the insert see the same ledger state.
func (r *EntryRepository) LatestEntryDt(ctx context.Context, tx usecase.Transaction) (*time.Time, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var latest pgtype.Timestamptz
	err := pgxTx.QueryRow(ctx, `SELECT MAX(entry_dt) FROM entries`).Scan(&latest)
	if err != nil {
		return nil, err
	}

	if !latest.Valid {
		return nil, nil
	}

	return &latest.Time, nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// ListByAccount lists entries touching an account on either side, newest
// first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE dr_account_no = $1 OR cr_account_no = $1
		ORDER BY entry_dt DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountNo, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByAccountAsc lists the full posting history of an account in posting
// order. Used by replay, which must walk entries oldest first.
func (r *EntryRepository) ListByAccountAsc(ctx context.Context, accountNo string) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE dr_account_no = $1 OR cr_account_no = $1
		ORDER BY entry_dt ASC
	`

	rows, err := r.pool.Query(ctx, query, accountNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// List lists entries with pagination, newest first.
func (r *EntryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		ORDER BY entry_dt DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var entry domain.Entry
	var amount int64

	err := row.Scan(
		&entry.ID,
		&entry.EntryDt,
		&entry.OperationID,
		&entry.DrAccountNo,
		&entry.CrAccountNo,
		&amount,
	)
	if err != nil {
		return nil, err
	}

	entry.Amount = minorToDecimal(amount)

	return &entry, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
