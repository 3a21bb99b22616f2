package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNo(ctx context.Context, accountNo string) (*domain.Account, error)
	// ResolveLeaf returns the account with the given number only when it has
	// no children; otherwise domain.ErrAccountNotPostable.
	ResolveLeaf(ctx context.Context, accountNo string) (*domain.Account, error)
	ResolveLeafTx(ctx context.Context, tx Transaction, accountNo string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListChildren(ctx context.Context, accountNo string) ([]*domain.Account, error)
}

// EntryRepository defines data access for posted entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// LatestEntryDt returns the timestamp of the most recent entry, or nil
	// when the ledger is empty.
	LatestEntryDt(ctx context.Context, tx Transaction) (*time.Time, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.Entry, error)
	// ListByAccountAsc returns every entry touching the account in entry_dt
	// order, for balance replay.
	ListByAccountAsc(ctx context.Context, accountNo string) ([]*domain.Entry, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Entry, error)
}

// BalanceRepository defines data access for daily balance rows.
type BalanceRepository interface {
	GetLatest(ctx context.Context, accountNo string) (*domain.AccountBalance, error)
	// GetLatestForUpdate locks the account's most recent balance row for the
	// duration of the transaction. Returns nil when no row exists.
	GetLatestForUpdate(ctx context.Context, tx Transaction, accountNo string) (*domain.AccountBalance, error)
	Upsert(ctx context.Context, tx Transaction, balance *domain.AccountBalance) error
	ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.AccountBalance, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.AccountBalance, error)
	// TurnoverTotals sums debit and credit turnovers across all accounts for
	// one date.
	TurnoverTotals(ctx context.Context, date time.Time) (dr, cr decimal.Decimal, err error)
}

// OperationRepository defines data access for the operations dictionary.
type OperationRepository interface {
	Create(ctx context.Context, operation *domain.Operation) error
	GetByID(ctx context.Context, id int64) (*domain.Operation, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Operation, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle. Posting is the only
// transactional write path and always runs SERIALIZABLE.
type TransactionManager interface {
	BeginSerializable(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures such as
// serialization conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
