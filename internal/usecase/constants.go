package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a posting transaction including its
	// serialization retries. A stuck posting must not block the ledger.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
