package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/infrastructure/metrics"
)

// PostingUseCase is the entry recorder: it validates a posting request,
// resolves both accounts, computes the new balance rows and persists the
// entry plus both balance upserts as one atomic transaction.
type PostingUseCase struct {
	txManager     TransactionManager
	retrier       Retrier
	accountRepo   AccountRepository
	entryRepo     EntryRepository
	balanceRepo   BalanceRepository
	operationRepo OperationRepository
	outboxRepo    OutboxRepository
	idGen         IDGenerator
	metrics       *metrics.Metrics
	loc           *time.Location
}

// NewPostingUseCase creates a new PostingUseCase. loc is the ledger time
// zone used to stamp entries and derive balance dates; outboxRepo may be a
// null implementation when event publishing is disabled and metrics may be
// nil.
func NewPostingUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	balanceRepo BalanceRepository,
	operationRepo OperationRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	loc *time.Location,
) *PostingUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &PostingUseCase{
		txManager:     txManager,
		retrier:       retrier,
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		balanceRepo:   balanceRepo,
		operationRepo: operationRepo,
		outboxRepo:    outboxRepo,
		idGen:         idGen,
		metrics:       metrics,
		loc:           loc,
	}
}

// PostEntry records one double-entry transaction. Every precondition failure
// (unknown account, same account, out-of-order timestamp, sign violation) is
// detected before any write; on any error nothing is persisted.
func (uc *PostingUseCase) PostEntry(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
	start := time.Now()

	entry, err := uc.postEntry(ctx, req)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PostingErrors.WithLabelValues(postingErrorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
		uc.metrics.EntryAmount.Observe(entry.Amount.InexactFloat64())
	}

	return entry, nil
}

func (uc *PostingUseCase) postEntry(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.operationRepo.GetByID(ctx, req.OperationID); err != nil {
		return nil, err
	}

	entryDt := time.Now().In(uc.loc)
	if req.EntryDt != nil {
		entryDt = req.EntryDt.In(uc.loc)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var entry *domain.Entry
	attempts := 0

	err := uc.retrier.Retry(ctx, func() error {
		attempts++
		var err error
		entry, err = uc.postOnce(ctx, req, entryDt)
		return err
	})
	if uc.metrics != nil && attempts > 1 {
		uc.metrics.PostingRetries.Add(float64(attempts - 1))
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// postingErrorType buckets posting failures for the error counter.
func postingErrorType(err error) string {
	var outOfOrder *domain.OutOfOrderEntryError
	var signViolation *domain.SignViolationError

	switch {
	case errors.As(err, &outOfOrder):
		return "out_of_order"
	case errors.As(err, &signViolation):
		return "sign_violation"
	case errors.Is(err, domain.ErrAccountNotPostable),
		errors.Is(err, domain.ErrAccountNotFound):
		return "account"
	case errors.Is(err, domain.ErrOperationNotFound):
		return "operation"
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountTooPrecise):
		return "validation"
	default:
		return "internal"
	}
}

func (uc *PostingUseCase) postOnce(ctx context.Context, req domain.PostEntryRequest, entryDt time.Time) (*domain.Entry, error) {
	tx, err := uc.txManager.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Ordering invariant: the new entry must be strictly after every
	// recorded one.
	latest, err := uc.entryRepo.LatestEntryDt(ctx, tx)
	if err != nil {
		return nil, err
	}

	if latest != nil && !entryDt.After(*latest) {
		return nil, &domain.OutOfOrderEntryError{EntryDt: entryDt, LatestEntryDt: *latest}
	}

	drAccount, err := uc.accountRepo.ResolveLeafTx(ctx, tx, req.DrAccountNo)
	if err != nil {
		return nil, fmt.Errorf("debit account %s: %w", req.DrAccountNo, err)
	}

	crAccount, err := uc.accountRepo.ResolveLeafTx(ctx, tx, req.CrAccountNo)
	if err != nil {
		return nil, fmt.Errorf("credit account %s: %w", req.CrAccountNo, err)
	}

	if drAccount.AccountNo == crAccount.AccountNo {
		return nil, domain.ErrSameAccount
	}

	balanceDate := domain.BalanceDateOf(entryDt, uc.loc)

	// Lock balance rows in account-number order to avoid deadlocks between
	// concurrent postings touching the same pair.
	first, second := drAccount, crAccount
	if second.AccountNo < first.AccountNo {
		first, second = second, first
	}

	priors := make(map[string]*domain.AccountBalance, 2)
	for _, account := range []*domain.Account{first, second} {
		prior, err := uc.balanceRepo.GetLatestForUpdate(ctx, tx, account.AccountNo)
		if err != nil {
			return nil, err
		}
		priors[account.AccountNo] = prior
	}

	drRow, err := domain.NextBalance(drAccount, priors[drAccount.AccountNo], balanceDate, req.Amount, domain.SideDr)
	if err != nil {
		return nil, err
	}

	crRow, err := domain.NextBalance(crAccount, priors[crAccount.AccountNo], balanceDate, req.Amount, domain.SideCr)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		EntryDt:     entryDt,
		OperationID: req.OperationID,
		DrAccountNo: drAccount.AccountNo,
		CrAccountNo: crAccount.AccountNo,
		Amount:      req.Amount,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.balanceRepo.Upsert(ctx, tx, drRow); err != nil {
		return nil, err
	}

	if err := uc.balanceRepo.Upsert(ctx, tx, crRow); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   entry.ID,
			AggregateType: domain.AggregateTypeEntry,
			EventType:     domain.EventTypeEntryPosted,
			Payload: map[string]any{
				"entry_id":      entry.ID,
				"entry_dt":      entry.EntryDt.Format(time.RFC3339Nano),
				"operation_id":  entry.OperationID,
				"dr_account_no": entry.DrAccountNo,
				"cr_account_no": entry.CrAccountNo,
				"amount":        entry.Amount.String(),
			},
			CreatedAt: time.Now().UTC(),
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetEntry retrieves a posted entry by ID.
func (uc *PostingUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	AccountNo string
	Limit     int
	Offset    int
}

// ListEntries lists entries, optionally filtered by account.
func (uc *PostingUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.AccountNo != "" {
		return uc.entryRepo.ListByAccount(ctx, input.AccountNo, limit, offset)
	}

	return uc.entryRepo.List(ctx, limit, offset)
}
