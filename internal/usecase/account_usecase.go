package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/infrastructure/metrics"
)

const accountCacheTTL = 10 * time.Minute

// AccountUseCase handles chart-of-accounts business logic. Accounts are
// read-mostly reference data, so resolved leaves are cached.
type AccountUseCase struct {
	accountRepo AccountRepository
	balanceRepo BalanceRepository
	cache       Cache
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. cache and metrics may be
// nil.
func NewAccountUseCase(accountRepo AccountRepository, balanceRepo BalanceRepository, cache Cache, metrics *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		cache:       cache,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating a chart-of-accounts node.
type CreateAccountInput struct {
	ParentAccountNo *string
	AccountNo       string
	AccountName     string
	Kind            domain.AccountKind
	IsCurrency      bool
	IsQuantitative  bool
	IsBalance       bool
}

// CreateAccount creates a new account. Creating a child under an existing
// account turns the parent into a summary account and makes it unpostable.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountNo(input.AccountNo); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountName(input.AccountName); err != nil {
		return nil, err
	}

	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidAccountKind
	}

	if input.ParentAccountNo != nil {
		parent, err := uc.accountRepo.GetByNo(ctx, *input.ParentAccountNo)
		if err != nil {
			return nil, err
		}

		// The parent stops being a leaf; drop any cached resolution.
		uc.invalidate(ctx, parent.AccountNo)
	}

	account := &domain.Account{
		AccountNo:       input.AccountNo,
		AccountName:     input.AccountName,
		Kind:            input.Kind,
		ParentAccountNo: input.ParentAccountNo,
		IsCurrency:      input.IsCurrency,
		IsQuantitative:  input.IsQuantitative,
		IsBalance:       input.IsBalance,
		CreatedAt:       time.Now().UTC(),
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by number, leaf or not.
func (uc *AccountUseCase) GetAccount(ctx context.Context, accountNo string) (*domain.Account, error) {
	return uc.accountRepo.GetByNo(ctx, accountNo)
}

// ResolveAccount resolves an account number to the unique postable leaf
// account, going through the cache first.
func (uc *AccountUseCase) ResolveAccount(ctx context.Context, accountNo string) (*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, leafCacheKey(accountNo)); err == nil {
			var account domain.Account
			if err := json.Unmarshal(data, &account); err == nil {
				return &account, nil
			}
		}
	}

	account, err := uc.accountRepo.ResolveLeaf(ctx, accountNo)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			_ = uc.cache.Set(ctx, leafCacheKey(accountNo), data, accountCacheTTL)
		}
	}

	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// ListChildren lists the direct children of an account.
func (uc *AccountUseCase) ListChildren(ctx context.Context, accountNo string) ([]*domain.Account, error) {
	if _, err := uc.accountRepo.GetByNo(ctx, accountNo); err != nil {
		return nil, err
	}
	return uc.accountRepo.ListChildren(ctx, accountNo)
}

// GetLatestBalance returns the account's most recent balance row, or nil
// when the account has never been posted to.
func (uc *AccountUseCase) GetLatestBalance(ctx context.Context, accountNo string) (*domain.AccountBalance, error) {
	if _, err := uc.accountRepo.GetByNo(ctx, accountNo); err != nil {
		return nil, err
	}
	return uc.balanceRepo.GetLatest(ctx, accountNo)
}

// ListBalancesInput represents input for listing an account's balance rows.
type ListBalancesInput struct {
	AccountNo string
	Limit     int
	Offset    int
}

// ListBalances lists an account's balance history, newest first.
func (uc *AccountUseCase) ListBalances(ctx context.Context, input ListBalancesInput) ([]*domain.AccountBalance, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.balanceRepo.ListByAccount(ctx, input.AccountNo, limit, offset)
}

func (uc *AccountUseCase) invalidate(ctx context.Context, accountNo string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, leafCacheKey(accountNo))
	}
}

func leafCacheKey(accountNo string) string {
	return "account:leaf:" + accountNo
}
