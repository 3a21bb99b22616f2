package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetByNoFunc       func(ctx context.Context, accountNo string) (*domain.Account, error)
	ResolveLeafFunc   func(ctx context.Context, accountNo string) (*domain.Account, error)
	ResolveLeafTxFunc func(ctx context.Context, tx usecase.Transaction, accountNo string) (*domain.Account, error)
	ListFunc          func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListChildrenFunc  func(ctx context.Context, accountNo string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.AccountNo]; ok {
		return domain.ErrAccountExists
	}
	m.accounts[account.AccountNo] = account
	return nil
}

func (m *MockAccountRepository) GetByNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	if m.GetByNoFunc != nil {
		return m.GetByNoFunc(ctx, accountNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[accountNo]; ok {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) ResolveLeaf(ctx context.Context, accountNo string) (*domain.Account, error) {
	if m.ResolveLeafFunc != nil {
		return m.ResolveLeafFunc(ctx, accountNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolveLeafLocked(accountNo)
}

func (m *MockAccountRepository) ResolveLeafTx(ctx context.Context, tx usecase.Transaction, accountNo string) (*domain.Account, error) {
	if m.ResolveLeafTxFunc != nil {
		return m.ResolveLeafTxFunc(ctx, tx, accountNo)
	}
	return m.ResolveLeaf(ctx, accountNo)
}

func (m *MockAccountRepository) resolveLeafLocked(accountNo string) (*domain.Account, error) {
	account, ok := m.accounts[accountNo]
	if !ok {
		return nil, domain.ErrAccountNotPostable
	}
	for _, other := range m.accounts {
		if other.ParentAccountNo != nil && *other.ParentAccountNo == accountNo {
			return nil, domain.ErrAccountNotPostable
		}
	}
	return account, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, account := range m.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountNo < accounts[j].AccountNo })
	return accounts, nil
}

func (m *MockAccountRepository) ListChildren(ctx context.Context, accountNo string) ([]*domain.Account, error) {
	if m.ListChildrenFunc != nil {
		return m.ListChildrenFunc(ctx, accountNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var children []*domain.Account
	for _, account := range m.accounts {
		if account.ParentAccountNo != nil && *account.ParentAccountNo == accountNo {
			children = append(children, account)
		}
	}
	return children, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	LatestEntryDtFunc    func(ctx context.Context, tx usecase.Transaction) (*time.Time, error)
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Entry, error)
	ListByAccountFunc    func(ctx context.Context, accountNo string, limit, offset int) ([]*domain.Entry, error)
	ListByAccountAscFunc func(ctx context.Context, accountNo string) ([]*domain.Entry, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) LatestEntryDt(ctx context.Context, tx usecase.Transaction) (*time.Time, error) {
	if m.LatestEntryDtFunc != nil {
		return m.LatestEntryDtFunc(ctx, tx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *time.Time
	for _, entry := range m.entries {
		if latest == nil || entry.EntryDt.After(*latest) {
			dt := entry.EntryDt
			latest = &dt
		}
	}
	return latest, nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountNo, limit, offset)
	}
	entries, _ := m.ListByAccountAsc(ctx, accountNo)
	return entries, nil
}

func (m *MockEntryRepository) ListByAccountAsc(ctx context.Context, accountNo string) ([]*domain.Entry, error) {
	if m.ListByAccountAscFunc != nil {
		return m.ListByAccountAscFunc(ctx, accountNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, entry := range m.entries {
		if entry.DrAccountNo == accountNo || entry.CrAccountNo == accountNo {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryDt.Before(entries[j].EntryDt) })
	return entries, nil
}

func (m *MockEntryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Entry(nil), m.entries...), nil
}

// Entries returns a copy of all recorded entries.
func (m *MockEntryRepository) Entries() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Entry(nil), m.entries...)
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
// Rows are stored per account per date, like the real table.
type MockBalanceRepository struct {
	mu   sync.RWMutex
	rows map[string]map[string]*domain.AccountBalance // account_no -> date -> row

	GetLatestFunc          func(ctx context.Context, accountNo string) (*domain.AccountBalance, error)
	GetLatestForUpdateFunc func(ctx context.Context, tx usecase.Transaction, accountNo string) (*domain.AccountBalance, error)
	UpsertFunc             func(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		rows: make(map[string]map[string]*domain.AccountBalance),
	}
}

func (m *MockBalanceRepository) GetLatest(ctx context.Context, accountNo string) (*domain.AccountBalance, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, accountNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestLocked(accountNo), nil
}

func (m *MockBalanceRepository) GetLatestForUpdate(ctx context.Context, tx usecase.Transaction, accountNo string) (*domain.AccountBalance, error) {
	if m.GetLatestForUpdateFunc != nil {
		return m.GetLatestForUpdateFunc(ctx, tx, accountNo)
	}
	return m.GetLatest(ctx, accountNo)
}

func (m *MockBalanceRepository) latestLocked(accountNo string) *domain.AccountBalance {
	var latest *domain.AccountBalance
	for _, row := range m.rows[accountNo] {
		if latest == nil || row.BalanceDate.After(latest.BalanceDate) {
			latest = row
		}
	}
	return latest
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.AccountBalance) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byDate, ok := m.rows[balance.AccountNo]
	if !ok {
		byDate = make(map[string]*domain.AccountBalance)
		m.rows[balance.AccountNo] = byDate
	}
	byDate[balance.BalanceDate.Format("2006-01-02")] = balance
	return nil
}

func (m *MockBalanceRepository) ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.AccountBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*domain.AccountBalance
	for _, row := range m.rows[accountNo] {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].BalanceDate.After(rows[j].BalanceDate) })
	return rows, nil
}

func (m *MockBalanceRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.AccountBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*domain.AccountBalance
	for _, byDate := range m.rows {
		if row, ok := byDate[date.Format("2006-01-02")]; ok {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountNo < rows[j].AccountNo })
	return rows, nil
}

func (m *MockBalanceRepository) TurnoverTotals(ctx context.Context, date time.Time) (decimal.Decimal, decimal.Decimal, error) {
	rows, _ := m.ListByDate(ctx, date)
	dr, cr := decimal.Zero, decimal.Zero
	for _, row := range rows {
		dr = dr.Add(row.DrTurnover)
		cr = cr.Add(row.CrTurnover)
	}
	return dr, cr, nil
}

// Row returns the stored row for an account and date, or nil.
func (m *MockBalanceRepository) Row(accountNo string, date time.Time) *domain.AccountBalance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rows[accountNo][date.Format("2006-01-02")]
}

// MockOperationRepository is a mock implementation of OperationRepository.
type MockOperationRepository struct {
	mu         sync.RWMutex
	nextID     int64
	operations map[int64]*domain.Operation

	CreateFunc  func(ctx context.Context, operation *domain.Operation) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Operation, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Operation, error)
}

func NewMockOperationRepository() *MockOperationRepository {
	return &MockOperationRepository{
		operations: make(map[int64]*domain.Operation),
	}
}

func (m *MockOperationRepository) Create(ctx context.Context, operation *domain.Operation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, operation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.operations {
		if existing.Name == operation.Name {
			return domain.ErrOperationExists
		}
	}
	m.nextID++
	operation.ID = m.nextID
	m.operations[operation.ID] = operation
	return nil
}

func (m *MockOperationRepository) GetByID(ctx context.Context, id int64) (*domain.Operation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if operation, ok := m.operations[id]; ok {
		return operation, nil
	}
	return nil, domain.ErrOperationNotFound
}

func (m *MockOperationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var operations []*domain.Operation
	for _, operation := range m.operations {
		operations = append(operations, operation)
	}
	sort.Slice(operations, func(i, j int) bool { return operations[i].ID < operations[j].ID })
	return operations, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, event := range m.events {
		if !event.Published {
			events = append(events, event)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, event := range m.events {
		if !event.Published || event.PublishedAt == nil || !event.PublishedAt.Before(before) {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a mock transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock transaction manager.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginSerializableFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) BeginSerializable(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginSerializableFunc != nil {
		return m.BeginSerializableFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Transactions returns every transaction handed out.
func (m *MockTransactionManager) Transactions() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.txs...)
}

// PassthroughRetrier runs the operation once without retrying.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockIDGenerator is a mock ID generator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + string(rune('0'+m.counter%10)) + "-" + time.Now().Format("150405.000000")
}

// ErrCacheMiss is returned by MockCache for unknown keys.
var ErrCacheMiss = errors.New("cache miss")

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (c *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if value, ok := c.values[key]; ok {
		return value, nil
	}
	return nil, ErrCacheMiss
}

func (c *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *MockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
