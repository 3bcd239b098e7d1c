package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
)

// The mocks keep real state behind the repository interfaces so use case
// tests exercise full read-mutate-write cycles. Reads hand out copies; state
// only changes through Update, the way the SQL repositories behave.

// MockCashRepository is a mock implementation of CashRepository.
type MockCashRepository struct {
	mu      sync.RWMutex
	account *domain.CashAccount

	GetFunc          func(ctx context.Context) (*domain.CashAccount, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction) (*domain.CashAccount, error)
	UpdateFunc       func(ctx context.Context, tx usecase.Transaction, account *domain.CashAccount) error
	ResetFunc        func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockCashRepository() *MockCashRepository {
	return &MockCashRepository{}
}

// Seed replaces the stored account state.
func (m *MockCashRepository) Seed(account *domain.CashAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = account
}

func (m *MockCashRepository) Get(ctx context.Context) (*domain.CashAccount, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.account == nil {
		return domain.NewCashAccount(time.Now().UTC()), nil
	}
	cp := *m.account
	return &cp, nil
}

func (m *MockCashRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (*domain.CashAccount, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		m.account = domain.NewCashAccount(time.Now().UTC())
	}
	cp := *m.account
	return &cp, nil
}

func (m *MockCashRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.CashAccount) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.account = &cp
	return nil
}

func (m *MockCashRepository) Reset(ctx context.Context, tx usecase.Transaction) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = domain.NewCashAccount(time.Now().UTC())
	return nil
}

// MockAssetRepository is a mock implementation of AssetRepository.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.AssetLedger

	GetByIDFunc      func(ctx context.Context, assetID string) (*domain.AssetLedger, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, assetID string) (*domain.AssetLedger, error)
	UpdateFunc       func(ctx context.Context, tx usecase.Transaction, ledger *domain.AssetLedger) error
	ListFunc         func(ctx context.Context, limit, offset int) ([]*domain.AssetLedger, error)
	ResetFunc        func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{
		assets: make(map[string]*domain.AssetLedger),
	}
}

// Seed replaces the stored ledger for the asset.
func (m *MockAssetRepository) Seed(ledger *domain.AssetLedger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[ledger.AssetID] = ledger
}

func (m *MockAssetRepository) GetByID(ctx context.Context, assetID string) (*domain.AssetLedger, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, assetID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ledger, ok := m.assets[assetID]; ok {
		cp := *ledger
		return &cp, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, assetID string) (*domain.AssetLedger, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, assetID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[assetID]; !ok {
		m.assets[assetID] = domain.NewAssetLedger(assetID, time.Now().UTC())
	}
	cp := *m.assets[assetID]
	return &cp, nil
}

func (m *MockAssetRepository) Update(ctx context.Context, tx usecase.Transaction, ledger *domain.AssetLedger) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, ledger)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ledger
	m.assets[ledger.AssetID] = &cp
	return nil
}

func (m *MockAssetRepository) List(ctx context.Context, limit, offset int) ([]*domain.AssetLedger, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ledgers []*domain.AssetLedger
	for _, ledger := range m.assets {
		cp := *ledger
		ledgers = append(ledgers, &cp)
	}
	return ledgers, nil
}

func (m *MockAssetRepository) Reset(ctx context.Context, tx usecase.Transaction) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = make(map[string]*domain.AssetLedger)
	return nil
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.LedgerEvent
	order  []string

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, event *domain.LedgerEvent) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.LedgerEvent, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEvent, error)
	MarkReversedFunc     func(ctx context.Context, tx usecase.Transaction, event *domain.LedgerEvent) error
	ListFunc             func(ctx context.Context, kind domain.EventKind, limit, offset int) ([]*domain.LedgerEvent, error)
	DeleteAllFunc        func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		events: make(map[string]*domain.LedgerEvent),
	}
}

func (m *MockEventRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.LedgerEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events[event.ID] = &cp
	m.order = append(m.order, event.ID)
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEvent, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if event, ok := m.events[id]; ok {
		cp := *event
		return &cp, nil
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LedgerEvent, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEventRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, event *domain.LedgerEvent) error {
	if m.MarkReversedFunc != nil {
		return m.MarkReversedFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.events[event.ID]; ok {
		stored.Reversed = event.Reversed
		stored.ReversedAt = event.ReversedAt
		stored.ReversedBy = event.ReversedBy
		stored.ReversalReason = event.ReversalReason
	}
	return nil
}

func (m *MockEventRepository) List(ctx context.Context, kind domain.EventKind, limit, offset int) ([]*domain.LedgerEvent, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.LedgerEvent
	for _, id := range m.order {
		event := m.events[id]
		if kind != "" && event.Kind != kind {
			continue
		}
		cp := *event
		events = append(events, &cp)
	}
	return events, nil
}

func (m *MockEventRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string]*domain.LedgerEvent)
	m.order = nil
	return nil
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Invoice, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error
	ListFunc             func(ctx context.Context, kind domain.InvoiceKind, limit, offset int) ([]*domain.Invoice, error)
	DeleteAllFunc        func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		invoices: make(map[string]*domain.Invoice),
	}
}

func (m *MockInvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, invoice)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *invoice
	m.invoices[invoice.ID] = &cp
	return nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if invoice, ok := m.invoices[id]; ok {
		cp := *invoice
		return &cp, nil
	}
	return nil, domain.ErrInvoiceNotFound
}

func (m *MockInvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, invoice)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *invoice
	m.invoices[invoice.ID] = &cp
	return nil
}

func (m *MockInvoiceRepository) List(ctx context.Context, kind domain.InvoiceKind, limit, offset int) ([]*domain.Invoice, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var invoices []*domain.Invoice
	for _, invoice := range m.invoices {
		if kind != "" && invoice.Kind != kind {
			continue
		}
		cp := *invoice
		invoices = append(invoices, &cp)
	}
	return invoices, nil
}

func (m *MockInvoiceRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = make(map[string]*domain.Invoice)
	return nil
}

// MockDebtRepository is a mock implementation of DebtRepository.
type MockDebtRepository struct {
	mu    sync.RWMutex
	debts map[string]*domain.Debt

	CreateFunc           func(ctx context.Context, debt *domain.Debt) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Debt, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Debt, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Debt, error)
	DeleteAllFunc        func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockDebtRepository() *MockDebtRepository {
	return &MockDebtRepository{
		debts: make(map[string]*domain.Debt),
	}
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, debt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *debt
	m.debts[debt.ID] = &cp
	return nil
}

func (m *MockDebtRepository) GetByID(ctx context.Context, id string) (*domain.Debt, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if debt, ok := m.debts[id]; ok {
		cp := *debt
		return &cp, nil
	}
	return nil, domain.ErrDebtNotFound
}

func (m *MockDebtRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Debt, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDebtRepository) Update(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, debt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *debt
	m.debts[debt.ID] = &cp
	return nil
}

func (m *MockDebtRepository) List(ctx context.Context, limit, offset int) ([]*domain.Debt, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var debts []*domain.Debt
	for _, debt := range m.debts {
		cp := *debt
		debts = append(debts, &cp)
	}
	return debts, nil
}

func (m *MockDebtRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts = make(map[string]*domain.Debt)
	return nil
}

// MockInvestmentRepository is a mock implementation of InvestmentRepository.
type MockInvestmentRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.InvestmentProduct

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, product *domain.InvestmentProduct) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.InvestmentProduct, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.InvestmentProduct, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, product *domain.InvestmentProduct) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.InvestmentProduct, error)
	DeleteAllFunc        func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		products: make(map[string]*domain.InvestmentProduct),
	}
}

func (m *MockInvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, product *domain.InvestmentProduct) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id string) (*domain.InvestmentProduct, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if product, ok := m.products[id]; ok {
		cp := *product
		return &cp, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockInvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.InvestmentProduct, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockInvestmentRepository) Update(ctx context.Context, tx usecase.Transaction, product *domain.InvestmentProduct) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *MockInvestmentRepository) List(ctx context.Context, limit, offset int) ([]*domain.InvestmentProduct, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var products []*domain.InvestmentProduct
	for _, product := range m.products {
		cp := *product
		products = append(products, &cp)
	}
	return products, nil
}

func (m *MockInvestmentRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = make(map[string]*domain.InvestmentProduct)
	return nil
}

// MockCashAuditRepository is a mock implementation of CashAuditRepository.
type MockCashAuditRepository struct {
	mu     sync.RWMutex
	audits []*domain.CashAudit

	CreateFunc func(ctx context.Context, audit *domain.CashAudit) error
	ListFunc   func(ctx context.Context, limit, offset int) ([]*domain.CashAudit, error)
}

func NewMockCashAuditRepository() *MockCashAuditRepository {
	return &MockCashAuditRepository{}
}

func (m *MockCashAuditRepository) Create(ctx context.Context, audit *domain.CashAudit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, audit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *audit
	m.audits = append(m.audits, &cp)
	return nil
}

func (m *MockCashAuditRepository) List(ctx context.Context, limit, offset int) ([]*domain.CashAudit, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	audits := make([]*domain.CashAudit, 0, len(m.audits))
	for _, audit := range m.audits {
		cp := *audit
		audits = append(audits, &cp)
	}
	return audits, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With Serialize set, Begin blocks until the previous transaction commits
// or rolls back, emulating the row locks the SQL layer takes.
type MockTransactionManager struct {
	Serialize bool
	mu        sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	if m.Serialize {
		m.mu.Lock()
		tx.release = m.mu.Unlock
	}
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	release func()
	done    bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.finish()
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.finish()
	return nil
}

func (m *MockTransaction) finish() {
	if m.done {
		return
	}
	m.done = true
	if m.release != nil {
		m.release()
	}
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
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
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier runs the operation once, with no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
