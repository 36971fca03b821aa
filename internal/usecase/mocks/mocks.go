package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/fundengine/internal/domain"
	"github.com/iho/fundengine/internal/usecase"
)

// ErrSerialization simulates a serialization failure that MockRetrier retries.
var ErrSerialization = errors.New("mock: could not serialize access")

// Store is the in-memory record set shared by the mock repositories. Writes
// made through a MockTransaction are staged and only become visible when the
// transaction commits, so a rolled back unit of work leaves the store as it was.
// Reads always see committed state.
type Store struct {
	mu          sync.RWMutex
	seq         int
	order       map[string]int
	funds       map[string]*domain.Fund
	commitments map[string]*domain.LPCommitment
	calls       map[string]*domain.CapitalCall
	dists       map[string]*domain.Distribution
	investments map[string]*domain.PortfolioInvestment
	metrics     []*domain.FundMetrics
	events      []*domain.OutboxEvent
}

func NewStore() *Store {
	return &Store{
		order:       make(map[string]int),
		funds:       make(map[string]*domain.Fund),
		commitments: make(map[string]*domain.LPCommitment),
		calls:       make(map[string]*domain.CapitalCall),
		dists:       make(map[string]*domain.Distribution),
		investments: make(map[string]*domain.PortfolioInvestment),
	}
}

// write stages apply on tx, or applies it immediately when tx is not a MockTransaction.
func (s *Store) write(tx usecase.Transaction, apply func()) {
	if mt, ok := tx.(*MockTransaction); ok && mt != nil {
		mt.stage(apply)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	apply()
}

// track must be called with mu held.
func (s *Store) track(id string) {
	if _, ok := s.order[id]; !ok {
		s.seq++
		s.order[id] = s.seq
	}
}

func (s *Store) PutFund(f *domain.Fund) {
	s.write(nil, func() { s.track(f.ID); s.funds[f.ID] = cloneFund(f) })
}

func (s *Store) PutCommitment(c *domain.LPCommitment) {
	s.write(nil, func() { s.track(c.ID); s.commitments[c.ID] = cloneCommitment(c) })
}

func (s *Store) PutCapitalCall(c *domain.CapitalCall) {
	s.write(nil, func() { s.track(c.ID); s.calls[c.ID] = c.Clone() })
}

func (s *Store) PutDistribution(d *domain.Distribution) {
	s.write(nil, func() { s.track(d.ID); s.dists[d.ID] = d.Clone() })
}

func (s *Store) PutInvestment(i *domain.PortfolioInvestment) {
	s.write(nil, func() { s.track(i.ID); s.investments[i.ID] = cloneInvestment(i) })
}

func (s *Store) Fund(id string) *domain.Fund {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.funds[id]; ok {
		return cloneFund(f)
	}
	return nil
}

func (s *Store) Commitment(id string) *domain.LPCommitment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.commitments[id]; ok {
		return cloneCommitment(c)
	}
	return nil
}

func (s *Store) CapitalCall(id string) *domain.CapitalCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.calls[id]; ok {
		return c.Clone()
	}
	return nil
}

func (s *Store) Distribution(id string) *domain.Distribution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.dists[id]; ok {
		return d.Clone()
	}
	return nil
}

func (s *Store) Investment(id string) *domain.PortfolioInvestment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.investments[id]; ok {
		return cloneInvestment(i)
	}
	return nil
}

// Events returns committed outbox events in insertion order.
func (s *Store) Events() []*domain.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), s.events...)
}

// MetricsSnapshots returns every saved metrics snapshot in insertion order.
func (s *Store) MetricsSnapshots() []*domain.FundMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*domain.FundMetrics(nil), s.metrics...)
}

func cloneFund(f *domain.Fund) *domain.Fund {
	cp := *f
	return &cp
}

func cloneCommitment(c *domain.LPCommitment) *domain.LPCommitment {
	cp := *c
	return &cp
}

func cloneInvestment(i *domain.PortfolioInvestment) *domain.PortfolioInvestment {
	cp := *i
	return &cp
}

// ordered returns the clones of the values matching keep, in insertion order.
func ordered[T any](s *Store, m map[string]T, id func(T) string, keep func(T) bool, clone func(T) T) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, v := range m {
		if keep(v) {
			out = append(out, clone(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[id(out[i])] < s.order[id(out[j])] })
	return out
}

// MockTransaction is a mock implementation of Transaction that stages writes until Commit.
type MockTransaction struct {
	mu         sync.Mutex
	store      *Store
	ops        []func()
	ReadOnly   bool
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) stage(op func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, op)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Committed || m.RolledBack {
		return errors.New("mock: transaction already closed")
	}
	if m.store != nil && len(m.ops) > 0 {
		m.store.mu.Lock()
		for _, op := range m.ops {
			op()
		}
		m.store.mu.Unlock()
	}
	m.ops = nil
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.mu.Lock()
	if m.Committed {
		m.mu.Unlock()
		return nil
	}
	m.ops = nil
	m.RolledBack = true
	m.mu.Unlock()
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu    sync.Mutex
	store *Store
	Txs   []*MockTransaction

	BeginFunc         func(ctx context.Context) (usecase.Transaction, error)
	BeginReadOnlyFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager(store *Store) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return m.begin(false), nil
}

func (m *MockTransactionManager) BeginReadOnly(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginReadOnlyFunc != nil {
		return m.BeginReadOnlyFunc(ctx)
	}
	return m.begin(true), nil
}

func (m *MockTransactionManager) begin(readOnly bool) *MockTransaction {
	tx := &MockTransaction{store: m.store, ReadOnly: readOnly}
	m.mu.Lock()
	m.Txs = append(m.Txs, tx)
	m.mu.Unlock()
	return tx
}

// MockFundRepository is a mock implementation of FundRepository.
type MockFundRepository struct {
	store *Store

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, fund *domain.Fund) error
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Fund, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, fund *domain.Fund) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Fund, error)
}

func NewMockFundRepository(store *Store) *MockFundRepository {
	return &MockFundRepository{store: store}
}

func (m *MockFundRepository) Create(ctx context.Context, tx usecase.Transaction, fund *domain.Fund) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, fund)
	}
	cp := cloneFund(fund)
	m.store.write(tx, func() { m.store.track(cp.ID); m.store.funds[cp.ID] = cp })
	return nil
}

func (m *MockFundRepository) GetByID(ctx context.Context, id string) (*domain.Fund, error) {
	if f := m.store.Fund(id); f != nil {
		return f, nil
	}
	return nil, domain.ErrFundNotFound
}

func (m *MockFundRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Fund, error) {
	return m.GetByID(ctx, id)
}

func (m *MockFundRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Fund, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockFundRepository) Update(ctx context.Context, tx usecase.Transaction, fund *domain.Fund) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, fund)
	}
	cp := cloneFund(fund)
	m.store.write(tx, func() { m.store.funds[cp.ID] = cp })
	return nil
}

func (m *MockFundRepository) List(ctx context.Context, limit, offset int) ([]*domain.Fund, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	all := ordered(m.store, m.store.funds,
		func(f *domain.Fund) string { return f.ID },
		func(*domain.Fund) bool { return true },
		cloneFund)
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

// MockCommitmentRepository is a mock implementation of CommitmentRepository.
type MockCommitmentRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, commitment *domain.LPCommitment) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, commitment *domain.LPCommitment) error
}

func NewMockCommitmentRepository(store *Store) *MockCommitmentRepository {
	return &MockCommitmentRepository{store: store}
}

func (m *MockCommitmentRepository) Create(ctx context.Context, tx usecase.Transaction, commitment *domain.LPCommitment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, commitment)
	}
	cp := cloneCommitment(commitment)
	m.store.write(tx, func() { m.store.track(cp.ID); m.store.commitments[cp.ID] = cp })
	return nil
}

func (m *MockCommitmentRepository) GetByID(ctx context.Context, id string) (*domain.LPCommitment, error) {
	if c := m.store.Commitment(id); c != nil {
		return c, nil
	}
	return nil, domain.ErrCommitmentNotFound
}

func (m *MockCommitmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LPCommitment, error) {
	return m.GetByID(ctx, id)
}

func (m *MockCommitmentRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.LPCommitment, error) {
	return ordered(m.store, m.store.commitments,
		func(c *domain.LPCommitment) string { return c.ID },
		func(c *domain.LPCommitment) bool { return c.FundID == fundID },
		cloneCommitment), nil
}

func (m *MockCommitmentRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.LPCommitment, error) {
	return m.ListByFund(ctx, fundID)
}

func (m *MockCommitmentRepository) ListByFundForUpdate(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.LPCommitment, error) {
	return m.ListByFund(ctx, fundID)
}

func (m *MockCommitmentRepository) Update(ctx context.Context, tx usecase.Transaction, commitment *domain.LPCommitment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, commitment)
	}
	cp := cloneCommitment(commitment)
	m.store.write(tx, func() { m.store.commitments[cp.ID] = cp })
	return nil
}

// MockCapitalCallRepository is a mock implementation of CapitalCallRepository.
type MockCapitalCallRepository struct {
	store *Store

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, call *domain.CapitalCall) error
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.CapitalCall, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, call *domain.CapitalCall) error
}

func NewMockCapitalCallRepository(store *Store) *MockCapitalCallRepository {
	return &MockCapitalCallRepository{store: store}
}

func (m *MockCapitalCallRepository) Create(ctx context.Context, tx usecase.Transaction, call *domain.CapitalCall) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, call)
	}
	cp := call.Clone()
	m.store.write(tx, func() { m.store.track(cp.ID); m.store.calls[cp.ID] = cp })
	return nil
}

func (m *MockCapitalCallRepository) GetByID(ctx context.Context, id string) (*domain.CapitalCall, error) {
	if c := m.store.CapitalCall(id); c != nil {
		return c, nil
	}
	return nil, domain.ErrCapitalCallNotFound
}

func (m *MockCapitalCallRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CapitalCall, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCapitalCallRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.CapitalCall, error) {
	return ordered(m.store, m.store.calls,
		func(c *domain.CapitalCall) string { return c.ID },
		func(c *domain.CapitalCall) bool { return c.FundID == fundID },
		(*domain.CapitalCall).Clone), nil
}

func (m *MockCapitalCallRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.CapitalCall, error) {
	return m.ListByFund(ctx, fundID)
}

func (m *MockCapitalCallRepository) ListPastDue(ctx context.Context, asOf time.Time) ([]*domain.CapitalCall, error) {
	return ordered(m.store, m.store.calls,
		func(c *domain.CapitalCall) string { return c.ID },
		func(c *domain.CapitalCall) bool {
			if c.DueDate.IsZero() || !c.DueDate.Before(asOf) {
				return false
			}
			return c.Status == domain.CallStatusIssued || c.Status == domain.CallStatusPartiallyFunded
		},
		(*domain.CapitalCall).Clone), nil
}

func (m *MockCapitalCallRepository) NextCallNumber(ctx context.Context, tx usecase.Transaction, fundID string) (int, error) {
	calls, _ := m.ListByFund(ctx, fundID)
	return len(calls) + 1, nil
}

func (m *MockCapitalCallRepository) Update(ctx context.Context, tx usecase.Transaction, call *domain.CapitalCall) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, call)
	}
	cp := call.Clone()
	m.store.write(tx, func() { m.store.calls[cp.ID] = cp })
	return nil
}

// MockDistributionRepository is a mock implementation of DistributionRepository.
type MockDistributionRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, dist *domain.Distribution) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, dist *domain.Distribution) error
}

func NewMockDistributionRepository(store *Store) *MockDistributionRepository {
	return &MockDistributionRepository{store: store}
}

func (m *MockDistributionRepository) Create(ctx context.Context, tx usecase.Transaction, dist *domain.Distribution) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, dist)
	}
	cp := dist.Clone()
	m.store.write(tx, func() { m.store.track(cp.ID); m.store.dists[cp.ID] = cp })
	return nil
}

func (m *MockDistributionRepository) GetByID(ctx context.Context, id string) (*domain.Distribution, error) {
	if d := m.store.Distribution(id); d != nil {
		return d, nil
	}
	return nil, domain.ErrDistributionNotFound
}

func (m *MockDistributionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Distribution, error) {
	return m.GetByID(ctx, id)
}

func (m *MockDistributionRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.Distribution, error) {
	return ordered(m.store, m.store.dists,
		func(d *domain.Distribution) string { return d.ID },
		func(d *domain.Distribution) bool { return d.FundID == fundID },
		(*domain.Distribution).Clone), nil
}

func (m *MockDistributionRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.Distribution, error) {
	return m.ListByFund(ctx, fundID)
}

func (m *MockDistributionRepository) NextDistributionNumber(ctx context.Context, tx usecase.Transaction, fundID string) (int, error) {
	dists, _ := m.ListByFund(ctx, fundID)
	return len(dists) + 1, nil
}

func (m *MockDistributionRepository) Update(ctx context.Context, tx usecase.Transaction, dist *domain.Distribution) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, dist)
	}
	cp := dist.Clone()
	m.store.write(tx, func() { m.store.dists[cp.ID] = cp })
	return nil
}

// MockInvestmentRepository is a mock implementation of InvestmentRepository.
type MockInvestmentRepository struct {
	store *Store
}

func NewMockInvestmentRepository(store *Store) *MockInvestmentRepository {
	return &MockInvestmentRepository{store: store}
}

func (m *MockInvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, inv *domain.PortfolioInvestment) error {
	cp := cloneInvestment(inv)
	m.store.write(tx, func() { m.store.track(cp.ID); m.store.investments[cp.ID] = cp })
	return nil
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id string) (*domain.PortfolioInvestment, error) {
	if i := m.store.Investment(id); i != nil {
		return i, nil
	}
	return nil, domain.ErrInvestmentNotFound
}

func (m *MockInvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PortfolioInvestment, error) {
	return m.GetByID(ctx, id)
}

func (m *MockInvestmentRepository) ListByFund(ctx context.Context, fundID string) ([]*domain.PortfolioInvestment, error) {
	return ordered(m.store, m.store.investments,
		func(i *domain.PortfolioInvestment) string { return i.ID },
		func(i *domain.PortfolioInvestment) bool { return i.FundID == fundID },
		cloneInvestment), nil
}

func (m *MockInvestmentRepository) ListByFundTx(ctx context.Context, tx usecase.Transaction, fundID string) ([]*domain.PortfolioInvestment, error) {
	return m.ListByFund(ctx, fundID)
}

func (m *MockInvestmentRepository) Update(ctx context.Context, tx usecase.Transaction, inv *domain.PortfolioInvestment) error {
	cp := cloneInvestment(inv)
	m.store.write(tx, func() { m.store.investments[cp.ID] = cp })
	return nil
}

// MockMetricsRepository is a mock implementation of MetricsRepository.
type MockMetricsRepository struct {
	store *Store

	SaveFunc func(ctx context.Context, tx usecase.Transaction, metrics *domain.FundMetrics) error
}

func NewMockMetricsRepository(store *Store) *MockMetricsRepository {
	return &MockMetricsRepository{store: store}
}

func (m *MockMetricsRepository) Save(ctx context.Context, tx usecase.Transaction, metrics *domain.FundMetrics) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, metrics)
	}
	cp := *metrics
	m.store.write(tx, func() { m.store.metrics = append(m.store.metrics, &cp) })
	return nil
}

func (m *MockMetricsRepository) GetLatest(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	snaps := m.store.MetricsSnapshots()
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i].FundID == fundID {
			cp := *snaps[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrFundNotFound
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *Store
}

func NewMockOutboxRepository(store *Store) *MockOutboxRepository {
	return &MockOutboxRepository{store: store}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	cp := *event
	m.store.write(tx, func() { m.store.events = append(m.store.events, &cp) })
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, e := range m.store.Events() {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.store.write(nil, func() {
		for _, e := range m.store.events {
			if e.ID == id {
				e.Published = true
				e.PublishedAt = &publishedAt
			}
		}
	})
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, e := range m.store.Events() {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.store.write(nil, func() {
		kept := m.store.events[:0]
		for _, e := range m.store.events {
			if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
				continue
			}
			kept = append(kept, e)
		}
		m.store.events = kept
	})
	return nil
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

// MockRetrier re-runs operations that fail with ErrSerialization.
type MockRetrier struct {
	MaxAttempts int
	Attempts    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	limit := m.MaxAttempts
	if limit <= 0 {
		limit = 3
	}
	var err error
	for i := 0; i < limit; i++ {
		m.Attempts++
		if err = operation(); err == nil || !errors.Is(err, ErrSerialization) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrentWriteRetry, err)
}

// Repositories wires every mock repository to one store.
func Repositories(store *Store) usecase.Repositories {
	return usecase.Repositories{
		Funds:         NewMockFundRepository(store),
		Commitments:   NewMockCommitmentRepository(store),
		CapitalCalls:  NewMockCapitalCallRepository(store),
		Distributions: NewMockDistributionRepository(store),
		Investments:   NewMockInvestmentRepository(store),
		Metrics:       NewMockMetricsRepository(store),
		Outbox:        NewMockOutboxRepository(store),
	}
}
