package usecase

import (
	"context"
	"sync"

	"motoparts-backend/internal/domain"
)

type fakeAggregator struct {
	mu    sync.Mutex
	calls int
	last  domain.QuoteRequest
	quote func(ctx context.Context, req domain.QuoteRequest) ([]domain.CarrierQuote, error)
}

func (f *fakeAggregator) Quote(ctx context.Context, req domain.QuoteRequest) ([]domain.CarrierQuote, error) {
	f.mu.Lock()
	f.calls++
	f.last = req
	f.mu.Unlock()
	return f.quote(ctx, req)
}

func (f *fakeAggregator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRuleLister struct {
	calls int
	list  func(ctx context.Context) ([]domain.ShippingRule, error)
}

func (f *fakeRuleLister) ListRules(ctx context.Context) ([]domain.ShippingRule, error) {
	f.calls++
	return f.list(ctx)
}

type fakeStates map[string]string

func (f fakeStates) StateOf(postalCode string) (string, bool) {
	s, ok := f[postalCode]
	return s, ok
}

type fakeRuleRepo struct {
	list         func(ctx context.Context) ([]domain.ShippingRule, error)
	getByID      func(ctx context.Context, id string) (*domain.ShippingRule, error)
	getForUpdate func(ctx context.Context, id string) (*domain.ShippingRule, error)
	create       func(ctx context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error)
	update       func(ctx context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error)
	delete       func(ctx context.Context, id string) error
}

func (f *fakeRuleRepo) List(ctx context.Context) ([]domain.ShippingRule, error) {
	return f.list(ctx)
}

func (f *fakeRuleRepo) GetByID(ctx context.Context, id string) (*domain.ShippingRule, error) {
	return f.getByID(ctx, id)
}

func (f *fakeRuleRepo) GetForUpdate(ctx context.Context, id string) (*domain.ShippingRule, error) {
	return f.getForUpdate(ctx, id)
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error) {
	return f.create(ctx, rule)
}

func (f *fakeRuleRepo) Update(ctx context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error) {
	return f.update(ctx, rule)
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

// memRuleRepo is an in-memory repository for lifecycle tests.
type memRuleRepo struct {
	mu    sync.Mutex
	rules map[string]domain.ShippingRule
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: map[string]domain.ShippingRule{}}
}

func (m *memRuleRepo) List(context.Context) ([]domain.ShippingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ShippingRule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRuleRepo) GetByID(_ context.Context, id string) (*domain.ShippingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok {
		return nil, domain.ErrRuleNotFound
	}
	return &r, nil
}

func (m *memRuleRepo) GetForUpdate(ctx context.Context, id string) (*domain.ShippingRule, error) {
	return m.GetByID(ctx, id)
}

func (m *memRuleRepo) Create(_ context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = *rule
	r := *rule
	return &r, nil
}

func (m *memRuleRepo) Update(_ context.Context, rule *domain.ShippingRule) (*domain.ShippingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[rule.ID]; !ok {
		return nil, domain.ErrRuleNotFound
	}
	m.rules[rule.ID] = *rule
	r := *rule
	return &r, nil
}

func (m *memRuleRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(m.rules, id)
	return nil
}

type txKey struct{}

// fakeTx runs fn inline and marks the context so tests can assert the transactional path.
type fakeTx struct {
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}
