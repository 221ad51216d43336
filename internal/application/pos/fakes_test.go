package pos

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

type fakeCatalog struct {
	items map[uuid.UUID]*entity.MenuItem
	err   error
}

func newFakeCatalog(items ...*entity.MenuItem) *fakeCatalog {
	c := &fakeCatalog{items: make(map[uuid.UUID]*entity.MenuItem)}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

func (c *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	if c.err != nil {
		return nil, c.err
	}
	it, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func menuItem(name, price string) *entity.MenuItem {
	return &entity.MenuItem{ID: uuid.New(), Name: name, Price: money(price), Active: true}
}

type fakeLedger struct {
	mu    sync.Mutex
	sales []*entity.Sale
	err   error
}

func (l *fakeLedger) AppendSale(_ context.Context, sale *entity.Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.sales = append(l.sales, sale)
	return nil
}

func (l *fakeLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sales)
}

// memTabs is an in-memory open tab store
type memTabs struct {
	mu       sync.Mutex
	tabs     map[uuid.UUID]*entity.OpenTab
	upserts  []entity.OpenTab
	gate     chan struct{} // when set, each Upsert waits for a value
	started  chan struct{} // when set, signalled as each Upsert begins
	closeErr error
}

func newMemTabs() *memTabs {
	return &memTabs{tabs: make(map[uuid.UUID]*entity.OpenTab)}
}

func (m *memTabs) List(_ context.Context) ([]entity.OpenTab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.OpenTab, 0, len(m.tabs))
	for _, t := range m.tabs {
		out = append(out, *t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memTabs) Get(_ context.Context, id uuid.UUID) (*entity.OpenTab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tabs[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

func (m *memTabs) Create(_ context.Context, tableLabel string, partySize *int) (*entity.OpenTab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	t := &entity.OpenTab{ID: uuid.New(), TableLabel: tableLabel, PartySize: partySize, CreatedAt: now, UpdatedAt: now}
	m.tabs[t.ID] = t
	return t.Clone(), nil
}

func (m *memTabs) Upsert(_ context.Context, tab *entity.OpenTab) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := tab.Clone()
	c.UpdatedAt = time.Now()
	m.tabs[c.ID] = c
	m.upserts = append(m.upserts, *c)
	return nil
}

func (m *memTabs) Close(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closeErr != nil {
		return m.closeErr
	}
	delete(m.tabs, id)
	return nil
}

func (m *memTabs) has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tabs[id]
	return ok
}

func (m *memTabs) upsertNotes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.upserts))
	for i, u := range m.upserts {
		out[i] = u.Notes
	}
	return out
}

func decimalInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
