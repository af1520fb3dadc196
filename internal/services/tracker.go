// Package services wires application state, persistence and analytics
// together behind the Tracker.
package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/store"
)

// Tracker owns the in-memory State and keeps the key-value store in step
// with it. Every mutation runs a store reducer, writes the affected
// collection whole, and only then commits the new State, so a failed
// write leaves both sides unchanged.
type Tracker struct {
	repos  *storage.Repositories
	logger *log.Logger
	now    func() time.Time
	newID  func() string
	loc    *time.Location

	mu     sync.Mutex
	state  store.State
	gen    uint64 // bumped on every committed change
	loaded bool

	monthly *cache.LRU[core.MonthlyComparison]
	buckets *cache.LRU[[]core.BucketComparison]
}

const (
	viewCacheSize = 24
	viewCacheTTL  = 10 * time.Minute
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// WithLocation sets the time zone used for calendar math.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func NewTracker(repos *storage.Repositories, opts ...Option) *Tracker {
	t := &Tracker{
		repos:  repos,
		logger: log.New(log.DefaultConfig()),
		now:    time.Now,
		newID:  uuid.NewString,
		loc:    time.Local,

		monthly: cache.NewLRU[core.MonthlyComparison](viewCacheSize, viewCacheTTL),
		buckets: cache.NewLRU[[]core.BucketComparison](viewCacheSize, viewCacheTTL),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent(log.ComponentTracker)
	return t
}

// Now returns the current time in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Location returns the time zone used for calendar math.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Load reads the three collections concurrently and seeds the Cash payment
// method when none exists.
func (t *Tracker) Load(ctx context.Context) error {
	var (
		expenses   []core.Expense
		methods    []core.PaymentMethod
		categories []core.CustomCategory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = t.repos.Expenses.Load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		methods, err = t.repos.PaymentMethods.Load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = t.repos.CustomCategories.Load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := store.State{
		Expenses:         expenses,
		PaymentMethods:   methods,
		CustomCategories: categories,
		Filters:          t.state.Filters,
	}
	next, added := next.EnsureCashMethod(t.now())
	if added {
		if err := t.repos.PaymentMethods.ReplaceAll(ctx, next.PaymentMethods); err != nil {
			return fmt.Errorf("seed cash payment method: %w", err)
		}
		t.logger.InfoContext(ctx, "Seeded default Cash payment method")
	}

	t.setState(next)
	t.loaded = true
	t.logger.InfoContext(ctx, "Data loaded",
		"expenses", len(expenses),
		"payment_methods", len(next.PaymentMethods),
		"custom_categories", len(categories))
	return nil
}

// Loaded reports whether Load or ReplaceAll has completed.
func (t *Tracker) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded
}

// Snapshot returns a copy of the current State.
func (t *Tracker) Snapshot() store.State {
	s, _ := t.snapshot()
	return s
}

// snapshot returns a copy of the State with the generation it belongs to.
func (t *Tracker) snapshot() (store.State, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return store.State{
		Expenses:         slices.Clone(t.state.Expenses),
		PaymentMethods:   slices.Clone(t.state.PaymentMethods),
		CustomCategories: slices.Clone(t.state.CustomCategories),
		Filters:          t.state.Filters,
	}, t.gen
}

// setState installs next and drops memoized views. Callers hold t.mu.
func (t *Tracker) setState(next store.State) {
	t.state = next
	t.gen++
	t.monthly.Purge()
	t.buckets.Purge()
}

// commit replaces the State after persist succeeds. Callers hold t.mu.
func (t *Tracker) commit(ctx context.Context, next store.State, persist func(context.Context, store.State) error) error {
	if persist != nil {
		if err := persist(ctx, next); err != nil {
			return err
		}
	}
	t.setState(next)
	return nil
}

func (t *Tracker) persistExpenses(ctx context.Context, s store.State) error {
	if err := t.repos.Expenses.ReplaceAll(ctx, s.Expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

func (t *Tracker) persistPaymentMethods(ctx context.Context, s store.State) error {
	if err := t.repos.PaymentMethods.ReplaceAll(ctx, s.PaymentMethods); err != nil {
		return fmt.Errorf("save payment methods: %w", err)
	}
	return nil
}

func (t *Tracker) persistCustomCategories(ctx context.Context, s store.State) error {
	if err := t.repos.CustomCategories.ReplaceAll(ctx, s.CustomCategories); err != nil {
		return fmt.Errorf("save custom categories: %w", err)
	}
	return nil
}

// AllCategories returns the default categories followed by custom ones.
func (t *Tracker) AllCategories() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.AllCategories()
}

// PaymentMethodName resolves id, returning Unknown for deleted methods.
func (t *Tracker) PaymentMethodName(id string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.PaymentMethodName(id)
}
