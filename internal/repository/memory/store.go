// Package memory keeps customers, products and orders in process memory.
// Every operation is atomic, and Do serializes whole units of work.
package memory

import (
	"context"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"maps"
	"slices"
	"sync"
	"time"
)

type state struct {
	customers map[uuid.UUID]domain.Customer
	products  map[uuid.UUID]domain.Product
	orders    map[uuid.UUID]domain.Order
	orderIDs  []uuid.UUID // insertion order
}

func newState() *state {
	return &state{
		customers: make(map[uuid.UUID]domain.Customer),
		products:  make(map[uuid.UUID]domain.Product),
		orders:    make(map[uuid.UUID]domain.Order),
	}
}

// clone copies the maps; values are never mutated in place, so a shallow copy is enough.
func (s *state) clone() *state {
	return &state{
		customers: maps.Clone(s.customers),
		products:  maps.Clone(s.products),
		orders:    maps.Clone(s.orders),
		orderIDs:  slices.Clone(s.orderIDs),
	}
}

type Option func(*Store)

// WithSilentOrderCreate makes CreateOrder report success without storing anything.
func WithSilentOrderCreate() Option {
	return func(s *Store) {
		s.silentOrderCreate = true
	}
}

// WithDecrementError makes DecrementQuantities fail with err.
func WithDecrementError(err error) Option {
	return func(s *Store) {
		s.decrementErr = err
	}
}

// WithClock overrides time.Now for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

type Store struct {
	mu    sync.Mutex
	state *state

	now               func() time.Time
	silentOrderCreate bool
	decrementErr      error
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Repositories returns repositories whose every call is applied atomically to the live state.
func (s *Store) Repositories() port.Repositories {
	return s.repositories(liveExecutor{s: s})
}

// Do holds the store lock for the whole of fn and publishes its changes only when fn succeeds.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()

	if err := fn(ctx, s.repositories(txExecutor{st: next})); err != nil {
		return err
	}

	s.state = next
	return nil
}

func (s *Store) repositories(exec executor) port.Repositories {
	return port.Repositories{
		Customers: &customerRepository{exec: exec, now: s.now},
		Products:  &productRepository{exec: exec, now: s.now, decrementErr: s.decrementErr},
		Orders:    &orderRepository{exec: exec, now: s.now, silentCreate: s.silentOrderCreate},
	}
}

type executor interface {
	// read runs fn against the current state without changing it.
	read(fn func(st *state) error) error
	// write runs fn against a working copy that replaces the state when fn succeeds.
	write(fn func(st *state) error) error
}

type liveExecutor struct {
	s *Store
}

func (e liveExecutor) read(fn func(st *state) error) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	return fn(e.s.state)
}

func (e liveExecutor) write(fn func(st *state) error) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	next := e.s.state.clone()
	if err := fn(next); err != nil {
		return err
	}

	e.s.state = next
	return nil
}

// txExecutor works on the state owned by an open unit of work; the store lock is already held.
type txExecutor struct {
	st *state
}

func (e txExecutor) read(fn func(st *state) error) error {
	return fn(e.st)
}

func (e txExecutor) write(fn func(st *state) error) error {
	next := e.st.clone()
	if err := fn(next); err != nil {
		return err
	}

	*e.st = *next
	return nil
}
