// Package services orchestrates expense operations across storage, the event
// queue, and snapshot subscribers.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tracker/internal/core"
)

// Store is the durable record store port.
type Store interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
	ListAll(ctx context.Context) ([]core.Expense, error)
	Close() error
}

// EventPublisher announces stored expenses to interested consumers.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	Close() error
}

// ExpenseService owns the record list. Every write reloads the snapshot and
// broadcasts it to subscribers; consumers recompute their aggregates from the
// immutable snapshot, so no shared mutable state leaves this package.
type ExpenseService struct {
	store  Store
	events EventPublisher

	mu      sync.Mutex
	subs    map[int]chan []core.Expense
	nextSub int
}

func NewExpenseService(store Store, events EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:  store,
		events: events,
		subs:   make(map[int]chan []core.Expense),
	}
}

// Create validates and stores an expense, then notifies subscribers and
// publishes the created event. A store failure is returned to the caller; a
// publish failure is logged and swallowed since the record is already safe.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.notifySubscribers(ctx)

	if s.events != nil {
		if err := s.events.PublishExpenseCreated(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense created event",
				"id", id, "error", err)
		}
	}

	return id, nil
}

// Snapshot returns the current point-in-time copy of all records, ordered by
// date descending.
func (s *ExpenseService) Snapshot(ctx context.Context) ([]core.Expense, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return records, nil
}

// Subscribe registers a snapshot consumer. The channel receives a fresh
// snapshot after every successful write; a slow consumer misses intermediate
// snapshots rather than blocking the writer. The returned func cancels the
// subscription and closes the channel.
func (s *ExpenseService) Subscribe() (<-chan []core.Expense, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan []core.Expense, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *ExpenseService) notifySubscribers(ctx context.Context) {
	s.mu.Lock()
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load snapshot for subscribers", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		// Conflate: replace a pending snapshot instead of blocking.
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Close closes both storage and the event publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
