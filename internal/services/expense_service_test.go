package services

import (
	"context"
	"errors"
	"testing"

	"tracker/internal/core"
)

type fakeStore struct {
	records   []core.Expense
	nextID    int64
	insertErr error
	listErr   error
}

func (f *fakeStore) Insert(_ context.Context, e core.Expense) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	e.ID = f.nextID
	f.records = append(f.records, e)
	return e.ID, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]core.Expense, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Expense, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

type fakePublisher struct {
	published []core.Expense
	err       error
}

func (f *fakePublisher) PublishExpenseCreated(_ context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, e)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func validExpense() core.Expense {
	return core.Expense{Amount: core.Money{Cents: 1500}, Category: "Food", Date: "2025-03-12"}
}

func TestCreateStoresAndPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	id, err := svc.Create(context.Background(), validExpense())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}
	if len(pub.published) != 1 || pub.published[0].ID != 1 {
		t.Fatalf("expected published event with id 1, got %+v", pub.published)
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)

	_, err := svc.Create(context.Background(), core.Expense{
		Amount: core.Money{Cents: 0}, Category: "Food", Date: "2025-03-12",
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateSurfacesStoreFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	svc := NewExpenseService(store, nil)

	if _, err := svc.Create(context.Background(), validExpense()); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestCreateSwallowsPublishFailure(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(store, pub)

	if _, err := svc.Create(context.Background(), validExpense()); err != nil {
		t.Fatalf("publish failure must not fail the insert: %v", err)
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)
	ch, cancel := svc.Subscribe()
	defer cancel()

	if _, err := svc.Create(context.Background(), validExpense()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case snapshot := <-ch:
		if len(snapshot) != 1 {
			t.Fatalf("expected snapshot with 1 record, got %d", len(snapshot))
		}
	default:
		t.Fatalf("expected a snapshot to be delivered")
	}
}

func TestSubscribeConflatesWhenSlow(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)
	ch, cancel := svc.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), validExpense()); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	// Only the latest snapshot is pending.
	snapshot := <-ch
	if len(snapshot) != 3 {
		t.Fatalf("expected latest snapshot with 3 records, got %d", len(snapshot))
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected no further pending snapshots, got one with %d records", len(extra))
	default:
	}
}

func TestCancelClosesSubscription(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)
	ch, cancel := svc.Subscribe()
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestCloseWithNilPublisher(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
