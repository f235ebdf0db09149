package worker

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/gamify"
)

type fakeLoader struct {
	records []core.Expense
	err     error
}

func (f *fakeLoader) ListAll(ctx context.Context) ([]core.Expense, error) {
	return f.records, f.err
}

func testThresholds() gamify.Thresholds {
	return gamify.Thresholds{
		DailyBudget:       core.Money{Cents: 5000},
		WeeklySavingsGoal: core.Money{Cents: 5000},
		WeeklyFoodBudget:  core.Money{Cents: 7500},
	}
}

func TestHandleExpenseCreated(t *testing.T) {
	loader := &fakeLoader{records: []core.Expense{
		{ID: 1, Amount: core.Money{Cents: 2000}, Category: "Food", Date: "2025-03-12"},
	}}
	w := NewBadgeWorker(loader, testThresholds())
	w.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }

	msg := &amqp.ExpenseCreatedMessage{ID: 1, AmountCents: 2000, Category: "Food", Date: "2025-03-12"}
	if err := w.HandleExpenseCreated(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !w.last.FrugalFoodie {
		t.Errorf("expected frugal foodie after food spend under budget")
	}
	if w.last.Streak != 1 {
		t.Errorf("streak = %d, want 1", w.last.Streak)
	}
}

func TestHandleExpenseCreatedLoadFailure(t *testing.T) {
	loader := &fakeLoader{err: errors.New("db locked")}
	w := NewBadgeWorker(loader, testThresholds())

	msg := &amqp.ExpenseCreatedMessage{ID: 1}
	if err := w.HandleExpenseCreated(msg); err == nil {
		t.Fatalf("expected error to propagate for requeue")
	}
}

func TestNewlyEarned(t *testing.T) {
	tests := []struct {
		name string
		prev gamify.Badges
		cur  gamify.Badges
		want []string
	}{
		{
			name: "nothing earned",
			prev: gamify.Badges{},
			cur:  gamify.Badges{},
			want: nil,
		},
		{
			name: "all earned at once",
			prev: gamify.Badges{},
			cur:  gamify.Badges{SavedGoalMet: true, StreakBadge: true, FrugalFoodie: true},
			want: []string{"saved_goal_met", "streak_badge", "frugal_foodie"},
		},
		{
			name: "already earned stays quiet",
			prev: gamify.Badges{FrugalFoodie: true},
			cur:  gamify.Badges{FrugalFoodie: true},
			want: nil,
		},
		{
			name: "lost badge is not reported",
			prev: gamify.Badges{StreakBadge: true},
			cur:  gamify.Badges{FrugalFoodie: true},
			want: []string{"frugal_foodie"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newlyEarned(tt.prev, tt.cur)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("newlyEarned = %v, want %v", got, tt.want)
			}
		})
	}
}
