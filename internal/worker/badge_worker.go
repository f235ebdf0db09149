// Package worker reacts to expense-created events by re-evaluating badges and
// announcing newly earned ones.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/gamify"
	applog "tracker/internal/log"
)

// SnapshotLoader provides the full record list a badge evaluation needs.
type SnapshotLoader interface {
	ListAll(ctx context.Context) ([]core.Expense, error)
}

// BadgeWorker recomputes badges after every expense event. It keeps the last
// evaluation so it can log only the badges that flipped from unearned to
// earned.
type BadgeWorker struct {
	loader     SnapshotLoader
	thresholds gamify.Thresholds
	now        func() time.Time

	last gamify.Badges
}

func NewBadgeWorker(loader SnapshotLoader, thresholds gamify.Thresholds) *BadgeWorker {
	return &BadgeWorker{
		loader:     loader,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// HandleExpenseCreated reloads the snapshot and re-evaluates badges. Returning
// an error requeues the message, so only the snapshot load may fail; the
// evaluation itself is pure.
func (w *BadgeWorker) HandleExpenseCreated(msg *amqp.ExpenseCreatedMessage) error {
	ctx := context.Background()

	records, err := w.loader.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	badges := gamify.Evaluate(records, w.now(), w.thresholds)

	slog.InfoContext(ctx, "Badges evaluated",
		"expense_id", msg.ID,
		applog.FieldCategory, msg.Category,
		applog.FieldStreak, badges.Streak)

	for _, name := range newlyEarned(w.last, badges) {
		slog.InfoContext(ctx, "Badge earned", applog.FieldBadge, name)
	}
	w.last = badges

	return nil
}

func newlyEarned(prev, cur gamify.Badges) []string {
	var earned []string
	if cur.SavedGoalMet && !prev.SavedGoalMet {
		earned = append(earned, "saved_goal_met")
	}
	if cur.StreakBadge && !prev.StreakBadge {
		earned = append(earned, "streak_badge")
	}
	if cur.FrugalFoodie && !prev.FrugalFoodie {
		earned = append(earned, "frugal_foodie")
	}
	return earned
}
