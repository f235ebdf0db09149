// Package gamify evaluates the budget streak and achievement badges from an
// expense snapshot. Everything here is pure: callers pass the snapshot, the
// reference day, and the configured thresholds.
package gamify

import (
	"time"

	"tracker/internal/core"
)

// Thresholds holds the configured budget constants. All values are positive.
type Thresholds struct {
	DailyBudget       core.Money
	WeeklySavingsGoal core.Money
	WeeklyFoodBudget  core.Money
}

// Streak counts consecutive qualifying days walking backward from today.
// A day qualifies when its total is strictly above zero and at most the daily
// budget.
//
// The first day evaluated (today itself) is special: when it does not
// qualify it is skipped rather than terminating the scan. Any later
// non-qualifying day stops the scan. This matches the shipped app's behavior
// and is pinned by a test; do not "fix" it without updating the clients.
func Streak(records []core.Expense, today time.Time, dailyBudget core.Money) int {
	totals := core.ByDate(records)

	streak := 0
	day := today
	for i := 0; ; i++ {
		t := totals[day.Format(core.DateLayout)].Cents
		if t > 0 && t <= dailyBudget.Cents {
			streak++
		} else if i > 0 {
			break
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
