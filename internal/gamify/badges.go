package gamify

import (
	"strings"
	"time"

	"tracker/internal/core"
)

// Badges are the achievement flags shown on the gamification screen, derived
// from the current ISO week's records plus the streak. Recomputed on every
// evaluation, never persisted.
type Badges struct {
	Streak       int
	SavedGoalMet bool
	StreakBadge  bool
	FrugalFoodie bool
}

// foodCategory is matched case-insensitively for the Frugal Foodie badge,
// while category grouping elsewhere stays case-sensitive. The mismatch comes
// from the shipped app and is preserved on purpose.
const foodCategory = "Food"

// Evaluate computes the streak and the three badge predicates against the
// ISO week containing today. Records whose date does not parse fall outside
// the week scope; they never abort the evaluation.
func Evaluate(records []core.Expense, today time.Time, th Thresholds) Badges {
	year, week := today.ISOWeek()

	var weekSpend, weekFoodSpend int64
	for _, e := range records {
		d, err := core.ParseDate(e.Date)
		if err != nil {
			continue
		}
		y, w := d.ISOWeek()
		if y != year || w != week {
			continue
		}
		weekSpend += e.Amount.Cents
		if strings.EqualFold(e.Category, foodCategory) {
			weekFoodSpend += e.Amount.Cents
		}
	}

	streak := Streak(records, today, th.DailyBudget)
	weeklyBudget := th.DailyBudget.Cents * 7

	return Badges{
		Streak:       streak,
		SavedGoalMet: weeklyBudget-weekSpend >= th.WeeklySavingsGoal.Cents,
		StreakBadge:  streak >= 3,
		FrugalFoodie: weekFoodSpend > 0 && weekFoodSpend <= th.WeeklyFoodBudget.Cents,
	}
}
