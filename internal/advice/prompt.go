package advice

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tracker/internal/core"
)

// NoSpendingSummary is the summary used when the current month has no records.
const NoSpendingSummary = "No expenses recorded yet for this month."

const promptTemplate = `You are a friendly financial advisor for a mobile expense tracker app.
My current financial goal is: %q.

Here is my spending summary for the current month:
%s

Based on this, provide a short (2-3 sentences), encouraging, and actionable piece of advice.
If there's no spending, just provide general encouragement.`

// monthlyRecords filters the snapshot to the calendar month containing now.
// Records with unparsable dates are skipped, not errors.
func monthlyRecords(records []core.Expense, now time.Time) []core.Expense {
	var out []core.Expense
	for _, e := range records {
		d, err := core.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Year() == now.Year() && d.Month() == now.Month() {
			out = append(out, e)
		}
	}
	return out
}

// buildSummary renders the month's category totals as prompt lines, sorted by
// category name so the prompt is stable for a given snapshot.
func buildSummary(records []core.Expense) string {
	if len(records) == 0 {
		return NoSpendingSummary
	}

	totals := core.ByCategory(records)
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("- %s: %s", name, totals[name].Display()))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt composes the advice prompt from the month's spending and the
// user's goal tag.
func BuildPrompt(records []core.Expense, goal string, now time.Time) string {
	return fmt.Sprintf(promptTemplate, goal, buildSummary(monthlyRecords(records, now)))
}
