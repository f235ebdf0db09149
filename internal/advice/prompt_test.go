package advice

import (
	"strings"
	"testing"
	"time"

	"tracker/internal/core"
)

var march = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

func TestBuildPromptSummarizesCurrentMonth(t *testing.T) {
	records := []core.Expense{
		{Amount: core.Money{Cents: 3000}, Category: "Food", Date: "2025-03-10"},
		{Amount: core.Money{Cents: 1500}, Category: "Food", Date: "2025-03-11"},
		{Amount: core.Money{Cents: 2000}, Category: "Transport", Date: "2025-03-05"},
		{Amount: core.Money{Cents: 99900}, Category: "Shopping", Date: "2025-02-28"}, // previous month
	}

	prompt := BuildPrompt(records, "Saving", march)

	if !strings.Contains(prompt, `"Saving"`) {
		t.Fatalf("prompt missing goal tag:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Food: RM45.00") {
		t.Fatalf("prompt missing food line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Transport: RM20.00") {
		t.Fatalf("prompt missing transport line:\n%s", prompt)
	}
	if strings.Contains(prompt, "Shopping") {
		t.Fatalf("previous month's spending leaked into the prompt:\n%s", prompt)
	}
}

func TestBuildPromptNoSpendingThisMonth(t *testing.T) {
	records := []core.Expense{
		{Amount: core.Money{Cents: 1000}, Category: "Food", Date: "2025-02-10"},
		{Amount: core.Money{Cents: 1000}, Category: "Food", Date: "bad-date"},
	}

	prompt := BuildPrompt(records, "General", march)
	if !strings.Contains(prompt, NoSpendingSummary) {
		t.Fatalf("expected the no-spending summary:\n%s", prompt)
	}
}

func TestBuildSummaryIsDeterministic(t *testing.T) {
	records := []core.Expense{
		{Amount: core.Money{Cents: 100}, Category: "Zoo", Date: "2025-03-01"},
		{Amount: core.Money{Cents: 100}, Category: "Apples", Date: "2025-03-01"},
		{Amount: core.Money{Cents: 100}, Category: "Mid", Date: "2025-03-01"},
	}
	want := "- Apples: RM1.00\n- Mid: RM1.00\n- Zoo: RM1.00"
	for i := 0; i < 5; i++ {
		if got := buildSummary(records); got != want {
			t.Fatalf("run %d: got\n%s\nwant\n%s", i, got, want)
		}
	}
}
