package core

import (
	"math/rand"
	"testing"
)

func sampleRecords() []Expense {
	return []Expense{
		{Amount: Money{Cents: 3000}, Category: "Food", Date: "2025-03-10"},
		{Amount: Money{Cents: 2000}, Category: "Transport", Date: "2025-03-10"},
		{Amount: Money{Cents: 1500}, Category: "Food", Date: "2025-03-11"},
		{Amount: Money{Cents: 500}, Category: "Other", Date: "2025-03-12"},
	}
}

func TestTotalEmpty(t *testing.T) {
	if got := Total(nil); got.Cents != 0 {
		t.Fatalf("Total(nil) = %d, want 0", got.Cents)
	}
	if got := Total([]Expense{}); got.Cents != 0 {
		t.Fatalf("Total(empty) = %d, want 0", got.Cents)
	}
}

func TestTotalOrderIndependent(t *testing.T) {
	records := sampleRecords()
	want := Total(records).Cents

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(records), func(a, b int) {
			records[a], records[b] = records[b], records[a]
		})
		if got := Total(records).Cents; got != want {
			t.Fatalf("shuffle %d: Total = %d, want %d", i, got, want)
		}
	}
}

func TestGroupSumsMatchTotal(t *testing.T) {
	records := sampleRecords()
	total := Total(records).Cents

	var byCat int64
	for _, m := range ByCategory(records) {
		byCat += m.Cents
	}
	if byCat != total {
		t.Fatalf("sum of ByCategory = %d, want %d", byCat, total)
	}

	var byDate int64
	for _, m := range ByDate(records) {
		byDate += m.Cents
	}
	if byDate != total {
		t.Fatalf("sum of ByDate = %d, want %d", byDate, total)
	}
}

func TestByCategory(t *testing.T) {
	totals := ByCategory(sampleRecords())
	if len(totals) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(totals))
	}
	if totals["Food"].Cents != 4500 {
		t.Fatalf("Food = %d, want 4500", totals["Food"].Cents)
	}
	if totals["Transport"].Cents != 2000 {
		t.Fatalf("Transport = %d, want 2000", totals["Transport"].Cents)
	}
}

func TestByCategoryCaseSensitive(t *testing.T) {
	records := []Expense{
		{Amount: Money{Cents: 100}, Category: "Food", Date: "2025-03-10"},
		{Amount: Money{Cents: 200}, Category: "food", Date: "2025-03-10"},
	}
	totals := ByCategory(records)
	if len(totals) != 2 {
		t.Fatalf("expected distinct keys for Food and food, got %d keys", len(totals))
	}
	if totals["Food"].Cents != 100 || totals["food"].Cents != 200 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}

func TestByDate(t *testing.T) {
	totals := ByDate(sampleRecords())
	if len(totals) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(totals))
	}
	if totals["2025-03-10"].Cents != 5000 {
		t.Fatalf("2025-03-10 = %d, want 5000", totals["2025-03-10"].Cents)
	}
}
