package advice

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/internal/core"
)

type stubGenerator struct {
	text    string
	err     error
	block   chan struct{} // when set, Generate waits for it (or ctx)
	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func TestAdvisorSuccess(t *testing.T) {
	gen := &stubGenerator{text: "Spend less on snacks."}
	a := New(gen, time.Second)

	if state, _ := a.Snapshot(); state != StateIdle {
		t.Fatalf("initial state = %s, want idle", state)
	}

	if err := a.Request(context.Background(), nil, "General"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	a.Wait()

	state, text := a.Snapshot()
	if state != StateReady {
		t.Fatalf("state = %s, want ready", state)
	}
	if text != "Spend less on snacks." {
		t.Fatalf("advice = %q", text)
	}
}

func TestAdvisorFailureYieldsFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"service error", &stubGenerator{err: errors.New("quota exceeded")}},
		{"empty response", &stubGenerator{text: "   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := New(tc.gen, time.Second)
			if err := a.Request(context.Background(), nil, "General"); err != nil {
				t.Fatalf("Request: %v", err)
			}
			a.Wait()

			state, text := a.Snapshot()
			if state != StateReady {
				t.Fatalf("state = %s, want ready", state)
			}
			if text != Fallback {
				t.Fatalf("advice = %q, want fallback", text)
			}
		})
	}
}

func TestAdvisorRejectsOverlappingRequests(t *testing.T) {
	gen := &stubGenerator{text: "ok", block: make(chan struct{})}
	a := New(gen, time.Second)

	if err := a.Request(context.Background(), nil, "General"); err != nil {
		t.Fatalf("first Request: %v", err)
	}
	if err := a.Request(context.Background(), nil, "Saving"); !errors.Is(err, ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}

	close(gen.block)
	a.Wait()

	// Ready again: a new request is accepted.
	if err := a.Request(context.Background(), nil, "Saving"); err != nil {
		t.Fatalf("Request after ready: %v", err)
	}
	a.Wait()
}

func TestAdvisorTimeoutFallsBack(t *testing.T) {
	gen := &stubGenerator{text: "too late", block: make(chan struct{})}
	defer close(gen.block)
	a := New(gen, 10*time.Millisecond)

	if err := a.Request(context.Background(), nil, "General"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	a.Wait()

	state, text := a.Snapshot()
	if state != StateReady || text != Fallback {
		t.Fatalf("state=%s advice=%q, want ready with fallback", state, text)
	}
}

func TestAdvisorSurvivesCallerCancellation(t *testing.T) {
	gen := &stubGenerator{text: "keep going"}
	a := New(gen, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	if err := a.Request(ctx, nil, "General"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	cancel()
	a.Wait()

	if state, text := a.Snapshot(); state != StateReady || text != "keep going" {
		t.Fatalf("state=%s advice=%q; request must not be abandoned with its caller", state, text)
	}
}

func TestAdvisorUsesMonthlyPrompt(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	a := New(gen, time.Second)
	a.now = func() time.Time { return time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) }

	records := []core.Expense{
		{Amount: core.Money{Cents: 4500}, Category: "Food", Date: "2025-03-10"},
	}
	if err := a.Request(context.Background(), records, "Saving"); err != nil {
		t.Fatalf("Request: %v", err)
	}
	a.Wait()

	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generation, got %d", len(gen.prompts))
	}
	want := BuildPrompt(records, "Saving", a.now())
	if gen.prompts[0] != want {
		t.Fatalf("prompt mismatch:\n%s\nwant:\n%s", gen.prompts[0], want)
	}
}
