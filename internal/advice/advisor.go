// Package advice turns a spending snapshot into a natural-language prompt and
// runs it through a generative model, exposing the result as a small state
// machine the UI can poll.
package advice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tracker/internal/core"
)

// State of the advice request lifecycle. Failures never get their own state:
// they surface as Ready with the fallback text, with the cause logged.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Fallback is shown whenever generation fails; the underlying error is never
// displayed to the user.
const Fallback = "Sorry, I couldn't generate advice right now. Please check your connection or API key."

// ErrRequestInFlight is returned when a request arrives while another is
// loading. One request at a time; the caller may retry once Ready.
var ErrRequestInFlight = errors.New("advice request already in flight")

// Generator is the text-in/text-out advice service port.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor orchestrates advice requests against a Generator.
type Advisor struct {
	gen     Generator
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	state  State
	advice string
	done   chan struct{} // closed when the in-flight request finishes; tests wait on it
}

func New(gen Generator, timeout time.Duration) *Advisor {
	return &Advisor{
		gen:     gen,
		timeout: timeout,
		now:     time.Now,
		state:   StateIdle,
	}
}

// Request starts an asynchronous advice generation for the current month's
// spending and the given goal tag. It rejects overlapping requests and bounds
// the call with the configured timeout; expiry takes the fallback path like
// any other failure. The work is detached from ctx's cancellation so a closed
// HTTP request does not abandon the result.
func (a *Advisor) Request(ctx context.Context, records []core.Expense, goal string) error {
	a.mu.Lock()
	if a.state == StateLoading {
		a.mu.Unlock()
		return ErrRequestInFlight
	}
	a.state = StateLoading
	a.advice = ""
	done := make(chan struct{})
	a.done = done
	a.mu.Unlock()

	prompt := BuildPrompt(records, goal, a.now())
	go a.run(context.WithoutCancel(ctx), prompt, goal, done)
	return nil
}

func (a *Advisor) run(ctx context.Context, prompt, goal string, done chan struct{}) {
	defer close(done)

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(cctx, prompt)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateReady
	if err != nil || strings.TrimSpace(text) == "" {
		if err == nil {
			err = errors.New("empty response")
		}
		slog.ErrorContext(ctx, "Advice generation failed", "error", err, "goal", goal)
		a.advice = Fallback
		return
	}
	a.advice = text
}

// Snapshot returns the current state and, when Ready, the advice text.
func (a *Advisor) Snapshot() (State, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.advice
}

// Wait blocks until the in-flight request, if any, has finished.
func (a *Advisor) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}
