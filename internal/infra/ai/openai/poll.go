package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
)

// PollPolicy bounds the submit-then-poll loop for asynchronous backend
// jobs: initial delay, multiplier per attempt, attempt cap.
type PollPolicy struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxAttempts  int
}

// DefaultPollPolicy mirrors the backend adapter defaults: 1s initial
// delay, 1.5x growth, 5 attempts.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		InitialDelay: time.Second,
		Multiplier:   1.5,
		MaxAttempts:  5,
	}
}

func (p PollPolicy) withDefaults() PollPolicy {
	d := DefaultPollPolicy()
	if p.InitialDelay <= 0 {
		p.InitialDelay = d.InitialDelay
	}
	if p.Multiplier <= 1 {
		p.Multiplier = d.Multiplier
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	return p
}

// Delay is the backoff schedule as a pure function of attempt count
// (0-based): InitialDelay * Multiplier^attempt.
func (p PollPolicy) Delay(attempt int) time.Duration {
	p = p.withDefaults()
	if attempt <= 0 {
		return p.InitialDelay
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt)))
}

// Poll drives the {submitted -> polling -> completed | timed_out} state
// machine. step reports whether the job completed; it is called once per
// attempt with the backoff delay in between. Exhausting MaxAttempts fails
// with ErrTimeout. A canceled context abandons the loop; the remote job is
// not cancelled (best-effort only).
func Poll(ctx context.Context, p PollPolicy, step func(context.Context) (bool, error)) error {
	p = p.withDefaults()
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		done, err := step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w: job not completed after %d attempts", domai.ErrTimeout, p.MaxAttempts)
}
