package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
)

func TestPollPolicy_DelaySchedule(t *testing.T) {
	p := DefaultPollPolicy()
	want := []time.Duration{
		1000 * time.Millisecond,
		1500 * time.Millisecond,
		2250 * time.Millisecond,
		3375 * time.Millisecond,
	}
	for attempt, d := range want {
		if got := p.Delay(attempt); got != d {
			t.Fatalf("Delay(%d) = %v, want %v", attempt, got, d)
		}
	}
}

func TestPollPolicy_ZeroValueGetsDefaults(t *testing.T) {
	var p PollPolicy
	if got := p.Delay(0); got != time.Second {
		t.Fatalf("zero policy Delay(0) = %v, want 1s", got)
	}
}

func TestPoll_CompletesEarly(t *testing.T) {
	p := PollPolicy{InitialDelay: time.Millisecond, Multiplier: 1.5, MaxAttempts: 5}
	calls := 0
	err := Poll(context.Background(), p, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestPoll_ExhaustsAttempts(t *testing.T) {
	p := PollPolicy{InitialDelay: time.Millisecond, Multiplier: 1.5, MaxAttempts: 4}
	calls := 0
	err := Poll(context.Background(), p, func(context.Context) (bool, error) {
		calls++
		return false, nil
	})
	if !errors.Is(err, domai.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected exactly MaxAttempts calls, got %d", calls)
	}
}

func TestPoll_StepErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	p := PollPolicy{InitialDelay: time.Millisecond, Multiplier: 1.5, MaxAttempts: 5}
	err := Poll(context.Background(), p, func(context.Context) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected step error, got %v", err)
	}
}

func TestPoll_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := PollPolicy{InitialDelay: time.Hour, Multiplier: 1.5, MaxAttempts: 5}
	errc := make(chan error, 1)
	go func() {
		errc <- Poll(ctx, p, func(context.Context) (bool, error) {
			return false, nil
		})
	}()
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Poll did not return after cancel")
	}
}
