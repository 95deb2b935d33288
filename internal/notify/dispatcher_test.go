package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// scriptedSender returns one scripted error per call, then succeeds.
type scriptedSender struct {
	errs  []error
	calls []time.Time
}

func (s *scriptedSender) Send(ctx context.Context, msg domain.Message) error {
	s.calls = append(s.calls, time.Now())
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func (s *scriptedSender) Name() string { return "scripted" }

func testDispatcher(s Sender) *Dispatcher {
	cfg := DispatcherConfig{
		TimeoutRetryWait: 20 * time.Millisecond,
		Pacing:           10 * time.Millisecond,
	}
	return NewDispatcher(cfg, []Sender{s}, nil)
}

func TestDispatchSuccess(t *testing.T) {
	s := &scriptedSender{}
	start := time.Now()
	testDispatcher(s).Dispatch(context.Background(), domain.Message{Title: "hi"})

	if len(s.calls) != 1 {
		t.Fatalf("got %d attempts; want 1", len(s.calls))
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("pacing floor not enforced: dispatch took %v", elapsed)
	}
}

func TestDispatchThrottledRetriesOnceAfterWait(t *testing.T) {
	wait := 30 * time.Millisecond
	s := &scriptedSender{errs: []error{
		fmt.Errorf("send: %w", &domain.ThrottledError{RetryAfter: wait}),
	}}
	testDispatcher(s).Dispatch(context.Background(), domain.Message{})

	if len(s.calls) != 2 {
		t.Fatalf("got %d attempts; want 2", len(s.calls))
	}
	if gap := s.calls[1].Sub(s.calls[0]); gap < wait {
		t.Errorf("retry gap = %v; want >= %v", gap, wait)
	}
}

func TestDispatchThrottledRetryFailureDrops(t *testing.T) {
	s := &scriptedSender{errs: []error{
		&domain.ThrottledError{RetryAfter: time.Millisecond},
		&domain.ThrottledError{RetryAfter: time.Millisecond},
	}}
	testDispatcher(s).Dispatch(context.Background(), domain.Message{})

	if len(s.calls) != 2 {
		t.Fatalf("got %d attempts; want exactly 2 (no retry of the retry)", len(s.calls))
	}
}

func TestDispatchTimeoutRetriesAfterFixedWait(t *testing.T) {
	s := &scriptedSender{errs: []error{
		fmt.Errorf("send: %w", domain.ErrDeliveryTimeout),
	}}
	testDispatcher(s).Dispatch(context.Background(), domain.Message{})

	if len(s.calls) != 2 {
		t.Fatalf("got %d attempts; want 2", len(s.calls))
	}
	if gap := s.calls[1].Sub(s.calls[0]); gap < 20*time.Millisecond {
		t.Errorf("retry gap = %v; want >= timeout retry wait", gap)
	}
}

func TestDispatchGenericFaultDropsImmediately(t *testing.T) {
	s := &scriptedSender{errs: []error{errors.New("boom")}}
	testDispatcher(s).Dispatch(context.Background(), domain.Message{})

	if len(s.calls) != 1 {
		t.Fatalf("got %d attempts; want 1 (no retry on generic fault)", len(s.calls))
	}
}

func TestDispatchFansOutToAllSenders(t *testing.T) {
	a := &scriptedSender{errs: []error{errors.New("boom")}}
	b := &scriptedSender{}
	cfg := DispatcherConfig{TimeoutRetryWait: time.Millisecond, Pacing: time.Millisecond}
	NewDispatcher(cfg, []Sender{a, b}, nil).Dispatch(context.Background(), domain.Message{})

	if len(a.calls) != 1 || len(b.calls) != 1 {
		t.Errorf("attempts = %d, %d; one sender's fault must not block the other", len(a.calls), len(b.calls))
	}
}

func TestDispatchCancelledContextStopsWaiting(t *testing.T) {
	s := &scriptedSender{errs: []error{
		&domain.ThrottledError{RetryAfter: time.Minute},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		testDispatcher(s).Dispatch(ctx, domain.Message{})
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not abort the throttle wait on cancellation")
	}
	if len(s.calls) != 1 {
		t.Errorf("got %d attempts; want 1 after cancellation", len(s.calls))
	}
}
