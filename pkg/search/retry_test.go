package search

import (
	"context"
	"errors"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestRetrierRetriesTimeouts(t *testing.T) {
	r := newTimeoutRetrier(2, 100*time.Millisecond, nil)

	for _, attempt := range []int{1, 2} {
		wait, retry, err := r.Retry(context.Background(), attempt, nil, nil, timeoutErr{})
		if err != nil {
			t.Fatalf("attempt %d: %v", attempt, err)
		}
		if !retry {
			t.Fatalf("attempt %d should retry", attempt)
		}
		if wait != 100*time.Millisecond {
			t.Fatalf("attempt %d wait = %v, want the constant interval", attempt, wait)
		}
	}
}

func TestRetrierStopsAfterMaxRetries(t *testing.T) {
	r := newTimeoutRetrier(2, 100*time.Millisecond, nil)

	_, retry, err := r.Retry(context.Background(), 3, nil, nil, timeoutErr{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retry {
		t.Fatalf("attempt past the retry budget must surface the timeout")
	}
}

func TestRetrierIgnoresNonTimeouts(t *testing.T) {
	r := newTimeoutRetrier(2, 100*time.Millisecond, nil)

	_, retry, err := r.Retry(context.Background(), 1, nil, nil, errors.New("connection refused"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retry {
		t.Fatalf("only timeouts are retried")
	}
}

func TestIsTimeout(t *testing.T) {
	if !isTimeout(context.DeadlineExceeded) {
		t.Fatalf("deadline exceeded is a timeout")
	}
	if !isTimeout(timeoutErr{}) {
		t.Fatalf("net timeout errors are timeouts")
	}
	if isTimeout(errors.New("boom")) {
		t.Fatalf("plain errors are not timeouts")
	}
	if isTimeout(nil) {
		t.Fatalf("nil is not a timeout")
	}
}
