package internal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_TicksImmediatelyAndRepeatedly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks int32
	p := &Poller{
		Interval: 20 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			if atomic.AddInt32(&ticks, 1) == 3 {
				cancel()
			}
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
	if n := atomic.LoadInt32(&ticks); n < 3 {
		t.Errorf("ticks = %d, want at least 3", n)
	}
}

func TestPoller_ErrorsDoNotStopTheLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var failures int32
	p := &Poller{
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			return errors.New("backend down")
		},
		OnError: func(err error) {
			if atomic.AddInt32(&failures, 1) == 2 {
				cancel()
			}
		},
	}

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v", err)
	}
	if atomic.LoadInt32(&failures) < 2 {
		t.Error("OnError should be called on every failing tick")
	}
}
