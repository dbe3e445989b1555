package internal

import (
	"context"
	"time"
)

// Poller runs fn once immediately and then on every tick until ctx ends.
// Errors from fn are handed to onError and never stop the loop.
type Poller struct {
	Interval time.Duration
	Fn       func(ctx context.Context) error
	OnError  func(err error)
}

// Run blocks until ctx is cancelled
func (p *Poller) Run(ctx context.Context) error {
	p.tick(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.Fn(ctx); err != nil && p.OnError != nil {
		p.OnError(err)
	}
}
