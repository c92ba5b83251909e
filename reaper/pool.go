/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reaper

import (
	"context"
	"sync"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Pool is a bounded Executor. Tasks queue up behind a fixed number of
// workers. When the queue is full a task may run on one of as many overflow
// goroutines as there are workers; once those are busy too, Go blocks until
// the queue has room.
type Pool struct {
	ctx      context.Context
	group    errgroup.Group
	overflow errgroup.Group
	tasks    chan func()

	mu     sync.RWMutex
	closed bool
}

var _ Executor = (*Pool)(nil)

// NewPool starts workers goroutines. Values below one start a single worker.
func NewPool(ctx context.Context, workers int) *Pool {
	workers = max(workers, 1)
	p := &Pool{
		ctx:   ctx,
		tasks: make(chan func(), workers*4),
	}
	p.overflow.SetLimit(workers)
	for range workers {
		p.group.Go(func() error {
			for fn := range p.tasks {
				fn()
			}
			return nil
		})
	}
	return p
}

// Go queues fn. After Close, fn runs on the calling goroutine.
func (p *Pool) Go(fn func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		clog.FromContext(p.ctx).Warn("Pool closed, running task inline")
		fn()
		return
	}

	select {
	case p.tasks <- fn:
		return
	default:
	}
	if p.overflow.TryGo(func() error {
		fn()
		return nil
	}) {
		return
	}
	clog.FromContext(p.ctx).Debug("Pool saturated, waiting for a free slot")
	p.tasks <- fn
}

// Close stops accepting tasks and waits for queued and running ones to
// finish. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	_ = p.group.Wait()
	_ = p.overflow.Wait()
}
