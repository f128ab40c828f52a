/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package semaphore offers a small worker-counting helper on top of
// golang.org/x/sync/semaphore, used to bound fan-out goroutines (e.g. the
// concurrent logger hooks) and join on them from a single call site.
package semaphore

import (
	"context"

	xsem "golang.org/x/sync/semaphore"
)

// Semaphore bounds concurrent workers started from a single goroutine and
// lets that goroutine wait for every one of them to finish.
type Semaphore interface {
	// NewWorker reserves one slot, blocking if the configured limit is reached.
	NewWorker() error
	// DeferWorker releases the slot reserved by NewWorker; call via defer in the worker.
	DeferWorker()
	// DeferMain waits for outstanding workers then releases the main slot; call via defer in the caller.
	DeferMain()
	// WaitAll blocks until every reserved worker slot has been released.
	WaitAll() error
}

type sem struct {
	ctx context.Context
	wgt *xsem.Weighted
	max int64
}

// NewSemaphoreWithContext returns a Semaphore bound to ctx. max <= 0 means unbounded
// (backed by a very large weight) — workers never block on NewWorker.
func NewSemaphoreWithContext(ctx context.Context, max int64) Semaphore {
	if max <= 0 {
		max = 1 << 20
	}

	return &sem{
		ctx: ctx,
		wgt: xsem.NewWeighted(max),
		max: max,
	}
}

func (s *sem) NewWorker() error {
	return s.wgt.Acquire(s.ctx, 1)
}

func (s *sem) DeferWorker() {
	s.wgt.Release(1)
}

func (s *sem) DeferMain() {
	_ = s.wgt.Acquire(s.ctx, s.max)
}

func (s *sem) WaitAll() error {
	if err := s.wgt.Acquire(s.ctx, s.max); err != nil {
		return err
	}
	s.wgt.Release(s.max)
	return nil
}
