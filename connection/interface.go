/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
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

// Package connection implements the per-connection closure (C9): the
// aggregate state a dispatch table's handlers read and mutate, and the
// single place responsible for releasing every file handle a connection
// ever opened, on every exit path (spec §3, §4.9).
package connection

import (
	"context"
	"sync"

	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/eventlog"
	"github.com/sabouaram/logsrvd/iolog"
	"github.com/sabouaram/logsrvd/ioutils/mapCloser"
	"github.com/sabouaram/logsrvd/journal"
	"github.com/sabouaram/logsrvd/logger"
)

// SinkKind selects which dispatch table (local or journal) a connection is
// bound to at accept time; it never changes afterward (spec §4.8).
type SinkKind uint8

const (
	SinkLocal SinkKind = iota
	SinkJournal
)

func (k SinkKind) String() string {
	if k == SinkJournal {
		return "journal"
	}
	return "local"
}

// Writer is the event loop's outbound-write collaborator (`write_ev` in
// spec §3): handlers enqueue bytes through it rather than writing to the
// wire themselves, since a handler never blocks on network I/O (spec §5).
type Writer interface {
	Write(raw []byte) error
}

// Closure is the per-connection state aggregate. Every exported field
// corresponds to one of spec §3's essential attributes; fields are
// rewritten in place by a dispatch table's handlers rather than replaced,
// so a handler can be a plain function taking *Closure.
type Closure struct {
	mu sync.Mutex

	Elapsed elapsed.Time
	Sink    SinkKind
	Errstr  string

	EvLog     *eventlog.Record
	IOLogPath string
	LogIO     bool

	IOLog   *iolog.Store
	Journal *journal.Store

	JournalPath string

	// Debug is the connection's optional debug-logging channel (spec's
	// ambient logging stack, not a C1-C9 component): handlers report
	// variant-level trace entries through it when set, and are no-ops when
	// nil so tests that don't care about logging don't have to configure one.
	Debug logger.Logger

	write  Writer
	closer mapCloser.Closer
}

// New constructs a Closure bound to sink and write for the lifetime of ctx;
// cancelling ctx tears down every handle the closure goes on to own, even if
// the event loop never calls Close (spec §4.9: "destruction must close every
// file handle it owns... on every exit path").
func New(ctx context.Context, sink SinkKind, write Writer) *Closure {
	return &Closure{
		Sink:   sink,
		write:  write,
		closer: mapCloser.New(ctx),
	}
}

// SetDebug binds l as the closure's debug-logging channel. A nil l disables
// debug logging, which is also the zero-value behavior.
func (c *Closure) SetDebug(l logger.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Debug = l
}

// Trace reports a debug-level entry through the closure's logging channel,
// doing nothing when none was configured. Handlers call this rather than
// touching c.Debug directly so they stay correct whether or not a channel is
// bound.
func (c *Closure) Trace(message string, data interface{}) {
	c.mu.Lock()
	l := c.Debug
	c.mu.Unlock()

	if l != nil {
		l.Debug(message, data)
	}
}

// Fail records errstr on the closure's error slot; a non-empty Errstr is
// what the event loop checks after a handler returns to decide whether to
// tear the connection down (spec §3).
func (c *Closure) Fail(errstr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Errstr = errstr
}

// Failed reports whether a handler has set the error slot.
func (c *Closure) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Errstr != ""
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// adopt registers a sink handle for teardown. liberr.Error-returning Close
// methods (journal.Store, iolog.Store) don't satisfy io.Closer directly —
// their Close signature returns the package's own Error type rather than
// the stdlib error interface — so each is wrapped through closerFunc.
func (c *Closure) adoptJournal(j *journal.Store) {
	c.Journal = j
	c.closer.Add(closerFunc(func() error {
		if e := j.Close(); e != nil {
			return e
		}
		return nil
	}))
}

func (c *Closure) adoptIOLog(s *iolog.Store) {
	c.IOLog = s
	c.closer.Add(closerFunc(func() error {
		if e := s.Close(); e != nil {
			return e
		}
		return nil
	}))
}

// AdoptJournal binds j to this closure and schedules it for teardown.
func (c *Closure) AdoptJournal(j *journal.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adoptJournal(j)
}

// AdoptIOLog binds s to this closure and schedules it for teardown.
func (c *Closure) AdoptIOLog(s *iolog.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adoptIOLog(s)
	c.LogIO = true
}

// Advance moves the closure's elapsed-time clock forward by delay, the one
// mutation every delay-carrying handler performs (spec §3's first
// invariant: "each write through the closure advances elapsed_time by
// exactly the delay field of the record").
func (c *Closure) Advance(delay elapsed.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Elapsed = elapsed.Advance(c.Elapsed, delay)
}

// SetElapsed positions the closure's elapsed-time clock directly, for a
// restart handler to adopt the resume point a successful seek (C4/C6)
// reports rather than accumulating it one delay at a time.
func (c *Closure) SetElapsed(t elapsed.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Elapsed = t
}

// SendLogID enqueues the outbound log-id message the receiver sends back on
// first accept-with-iobufs, carrying the journal or I/O-log path so the
// client can request a restart later (spec §6).
func (c *Closure) SendLogID(raw []byte) error {
	c.mu.Lock()
	w := c.write
	c.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Write(raw)
}

// Reset clears every field back to a fresh closure's zero state without
// releasing the underlying context-bound closer, so a connection pool can
// reuse the struct across accepts (spec §4.9: "Construction, reset, and
// destruction are the only lifecycle operations").
func (c *Closure) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Elapsed = elapsed.Zero
	c.Errstr = ""
	c.EvLog = nil
	c.IOLogPath = ""
	c.LogIO = false
	c.IOLog = nil
	c.Journal = nil
	c.JournalPath = ""
}

// Close releases every handle this closure has ever adopted. Safe to call
// more than once; subsequent calls return the error mapCloser reports for
// an already-closed instance.
func (c *Closure) Close() error {
	return c.closer.Close()
}
