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

// Package dispatch implements the per-connection dispatch switch (C8): an
// eight-slot table, one per inbound client message variant, bound to either
// the local sink (C5/C6/C7) or the journal sink (C2/C3/C4) at accept time
// and never changed afterward (spec §4.8).
package dispatch

import (
	"math/rand"

	"github.com/sabouaram/logsrvd/archive/compress"
	"github.com/sabouaram/logsrvd/connection"
	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/eventlog"
	"github.com/sabouaram/logsrvd/message"
)

// Handler processes one inbound message for a bound connection, given both
// its decoded form and the original serialized bytes (the journal sink
// persists those bytes verbatim rather than re-encoding the message).
type Handler func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error

// Table is the eight-slot (plus the unused VariantUnknown slot) handler
// table a connection is bound to at accept time.
type Table struct {
	handlers [int(message.VariantWinsize) + 1]Handler
}

// Dispatch invokes the handler bound to msg.Variant. A failing handler's
// error is recorded on the closure's error slot as well as returned, since
// spec §3 has the event loop consult errstr rather than a return value.
func (t Table) Dispatch(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
	h := t.handlers[msg.Variant]
	if h == nil {
		err := ErrorUnhandledVariant.Error()
		c.Fail(err.Error())
		return err
	}

	if err := h(c, raw, msg); err != nil {
		c.Fail(err.Error())
		return err
	}

	return nil
}

// Env bundles the configuration and collaborators both tables' handlers
// need: where journals and I/O-logs live on disk, how streams are
// compressed, and the decoder used to re-derive elapsed time during a
// journal restart's seek.
type Env struct {
	RelayDir        string
	IOLogRoot       string
	Compression     compress.Algorithm
	Decoder         message.Decoder
	MaxMessageSize  int
	DropProbability float64
	Rng             *rand.Rand

	// EventLog is the administrative event-log sink (C7) every local
	// accept/reject/alert/exit record is appended to, in addition to the
	// per-session "log" file a session with an I/O-log tree of its own also
	// gets. Nil disables administrative emission (e.g. in tests that only
	// care about the in-memory record).
	EventLog *eventlog.Backend
}
