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

package dispatch

import (
	"strings"

	"github.com/sabouaram/logsrvd/connection"
	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/journal"
	"github.com/sabouaram/logsrvd/message"
)

// NewJournalTable builds the handler table for a connection relaying to an
// upstream server rather than logging locally: every message is persisted
// verbatim to a per-session journal file (C2/C3) rather than decoded into
// an event-log or I/O-log record (spec §4.8, §6).
func NewJournalTable(env Env) Table {
	t := Table{}

	acceptReject := journalAcceptOrReject(env)
	t.handlers[message.VariantAccept] = acceptReject
	t.handlers[message.VariantReject] = acceptReject
	t.handlers[message.VariantExit] = journalExit(env)
	t.handlers[message.VariantRestart] = journalRestart(env)

	append_ := journalAppend(env)
	t.handlers[message.VariantAlert] = append_
	t.handlers[message.VariantIOBuf] = append_
	t.handlers[message.VariantSuspend] = append_
	t.handlers[message.VariantWinsize] = append_

	return t
}

// journalAcceptOrReject creates the session's journal file under
// <relay_dir>/incoming/, appends the triggering message's raw bytes, and —
// when the client expects I/O buffers — reports the journal's path back as
// a log-id message, mirroring the local sink's accept handling (spec §4.3,
// §6).
func journalAcceptOrReject(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		store, err := journal.Create(env.RelayDir)
		if err != nil {
			return err
		}
		c.AdoptJournal(store)
		c.JournalPath = store.Path()

		if err = store.Append(raw); err != nil {
			return err
		}

		if msg.ExpectIOBufs {
			if werr := c.SendLogID([]byte(store.Path())); werr != nil {
				return liberr.Make(werr)
			}
		}

		c.Trace("journal accept/reject", store.Path())
		return nil
	}
}

// journalExit appends the triggering message and finalizes the journal,
// renaming it from incoming/ to outgoing/ for a forwarder to pick up
// (spec §4.3).
func journalExit(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		if c.Journal == nil {
			return ErrorJournalMissing.Error()
		}

		if err := c.Journal.Append(raw); err != nil {
			return err
		}

		path, err := c.Journal.Finalize()
		if err != nil {
			return err
		}
		c.JournalPath = path

		c.Trace("journal exit", path)
		return nil
	}
}

// journalRestart reopens an existing incoming journal by the name embedded
// in the restart message's log_id (after stripping the leading hostname
// segment the upstream server prefixed it with), replays it up to the
// resume point (C4), and positions the closure's elapsed-time clock there
// (spec §4.4, §6).
func journalRestart(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		name := msg.LogID
		if idx := strings.IndexByte(name, '/'); idx >= 0 {
			name = name[idx+1:]
		}

		store, err := journal.OpenIncoming(env.RelayDir, name)
		if err != nil {
			return err
		}

		if _, err = journal.Seek(store.Reader(), env.Decoder, env.MaxMessageSize, msg.ResumePoint); err != nil {
			_ = store.Close()
			return err
		}

		c.AdoptJournal(store)
		c.JournalPath = store.Path()
		c.SetElapsed(msg.ResumePoint)

		return nil
	}
}

// journalAppend appends the triggering message's raw bytes to the bound
// journal. Unlike the local table — where I/O buffers, suspend and
// window-size records all advance elapsed time — the journal table only
// does so for iobuf records; suspend and window-size are persisted for the
// upstream server to reinterpret but don't move this connection's own
// clock (spec §4.8).
func journalAppend(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		if c.Journal == nil {
			return ErrorJournalMissing.Error()
		}

		if err := c.Journal.Append(raw); err != nil {
			return err
		}

		if msg.Variant == message.VariantIOBuf {
			c.Advance(msg.Delay)
		}

		return nil
	}
}
