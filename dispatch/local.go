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
	"time"

	"github.com/sabouaram/logsrvd/connection"
	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/eventlog"
	"github.com/sabouaram/logsrvd/iolog"
	"github.com/sabouaram/logsrvd/message"
)

// NewLocalTable builds the handler table for a connection where this
// receiver is the terminal sink: accept/reject/alert go through the
// event-log emitter (C7), I/O-buffer and lifecycle records go through the
// I/O-log store and seeker (C5/C6).
func NewLocalTable(env Env) Table {
	t := Table{}

	t.handlers[message.VariantAccept] = localAccept(env)
	t.handlers[message.VariantReject] = localReject(env)
	t.handlers[message.VariantExit] = localExit(env)
	t.handlers[message.VariantRestart] = localRestart(env)
	t.handlers[message.VariantAlert] = localAlert(env)
	t.handlers[message.VariantIOBuf] = localIOBuf(env)
	t.handlers[message.VariantSuspend] = localSuspend(env)
	t.handlers[message.VariantWinsize] = localWinsize(env)

	return t
}

func metaToEventlog(in map[string]message.MetaValue) (map[string]eventlog.MetaValue, liberr.Error) {
	if len(in) == 0 {
		return nil, nil
	}

	out := make(map[string]eventlog.MetaValue, len(in))
	for key, v := range in {
		switch v.Kind {
		case message.MetaInt:
			out[key] = eventlog.MetaValue{Kind: eventlog.MetaInt, Int: v.Int}
		case message.MetaString:
			out[key] = eventlog.MetaValue{Kind: eventlog.MetaString, Str: v.Str}
		case message.MetaStringList:
			out[key] = eventlog.MetaValue{Kind: eventlog.MetaStringList, List: v.List}
		default:
			return nil, ErrorUnknownMetaKind.Error()
		}
	}

	return out, nil
}

func metaString(meta map[string]message.MetaValue, key, fallback string) string {
	if v, ok := meta[key]; ok && v.Kind == message.MetaString {
		return v.Str
	}
	return fallback
}

func sessionIDOf(c *connection.Closure) string {
	if c.EvLog != nil && c.EvLog.SessionID != "" {
		return c.EvLog.SessionID
	}
	return ""
}

// localAccept parses metadata, builds the closure's event-log descriptor,
// and — when the client expects I/O buffers — creates the session's I/O-log
// tree and reports its path back as a log-id message (spec §4.8, §6).
func localAccept(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		meta, err := metaToEventlog(msg.Metadata)
		if err != nil {
			return err
		}

		user := metaString(msg.Metadata, "user", "unknown")
		host := metaString(msg.Metadata, "submithost", "unknown")

		sessionID, err := eventlog.NewSessionID()
		if err != nil {
			return err
		}

		rec := eventlog.Record{
			Kind:           eventlog.KindAccept,
			SubmissionTime: msg.SubmitTime,
			User:           user,
			Host:           host,
			SessionID:      sessionID,
			Metadata:       meta,
		}
		if err = eventlog.Validate(rec); err != nil {
			return err
		}
		c.EvLog = &rec

		if msg.ExpectIOBufs {
			relPath := eventlog.DirPath(user, host, sessionID, time.Now())

			store, serr := iolog.Create(env.IOLogRoot, relPath, env.Compression)
			if serr != nil {
				return serr
			}
			if env.DropProbability > 0 {
				store.SetRandomDrop(env.DropProbability, env.Rng)
			}

			c.AdoptIOLog(store)
			c.IOLogPath = relPath

			if werr := eventlog.AppendToDir(store.Dir(), rec); werr != nil {
				return werr
			}

			if werr := c.SendLogID([]byte(relPath)); werr != nil {
				return liberr.Make(werr)
			}
		}

		if env.EventLog != nil {
			if werr := env.EventLog.Write(rec); werr != nil {
				return werr
			}
		}

		c.Trace("accept", rec)
		return nil
	}
}

// localReject parses metadata and logs a reject event carrying the reason
// the policy engine supplied; no I/O-log tree is ever created for a
// rejected session (spec §4.8).
func localReject(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		meta, err := metaToEventlog(msg.Metadata)
		if err != nil {
			return err
		}

		sessionID, err := eventlog.NewSessionID()
		if err != nil {
			return err
		}

		rec := eventlog.Record{
			Kind:           eventlog.KindReject,
			SubmissionTime: msg.SubmitTime,
			User:           metaString(msg.Metadata, "user", "unknown"),
			Host:           metaString(msg.Metadata, "submithost", "unknown"),
			SessionID:      sessionID,
			Reason:         msg.Reason,
			Metadata:       meta,
		}
		if err = eventlog.Validate(rec); err != nil {
			return err
		}
		c.EvLog = &rec

		if env.EventLog != nil {
			if werr := env.EventLog.Write(rec); werr != nil {
				return werr
			}
		}

		c.Trace("reject", rec)
		return nil
	}
}

// localExit records the exit code/signal in the event log and seals the
// I/O-log's timing file, the on-disk marker a restart checks for an
// already-complete session (spec §4.5, §4.8).
func localExit(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		if c.EvLog == nil {
			return ErrorSessionMissing.Error()
		}

		if c.EvLog.Metadata == nil {
			c.EvLog.Metadata = map[string]eventlog.MetaValue{}
		}
		c.EvLog.Metadata["exit_code"] = eventlog.MetaValue{Kind: eventlog.MetaInt, Int: int64(msg.ExitCode)}
		if msg.ExitSignal != "" {
			c.EvLog.Metadata["exit_signal"] = eventlog.MetaValue{Kind: eventlog.MetaString, Str: msg.ExitSignal}
		}

		if c.IOLog != nil {
			if werr := eventlog.AppendToDir(c.IOLog.Dir(), *c.EvLog); werr != nil {
				return werr
			}
		}

		if env.EventLog != nil {
			if werr := env.EventLog.Write(*c.EvLog); werr != nil {
				return werr
			}
		}

		if c.IOLog != nil {
			if err := c.IOLog.Seal(); err != nil {
				return err
			}
		}

		c.Trace("exit", *c.EvLog)
		return nil
	}
}

// localRestart reopens the session's I/O-log tree (seek or rewrite mode per
// §4.6) and positions the closure's elapsed-time clock at the resume point.
func localRestart(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		store, err := iolog.Restart(env.IOLogRoot, msg.LogID, env.Compression, msg.ResumePoint)
		if err != nil {
			return err
		}

		c.AdoptIOLog(store)
		c.IOLogPath = msg.LogID
		c.SetElapsed(store.Elapsed())

		c.Trace("restart", msg.LogID)
		return nil
	}
}

// localAlert logs an alert event carrying its own submission time and
// reason, correlated with the session already opened by accept (spec
// §4.8).
func localAlert(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		meta, err := metaToEventlog(msg.Metadata)
		if err != nil {
			return err
		}

		sessionID := sessionIDOf(c)
		if sessionID == "" {
			if sessionID, err = eventlog.NewSessionID(); err != nil {
				return err
			}
		}

		rec := eventlog.Record{
			Kind:           eventlog.KindAlert,
			SubmissionTime: msg.SubmitTime,
			User:           metaString(msg.Metadata, "user", "unknown"),
			Host:           metaString(msg.Metadata, "submithost", "unknown"),
			SessionID:      sessionID,
			Reason:         msg.Reason,
			Metadata:       meta,
		}
		if err = eventlog.Validate(rec); err != nil {
			return err
		}

		if c.IOLog != nil {
			if werr := eventlog.AppendToDir(c.IOLog.Dir(), rec); werr != nil {
				return werr
			}
		}

		if env.EventLog != nil {
			if werr := env.EventLog.Write(rec); werr != nil {
				return werr
			}
		}

		c.Trace("alert", rec)
		return nil
	}
}

// localIOBuf writes the stream payload and its timing record, then advances
// the closure's elapsed-time clock by the record's delay (spec §4.5, §4.8).
func localIOBuf(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		if c.IOLog == nil {
			return ErrorIOLogMissing.Error()
		}

		if err := c.IOLog.WriteIOBuf(msg.Stream, msg.Payload, msg.Delay); err != nil {
			return err
		}

		c.Advance(msg.Delay)
		return nil
	}
}

// localSuspend writes a timing-only record and advances elapsed time.
func localSuspend(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		if c.IOLog == nil {
			return ErrorIOLogMissing.Error()
		}

		if err := c.IOLog.WriteSuspend(msg.Signal, msg.Delay); err != nil {
			return err
		}

		c.Advance(msg.Delay)
		return nil
	}
}

// localWinsize writes a timing-only record and advances elapsed time.
func localWinsize(env Env) Handler {
	return func(c *connection.Closure, raw []byte, msg message.Message) liberr.Error {
		if c.IOLog == nil {
			return ErrorIOLogMissing.Error()
		}

		if err := c.IOLog.WriteWinsize(msg.Rows, msg.Cols, msg.Delay); err != nil {
			return err
		}

		c.Advance(msg.Delay)
		return nil
	}
}
