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

package eventlog

import (
	"os"
	"path/filepath"
	"sync"

	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/file/perm"
)

// DirPerm is the mode an administrative event log's parent directory is
// created with, matching the I/O-log tree's own directory mode.
var DirPerm = perm.Perm(0711)

// filePerm is the mode every event-log file (session-local or
// administrative) is opened with.
var filePerm = perm.Perm(0640)

// SessionLogFileName is the per-session textual event record spec.md §6
// lists among an I/O-log directory's contents: "log (event records)".
const SessionLogFileName = "log"

// AppendToDir encodes r and appends it to <dir>/log, the per-session event
// record that lives alongside the timing and stream files of a session that
// has an I/O-log directory of its own (spec §3, §6).
func AppendToDir(dir string, r Record) liberr.Error {
	buf, err := Encode(r)
	if err != nil {
		return err
	}
	return appendFile(filepath.Join(dir, SessionLogFileName), buf)
}

// Backend is the administrative event log spec.md's component table
// describes C7 as emitting to ("emit structured accept/reject/alert records
// to an administrative event log"): every accept/reject/alert/exit record
// lands here, regardless of whether the session also gets a per-session
// "log" file of its own under an I/O-log directory (spec §9 S1: a session
// with no I/O-log directory still produces one accept record).
type Backend struct {
	mu   sync.Mutex
	path string
}

// NewBackend returns a Backend appending every record to a single file at
// path, created (along with its parent directory) on first write.
func NewBackend(path string) *Backend {
	return &Backend{path: path}
}

// Write encodes r and appends it to the backend's file. Safe for concurrent
// use by handlers from different connections.
func (b *Backend) Write(r Record) liberr.Error {
	buf, err := Encode(r)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return appendFile(b.path, buf)
}

func appendFile(path string, buf []byte) liberr.Error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm.FileMode()); err != nil {
		return ErrorDirCreate.Error(err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm.FileMode())
	if err != nil {
		return ErrorWrite.Error(err)
	}
	defer func() { _ = f.Close() }()

	if _, e := f.Write(buf); e != nil {
		return ErrorWrite.Error(e)
	}

	return nil
}
