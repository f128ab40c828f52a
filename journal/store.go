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

// Package journal implements the relay sink: a per-session file of raw,
// length-framed client messages, created under <relay_dir>/incoming/ and
// renamed into <relay_dir>/outgoing/ once the session closes, ready for a
// forwarder to pick up and ship upstream.
package journal

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/file/perm"
	"github.com/sabouaram/logsrvd/frame"
)

// DirPerm is the mode new incoming/outgoing directories are created with
// (spec §4.3: "intermediate directories 0711").
var DirPerm = perm.Perm(0711)

const incomingDirName = "incoming"
const outgoingDirName = "outgoing"

// Store is one session's journal file: created under incoming/, appended to
// as client messages arrive, and finalized into outgoing/ on session close.
type Store struct {
	mu sync.Mutex

	relayDir     string
	f            *os.File
	bw           *bufio.Writer
	incomingPath string
	outgoingPath string
	finalized    bool
	closed       bool
}

// Create reserves a uniquely named file under <relayDir>/incoming/ (file
// permissions 0600, the os.CreateTemp default), takes an advisory exclusive
// lock on it, and returns a Store ready to Append frames (spec §4.3).
func Create(relayDir string) (*Store, liberr.Error) {
	incomingDir := filepath.Join(relayDir, incomingDirName)
	if err := os.MkdirAll(incomingDir, DirPerm.FileMode()); err != nil {
		return nil, ErrorDirCreate.Error(err)
	}

	f, err := os.CreateTemp(incomingDir, "logsrvd-*.journal")
	if err != nil {
		return nil, ErrorCreateIncoming.Error(err)
	}

	if err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		name := f.Name()
		_ = f.Close()
		_ = os.Remove(name)
		return nil, ErrorLockContention.Error(err)
	}

	return &Store{
		relayDir:     relayDir,
		f:            f,
		bw:           bufio.NewWriter(f),
		incomingPath: f.Name(),
	}, nil
}

// OpenIncoming reopens an existing incoming journal by file name — the
// suffix of a restart message's log_id, after stripping any leading
// "hostname/" prefix (spec §6) — so a resuming connection can seek it (C4)
// and continue appending new records right after the replayed ones.
func OpenIncoming(relayDir, name string) (*Store, liberr.Error) {
	path := filepath.Join(relayDir, incomingDirName, name)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, ErrorCreateIncoming.Error(err)
	}

	if err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, ErrorLockContention.Error(err)
	}

	return &Store{
		relayDir:     relayDir,
		f:            f,
		bw:           bufio.NewWriter(f),
		incomingPath: path,
	}, nil
}

// Path returns the journal's current path: under incoming/ before Finalize,
// under outgoing/ after.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outgoingPath != "" {
		return s.outgoingPath
	}
	return s.incomingPath
}

// Append writes one client message's raw bytes as a length-framed record
// (spec §6: the journal persists the original bytes verbatim, framed the
// same way C2 frames the wire).
func (s *Store) Append(payload []byte) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.finalized {
		return ErrorAlreadyClosed.Error()
	}

	if err := frame.WriteFrame(s.bw, payload); err != nil {
		return liberr.Make(err)
	}

	return nil
}

// Finalize flushes buffered writes, rewinds the file to offset zero,
// allocates a second unique name under <relayDir>/outgoing/, and renames the
// incoming file onto it (spec §4.3). The underlying descriptor remains open
// and readable at its new path — renaming a file never invalidates a file
// descriptor already open on it.
func (s *Store) Finalize() (string, liberr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrorAlreadyClosed.Error()
	}
	if s.finalized {
		return s.outgoingPath, nil
	}

	if err := s.bw.Flush(); err != nil {
		return "", ErrorFlush.Error(err)
	}

	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return "", ErrorRewind.Error(err)
	}

	outgoingDir := filepath.Join(s.relayDir, outgoingDirName)
	if err := os.MkdirAll(outgoingDir, DirPerm.FileMode()); err != nil {
		return "", ErrorDirCreate.Error(err)
	}

	placeholder, err := os.CreateTemp(outgoingDir, "logsrvd-*.journal")
	if err != nil {
		return "", ErrorCreateOutgoing.Error(err)
	}
	outgoingPath := placeholder.Name()
	if err = placeholder.Close(); err != nil {
		_ = os.Remove(outgoingPath)
		return "", ErrorCreateOutgoing.Error(err)
	}

	if err = os.Rename(s.incomingPath, outgoingPath); err != nil {
		_ = os.Remove(outgoingPath)
		return "", ErrorRename.Error(err)
	}

	s.outgoingPath = outgoingPath
	s.finalized = true
	return outgoingPath, nil
}

// Reader returns the journal's descriptor positioned at its current offset,
// for C4 to read frames back from after Finalize rewinds it to zero.
func (s *Store) Reader() io.Reader {
	return s.f
}

// Close releases the journal's descriptor (and, with it, the advisory lock),
// for use once a forwarder has fully consumed the outgoing file.
func (s *Store) Close() liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return liberr.Make(s.f.Close())
}
