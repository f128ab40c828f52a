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

// Package iolog implements the local sink's I/O-log tree: five optionally
// compressed payload streams (tty-in, tty-out, stdin, stdout, stderr) plus a
// plaintext timing file ordering every I/O-buffer, window-size, and suspend
// event by incremental delay.
package iolog

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/sabouaram/logsrvd/archive/compress"
	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/file/perm"
	"github.com/sabouaram/logsrvd/message"
)

// DirPerm is the mode a session's I/O-log directory is created with.
var DirPerm = perm.Perm(0711)

// filePerm is the initial mode of every stream and the timing file: world
// readable, owner+group writable. Sealing the session clears the write bits
// (spec §4.5: "mode &= ~0222").
var filePerm = perm.Perm(0664)

const timingFileName = "timing"

type streamFile struct {
	f *os.File
	w interface {
		Write(p []byte) (int, error)
		Close() error
	}
	compressed bool
}

// Store is one session's I/O-log directory: streams and the timing file are
// opened lazily, on first write to each.
type Store struct {
	mu sync.Mutex

	dir  string
	algo compress.Algorithm

	streams [message.StreamCount]*streamFile
	timing  *os.File

	clock elapsed.Time
	sealed bool

	dropProbability float64
	rng             *rand.Rand
}

// Create builds the session directory tree under root at relPath (a path
// the event-log backend derives from user/host/session identifiers — see
// eventlog) and returns a Store ready to accept writes (spec §4.5).
func Create(root, relPath string, algo compress.Algorithm) (*Store, liberr.Error) {
	dir := filepath.Join(root, relPath)
	if err := os.MkdirAll(dir, DirPerm.FileMode()); err != nil {
		return nil, ErrorDirCreate.Error(err)
	}

	return &Store{
		dir:  dir,
		algo: algo,
	}, nil
}

// Dir returns the session's I/O-log directory path.
func (s *Store) Dir() string {
	return s.dir
}

// SetRandomDrop configures the random-drop facility: an I/O-buffer write
// that would otherwise succeed instead fails after advancing elapsed time,
// with probability p. Exists purely to exercise restart paths in test
// harnesses (spec §4.5, §9: "must be disabled (probability zero) in
// production configurations").
func (s *Store) SetRandomDrop(p float64, rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropProbability = p
	s.rng = rng
}

func (s *Store) streamPath(k message.Stream) string {
	name := k.String() + s.algo.Extension()
	return filepath.Join(s.dir, name)
}

func (s *Store) ensureStream(k message.Stream) (*streamFile, liberr.Error) {
	if sf := s.streams[k]; sf != nil {
		return sf, nil
	}

	f, err := os.OpenFile(s.streamPath(k), os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm.FileMode())
	if err != nil {
		return nil, ErrorStreamOpen.Error(err)
	}

	w, err := s.algo.Writer(f)
	if err != nil {
		_ = f.Close()
		return nil, ErrorStreamOpen.Error(err)
	}

	sf := &streamFile{f: f, w: w, compressed: !s.algo.IsNone()}
	s.streams[k] = sf
	return sf, nil
}

func (s *Store) ensureTiming() (*os.File, liberr.Error) {
	if s.timing != nil {
		return s.timing, nil
	}

	f, err := os.OpenFile(filepath.Join(s.dir, timingFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm.FileMode())
	if err != nil {
		return nil, ErrorStreamOpen.Error(err)
	}

	s.timing = f
	return f, nil
}

func (s *Store) writeTiming(line string) liberr.Error {
	f, err := s.ensureTiming()
	if err != nil {
		return err
	}

	if _, e := f.WriteString(line); e != nil {
		return ErrorTimingWrite.Error(e)
	}

	return nil
}

// WriteIOBuf writes payload to stream k, appends its timing record, and
// advances elapsed time by delay (spec §4.5 steps 1-5). If the random-drop
// facility is armed, the call may report failure after the writes and the
// time advance have already happened, exactly as the original does.
func (s *Store) WriteIOBuf(k message.Stream, payload []byte, delay elapsed.Time) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf, err := s.ensureStream(k)
	if err != nil {
		return err
	}

	if _, e := sf.w.Write(payload); e != nil {
		return ErrorStreamWrite.Error(e)
	}

	line, e := FormatIOBuf(k, delay, len(payload))
	if e != nil {
		return liberr.Make(e)
	}

	if err = s.writeTiming(line); err != nil {
		return err
	}

	s.clock = elapsed.Advance(s.clock, delay)

	if s.dropProbability > 0 && s.rng != nil && s.rng.Float64() < s.dropProbability {
		return ErrorRandomDrop.Error()
	}

	return nil
}

// WriteWinsize appends a window-size timing record and advances elapsed
// time; it writes no stream payload.
func (s *Store) WriteWinsize(rows, cols uint16, delay elapsed.Time) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, e := FormatWinsize(delay, rows, cols)
	if e != nil {
		return liberr.Make(e)
	}

	if err := s.writeTiming(line); err != nil {
		return err
	}

	s.clock = elapsed.Advance(s.clock, delay)
	return nil
}

// WriteSuspend appends a suspend timing record and advances elapsed time; it
// writes no stream payload.
func (s *Store) WriteSuspend(signal string, delay elapsed.Time) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, e := FormatSuspend(delay, signal)
	if e != nil {
		return liberr.Make(e)
	}

	if err := s.writeTiming(line); err != nil {
		return err
	}

	s.clock = elapsed.Advance(s.clock, delay)
	return nil
}

// Elapsed returns the clock this Store has accumulated from delays it has
// been handed so far.
func (s *Store) Elapsed() elapsed.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Seal clears the write bits from the timing file (mode &= ~0222); this is
// the on-disk marker a restart checks to detect an already-complete session
// (spec §3, §4.5).
func (s *Store) Seal() liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return nil
	}

	if _, err := s.ensureTiming(); err != nil {
		return err
	}

	info, err := os.Stat(filepath.Join(s.dir, timingFileName))
	if err != nil {
		return ErrorSeal.Error(err)
	}

	sealedMode := info.Mode() &^ 0o222
	if err = os.Chmod(filepath.Join(s.dir, timingFileName), sealedMode); err != nil {
		return ErrorSeal.Error(err)
	}

	s.sealed = true
	return nil
}

// Close releases every open stream and the timing file.
func (s *Store) Close() liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first liberr.Error

	for _, sf := range s.streams {
		if sf == nil {
			continue
		}
		if sf.compressed {
			if e := sf.w.Close(); e != nil && first == nil {
				first = liberr.Make(e)
			}
		}
		if e := sf.f.Close(); e != nil && first == nil {
			first = liberr.Make(e)
		}
	}

	if s.timing != nil {
		if e := s.timing.Close(); e != nil && first == nil {
			first = liberr.Make(e)
		}
	}

	return first
}
