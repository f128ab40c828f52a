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

package iolog

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/sabouaram/logsrvd/archive/compress"
	"github.com/sabouaram/logsrvd/elapsed"
	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/message"
)

// Restart reopens an existing session directory for a connection resuming at
// target elapsed time (spec §4.6). It stats the timing file to reject an
// already-completed session, then dispatches to seek mode (plain streams,
// random access is possible) or rewrite mode (any stream is compressed, so
// the session is regenerated up to target instead).
func Restart(root, relPath string, algo compress.Algorithm, target elapsed.Time) (*Store, liberr.Error) {
	dir := filepath.Join(root, relPath)

	info, err := os.Stat(filepath.Join(dir, timingFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrorSessionMissing.Error(err)
		}
		return nil, ErrorStreamOpen.Error(err)
	}

	if info.Mode()&0o200 == 0 {
		return nil, ErrorAlreadyComplete.Error()
	}

	if algo.IsNone() {
		return seekRestart(dir, algo, target)
	}
	return rewriteRestart(dir, algo, target)
}

// seekRestart implements C6's seek mode: timing records are scanned
// sequentially, accumulating the byte offset each stream must be positioned
// at, then every file is seeked directly to its restart position (spec §4.6
// steps 5-6).
func seekRestart(dir string, algo compress.Algorithm, target elapsed.Time) (s *Store, rerr liberr.Error) {
	tf, err := os.OpenFile(filepath.Join(dir, timingFileName), os.O_RDWR, 0)
	if err != nil {
		return nil, ErrorStreamOpen.Error(err)
	}
	defer func() {
		if rerr != nil {
			_ = tf.Close()
		}
	}()

	var streamOffsets [message.StreamCount]int64
	clock := elapsed.Zero
	var consumed int64

	br := bufio.NewReader(tf)
	for clock != target {
		line, e := br.ReadString('\n')
		if e != nil && e != io.EOF {
			return nil, ErrorTimingParse.Error(e)
		}
		if line == "" {
			return nil, ErrorSeekInvalid.Error()
		}

		rec, perr := ParseLine(line)
		if perr != nil {
			return nil, liberr.Make(perr)
		}

		next := elapsed.Advance(clock, rec.Delay)
		if elapsed.After(next, target) {
			return nil, ErrorSeekOvershoot.Error()
		}
		clock = next
		consumed += int64(len(line))

		if rec.Kind.HasPayload() {
			streamOffsets[rec.Kind.Stream()] += int64(rec.PayloadLen)
		}

		if e == io.EOF {
			break
		}
	}

	if clock != target {
		return nil, ErrorSeekInvalid.Error()
	}

	// Force a position-preserving seek before switching the handle from read
	// to write (mandatory on buffered handles transitioning direction).
	if _, e := tf.Seek(consumed, io.SeekStart); e != nil {
		return nil, ErrorStreamOpen.Error(e)
	}

	s = &Store{dir: dir, algo: algo, clock: clock, timing: tf}

	for i := 0; i < message.StreamCount; i++ {
		k := message.Stream(i)
		path := filepath.Join(dir, k.String()+algo.Extension())

		f, e := os.OpenFile(path, os.O_RDWR, filePerm.FileMode())
		if e != nil {
			if os.IsNotExist(e) {
				continue
			}
			_ = s.Close()
			return nil, ErrorStreamOpen.Error(e)
		}
		if _, e = f.Seek(streamOffsets[i], io.SeekStart); e != nil {
			_ = f.Close()
			_ = s.Close()
			return nil, ErrorStreamOpen.Error(e)
		}

		s.streams[i] = &streamFile{f: f, w: f}
	}

	return s, nil
}

// rewriteRestart implements C6's rewrite mode: compressed streams admit no
// random access, so every stream and the timing file are regenerated from
// scratch, replaying only the records up to target, then swapped into place
// (spec §4.6 step 4: "this path is exclusive: it returns directly on
// completion").
func rewriteRestart(dir string, algo compress.Algorithm, target elapsed.Time) (s *Store, rerr liberr.Error) {
	oldTiming, err := os.Open(filepath.Join(dir, timingFileName))
	if err != nil {
		return nil, ErrorStreamOpen.Error(err)
	}
	defer func() { _ = oldTiming.Close() }()

	var oldFiles [message.StreamCount]*os.File
	var oldReaders [message.StreamCount]io.ReadCloser
	var newPaths [message.StreamCount]string

	defer func() {
		for i := range oldFiles {
			if oldReaders[i] != nil {
				_ = oldReaders[i].Close()
			}
			if oldFiles[i] != nil {
				_ = oldFiles[i].Close()
			}
		}
		if rerr != nil {
			for _, p := range newPaths {
				if p != "" {
					_ = os.Remove(p)
				}
			}
		}
	}()

	newTimingPath := filepath.Join(dir, timingFileName+".rewrite")
	newTiming, err := os.OpenFile(newTimingPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm.FileMode())
	if err != nil {
		return nil, ErrorRewriteOpen.Error(err)
	}

	s = &Store{dir: dir, algo: algo}
	clock := elapsed.Zero

	sc := bufio.NewScanner(oldTiming)
	sc.Buffer(make([]byte, 0, maxTimingLine), maxTimingLine)

	reached := clock == target
	for !reached && sc.Scan() {
		line := sc.Text()
		rec, perr := ParseLine(line)
		if perr != nil {
			return nil, liberr.Make(perr)
		}

		next := elapsed.Advance(clock, rec.Delay)
		if elapsed.After(next, target) {
			return nil, ErrorSeekOvershoot.Error()
		}

		if rec.Kind.HasPayload() {
			k := rec.Kind.Stream()

			if oldFiles[k] == nil {
				path := filepath.Join(dir, k.String()+algo.Extension())
				of, e := os.Open(path)
				if e != nil {
					return nil, ErrorStreamOpen.Error(e)
				}
				oldFiles[k] = of

				rd, e := algo.Reader(of)
				if e != nil {
					return nil, ErrorStreamOpen.Error(e)
				}
				oldReaders[k] = rd

				newPaths[k] = path + ".rewrite"
				nf, e := os.OpenFile(newPaths[k], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm.FileMode())
				if e != nil {
					return nil, ErrorRewriteOpen.Error(e)
				}
				nw, e := algo.Writer(nf)
				if e != nil {
					return nil, ErrorRewriteOpen.Error(e)
				}
				s.streams[k] = &streamFile{f: nf, w: nw, compressed: !algo.IsNone()}
			}

			buf := make([]byte, rec.PayloadLen)
			if _, e := io.ReadFull(oldReaders[k], buf); e != nil {
				return nil, ErrorStreamOpen.Error(e)
			}
			if _, e := s.streams[k].w.Write(buf); e != nil {
				return nil, ErrorStreamWrite.Error(e)
			}
		}

		if _, e := newTiming.WriteString(line + "\n"); e != nil {
			return nil, ErrorTimingWrite.Error(e)
		}

		clock = next
		reached = clock == target
	}
	if e := sc.Err(); e != nil {
		return nil, ErrorTimingParse.Error(e)
	}
	if !reached {
		return nil, ErrorSeekInvalid.Error()
	}

	for i := 0; i < message.StreamCount; i++ {
		if s.streams[i] == nil {
			continue
		}
		if s.streams[i].compressed {
			if e := s.streams[i].w.Close(); e != nil {
				return nil, ErrorRewriteOpen.Error(e)
			}
		}
		if e := s.streams[i].f.Close(); e != nil {
			return nil, ErrorRewriteOpen.Error(e)
		}

		orig := filepath.Join(dir, message.Stream(i).String()+algo.Extension())
		if e := os.Rename(newPaths[i], orig); e != nil {
			return nil, ErrorRewriteOpen.Error(e)
		}

		f, e := os.OpenFile(orig, os.O_WRONLY|os.O_APPEND, filePerm.FileMode())
		if e != nil {
			return nil, ErrorStreamOpen.Error(e)
		}
		w, e := algo.Writer(f)
		if e != nil {
			return nil, ErrorStreamOpen.Error(e)
		}
		s.streams[i] = &streamFile{f: f, w: w, compressed: !algo.IsNone()}
	}

	if e := newTiming.Close(); e != nil {
		return nil, ErrorRewriteOpen.Error(e)
	}
	origTiming := filepath.Join(dir, timingFileName)
	if e := os.Rename(newTimingPath, origTiming); e != nil {
		return nil, ErrorRewriteOpen.Error(e)
	}

	tf, e := os.OpenFile(origTiming, os.O_WRONLY|os.O_APPEND, filePerm.FileMode())
	if e != nil {
		return nil, ErrorStreamOpen.Error(e)
	}
	s.timing = tf
	s.clock = clock

	return s, nil
}
