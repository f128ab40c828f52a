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

// Package frame implements the length-prefixed framing every client message is
// carried in on the wire and in the journal file alike: a 32-bit big-endian
// length followed by that many payload bytes.
package frame

import (
	"encoding/binary"
	"errors"
	"io"
)

// LengthSize is the size in bytes of the big-endian length prefix.
const LengthSize = 4

// DefaultMaxSize is used when a Reader is constructed with max <= 0.
const DefaultMaxSize = 256 * 1024

// minScratch is the smallest scratch buffer a Reader allocates, avoiding a
// string of tiny reallocations for the first few small records.
const minScratch = 512

// WriteFrame writes the big-endian length prefix of payload followed by
// payload itself to w, failing if either part does not complete in full
// (spec §4.2: "fails if the full two-part write does not complete").
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [LengthSize]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))

	if n, err := w.Write(lenBuf[:]); err != nil {
		return ErrorLengthWrite.Error(err)
	} else if n != LengthSize {
		return ErrorWriteIncomplete.Error()
	}

	if len(payload) == 0 {
		return nil
	}

	if n, err := w.Write(payload); err != nil {
		return ErrorWriteIncomplete.Error(err)
	} else if n != len(payload) {
		return ErrorWriteIncomplete.Error()
	}

	return nil
}

// Reader reads length-prefixed frames off an io.Reader, reusing a scratch
// buffer across calls. The buffer grows to the next power of two whenever a
// record exceeds its current capacity (spec §4.2), so steady-state traffic
// at a given record size settles into zero allocations per frame.
type Reader struct {
	r       io.Reader
	maxSize uint32
	scratch []byte
}

// NewReader returns a Reader bound to r, rejecting any frame whose declared
// length exceeds maxSize. maxSize <= 0 uses DefaultMaxSize.
func NewReader(r io.Reader, maxSize int) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Reader{
		r:       r,
		maxSize: uint32(maxSize),
		scratch: make([]byte, minScratch),
	}
}

// ReadFrame reads one frame: a 4-byte big-endian length followed by that many
// payload bytes. The returned slice aliases the Reader's internal scratch
// buffer and is only valid until the next call to ReadFrame.
//
// A length exceeding the configured maximum is a protocol violation. EOF
// before any byte of the length prefix is reported as io.EOF (clean
// connection close); EOF partway through the length or the payload is a
// premature close, distinguished from other I/O errors.
func (r *Reader) ReadFrame() ([]byte, error) {
	var lenBuf [LengthSize]byte

	if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrorPrematureEOF.Error(err)
		}
		return nil, ErrorLengthRead.Error(err)
	}

	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > r.maxSize {
		return nil, ErrorSizeExceeded.Error()
	}

	if length == 0 {
		return r.scratch[:0], nil
	}

	r.grow(length)

	buf := r.scratch[:length]
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrorPrematureEOF.Error(err)
		}
		return nil, ErrorPayloadRead.Error(err)
	}

	return buf, nil
}

func (r *Reader) grow(need uint32) {
	if uint32(len(r.scratch)) >= need {
		return
	}

	n := uint32(len(r.scratch))
	if n == 0 {
		n = minScratch
	}
	for n < need {
		n <<= 1
	}

	r.scratch = make([]byte, n)
}
