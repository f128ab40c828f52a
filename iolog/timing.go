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
	"fmt"
	"strconv"
	"strings"

	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/message"
)

// EventKind identifies which of the timing-file grammar's three record
// shapes a line follows. The five I/O-buffer kinds share their numeric value
// with message.Stream; winsize and suspend get the two values past the
// stream range.
type EventKind int

const (
	EventKindTTYIn EventKind = iota
	EventKindTTYOut
	EventKindStdin
	EventKindStdout
	EventKindStderr
	EventKindWinsize
	EventKindSuspend
)

// maxTimingLine bounds the formatted record the same way the original's
// fixed scratch buffer does (spec §4.5 step 3: "format... into a bounded
// scratch buffer; reject overflow"). A signal name pathologically longer
// than this is the only way to trip it.
const maxTimingLine = 256

// Record is one parsed line of the timing file.
type Record struct {
	Kind       EventKind
	Delay      elapsed.Time
	PayloadLen int
	Rows, Cols uint16
	Signal     string
}

// FormatIOBuf renders a stream-payload timing line: "<k> <sec>.<nsec> <len>\n".
func FormatIOBuf(stream message.Stream, delay elapsed.Time, payloadLen int) (string, error) {
	return formatLine(fmt.Sprintf("%d %s %d\n", int(stream), delay.String(), payloadLen))
}

// FormatWinsize renders a window-size timing line: "<k> <sec>.<nsec> <rows> <cols>\n".
func FormatWinsize(delay elapsed.Time, rows, cols uint16) (string, error) {
	return formatLine(fmt.Sprintf("%d %s %d %d\n", int(EventKindWinsize), delay.String(), rows, cols))
}

// FormatSuspend renders a suspend timing line: "<k> <sec>.<nsec> <signal>\n".
func FormatSuspend(delay elapsed.Time, signal string) (string, error) {
	return formatLine(fmt.Sprintf("%d %s %s\n", int(EventKindSuspend), delay.String(), signal))
}

func formatLine(line string) (string, error) {
	if len(line) > maxTimingLine {
		return "", ErrorTimingOverflow.Error()
	}
	return line, nil
}

// ParseLine parses one LF-terminated timing-file record (the trailing
// newline, if present, is ignored).
func ParseLine(line string) (Record, error) {
	line = strings.TrimSuffix(line, "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Record{}, ErrorTimingParse.Error()
	}

	kindN, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, ErrorTimingParse.Error(err)
	}
	kind := EventKind(kindN)

	delay, err := parseTimestamp(fields[1])
	if err != nil {
		return Record{}, ErrorTimingParse.Error(err)
	}

	rec := Record{Kind: kind, Delay: delay}

	switch kind {
	case EventKindTTYIn, EventKindTTYOut, EventKindStdin, EventKindStdout, EventKindStderr:
		if len(fields) != 3 {
			return Record{}, ErrorTimingParse.Error()
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return Record{}, ErrorTimingParse.Error(err)
		}
		rec.PayloadLen = n

	case EventKindWinsize:
		if len(fields) != 4 {
			return Record{}, ErrorTimingParse.Error()
		}
		rows, err := strconv.ParseUint(fields[2], 10, 16)
		if err != nil {
			return Record{}, ErrorTimingParse.Error(err)
		}
		cols, err := strconv.ParseUint(fields[3], 10, 16)
		if err != nil {
			return Record{}, ErrorTimingParse.Error(err)
		}
		rec.Rows, rec.Cols = uint16(rows), uint16(cols)

	case EventKindSuspend:
		rec.Signal = strings.Join(fields[2:], " ")

	default:
		return Record{}, ErrorTimingParse.Error()
	}

	return rec, nil
}

func parseTimestamp(s string) (elapsed.Time, error) {
	sec, nsecStr, ok := strings.Cut(s, ".")
	if !ok || len(nsecStr) != 9 {
		return elapsed.Zero, ErrorTimingParse.Error()
	}

	secV, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return elapsed.Zero, ErrorTimingParse.Error(err)
	}

	nsecV, err := strconv.ParseInt(nsecStr, 10, 32)
	if err != nil {
		return elapsed.Zero, ErrorTimingParse.Error(err)
	}

	return elapsed.New(secV, nsecV), nil
}

// HasPayload reports whether this event kind is one of the five I/O-buffer streams.
func (k EventKind) HasPayload() bool {
	return k <= EventKindStderr
}

// Stream converts an I/O-buffer event kind to its message.Stream; only valid
// when HasPayload() is true.
func (k EventKind) Stream() message.Stream {
	return message.Stream(k)
}
