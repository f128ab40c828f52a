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

// Package elapsed implements the connection closure's monotonic session clock:
// a (seconds, nanoseconds) pair that only ever advances by client-supplied
// delays and is compared lexicographically for ordering and restart validation.
//
// It deliberately does not wrap time.Duration: a session clock is a point in
// a client-defined timeline, not a Go duration, and the wire format it mirrors
// (decimal seconds dot nine-digit nanoseconds, as in the timing-file grammar)
// treats the two components independently rather than as a single int64 of
// nanoseconds, so very long sessions never risk the overflow a pure-duration
// representation would hit.
package elapsed

import "fmt"

const nanosPerSec = 1_000_000_000

// Time is one (seconds, nanoseconds) sample of the session clock. Nanos is
// always kept in [0, 1e9) by every constructor and mutator in this package.
type Time struct {
	Sec  int64
	Nsec int32
}

// Zero is the clock's starting value, used when a connection is constructed
// or reset.
var Zero = Time{}

// New builds a Time from a seconds/nanoseconds pair, normalizing an
// out-of-range nsec (e.g. 1_500_000_000) by carrying into sec rather than
// rejecting it — the wire decoder is expected to hand over already-normalized
// values, but callers synthesizing a Time by hand (tests, the replay CLI)
// should not have to pre-normalize.
func New(sec int64, nsec int64) Time {
	if nsec < 0 {
		borrow := (-nsec + nanosPerSec - 1) / nanosPerSec
		sec -= borrow
		nsec += borrow * nanosPerSec
	} else if nsec >= nanosPerSec {
		carry := nsec / nanosPerSec
		sec += carry
		nsec -= carry * nanosPerSec
	}

	return Time{Sec: sec, Nsec: int32(nsec)}
}

// Advance returns t moved forward by delay (spec §4.1: "advance(delay)"),
// carrying nanosecond overflow into the seconds component.
func Advance(t, delay Time) Time {
	return New(t.Sec+delay.Sec, int64(t.Nsec)+int64(delay.Nsec))
}

// Compare orders two Time values: -1 if a < b, 0 if equal, 1 if a > b
// (spec §4.1: "compare(a, b)").
func Compare(a, b Time) int {
	if a.Sec != b.Sec {
		if a.Sec < b.Sec {
			return -1
		}
		return 1
	}

	if a.Nsec != b.Nsec {
		if a.Nsec < b.Nsec {
			return -1
		}
		return 1
	}

	return 0
}

// Before reports whether a precedes b.
func Before(a, b Time) bool {
	return Compare(a, b) < 0
}

// After reports whether a follows b.
func After(a, b Time) bool {
	return Compare(a, b) > 0
}

// String renders the timing-file grammar's decimal form: seconds, a dot, then
// nine zero-padded nanosecond digits.
func (t Time) String() string {
	return fmt.Sprintf("%d.%09d", t.Sec, t.Nsec)
}

// IsZero reports whether t is the clock's starting value.
func (t Time) IsZero() bool {
	return t == Zero
}
