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

package journal

import (
	"errors"
	"io"

	liberr "github.com/sabouaram/logsrvd/errors"
	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/frame"
	"github.com/sabouaram/logsrvd/message"
)

// Seek replays r, a journal positioned at offset zero, one record at a time:
// each record is read as a frame (C2), decoded, and its delay (if the variant
// carries one) advances the running elapsed time. It stops as soon as that
// running time reaches target, returning the number of bytes consumed so the
// caller can resume writing new records right after the last replayed one
// (spec §4.4).
//
// Overshooting target without ever equaling it along the way — a record's
// delay pushing elapsed time past the target instead of landing on it — means
// the journal and the restart point disagree, and is reported as
// ErrorSeekOvershoot. Running out of records before reaching target is
// ErrorSeekInvalid: the journal does not cover the requested restart point.
func Seek(r io.Reader, dec message.Decoder, maxMessageSize int, target elapsed.Time) (consumed int64, err liberr.Error) {
	fr := frame.NewReader(r, maxMessageSize)
	clock := elapsed.Zero
	var n int64

	for {
		if clock == target {
			return n, nil
		}

		raw, e := fr.ReadFrame()
		if e != nil {
			if errors.Is(e, io.EOF) {
				return n, ErrorSeekInvalid.Error()
			}
			return n, liberr.Make(e)
		}

		n += int64(frame.LengthSize) + int64(len(raw))

		msg, e := dec.Decode(raw)
		if e != nil {
			return n, liberr.Make(e)
		}

		// Deviates from the original daemon, which logs "unexpected type_case
		// value" for an unrecognized variant and continues without updating
		// time; here an unknown variant is a protocol violation.
		if msg.Variant == message.VariantUnknown {
			return n, ErrorSeekInvalid.Error()
		}

		if msg.Variant.HasDelay() {
			next := elapsed.Advance(clock, msg.Delay)
			if elapsed.After(next, target) {
				return n, ErrorSeekOvershoot.Error()
			}
			clock = next
		}
	}
}
