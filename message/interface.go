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

// Package message models the client wire messages a connection dispatches on.
//
// The real wire codec (protocol-buffer framing of these variants) is an external
// collaborator of this core — this package only describes the decoded shape a
// Decoder must produce, and the Variant/stream-index vocabulary the dispatch
// switch and both sinks key off of. Swapping in an actual protobuf-backed Decoder
// never touches journal, iolog, eventlog or dispatch.
package message

import "github.com/sabouaram/logsrvd/elapsed"

// Variant enumerates the eight inbound client message kinds the dispatch switch
// (C8 in the design) has exactly one slot for.
type Variant uint8

const (
	VariantUnknown Variant = iota
	VariantAccept
	VariantReject
	VariantExit
	VariantRestart
	VariantAlert
	VariantIOBuf
	VariantSuspend
	VariantWinsize
)

func (v Variant) String() string {
	switch v {
	case VariantAccept:
		return "accept"
	case VariantReject:
		return "reject"
	case VariantExit:
		return "exit"
	case VariantRestart:
		return "restart"
	case VariantAlert:
		return "alert"
	case VariantIOBuf:
		return "iobuf"
	case VariantSuspend:
		return "suspend"
	case VariantWinsize:
		return "winsize"
	default:
		return "unknown"
	}
}

// HasDelay reports whether this variant carries a delay field that must advance
// elapsed time (spec §4.4): the five I/O-buffer kinds, window-size and suspend.
// hello/accept/reject/exit/restart/alert never carry a delay.
func (v Variant) HasDelay() bool {
	switch v {
	case VariantIOBuf, VariantSuspend, VariantWinsize:
		return true
	default:
		return false
	}
}

// Stream enumerates the five I/O-buffer stream kinds, sharing index order with
// the timing-file event_kind grammar (§3) and connection.IOFiles.
type Stream uint8

const (
	StreamTTYIn Stream = iota
	StreamTTYOut
	StreamStdin
	StreamStdout
	StreamStderr
	streamCount
)

func (s Stream) String() string {
	switch s {
	case StreamTTYIn:
		return "ttyin"
	case StreamTTYOut:
		return "ttyout"
	case StreamStdin:
		return "stdin"
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// StreamCount is the number of payload streams (excludes the timing file itself).
const StreamCount = int(streamCount)

// MetaKind distinguishes the three value shapes client metadata may carry (§4.7).
type MetaKind uint8

const (
	MetaInt MetaKind = iota
	MetaString
	MetaStringList
)

// MetaValue is one client-supplied key/value metadata entry. Exactly one of the
// three fields is meaningful, selected by Kind; anything else is a protocol
// violation the caller must reject (spec §4.7, deviating from the silent-skip
// behavior of the original daemon).
type MetaValue struct {
	Kind MetaKind
	Int  int64
	Str  string
	List []string
}

// Message is the decoded form of one inbound client record. Fields are a union
// over all eight variants; a correct Decoder only populates the fields relevant
// to Variant.
type Message struct {
	Variant Variant

	// accept/reject/alert
	Metadata     map[string]MetaValue
	ExpectIOBufs bool
	Reason       string
	SubmitTime   elapsed.Time

	// exit
	ExitCode   int32
	ExitSignal string

	// restart
	LogID       string
	ResumePoint elapsed.Time

	// iobuf/suspend/winsize — all three carry Delay; iobuf also carries Stream+Payload
	Delay   elapsed.Time
	Stream  Stream
	Payload []byte

	// winsize
	Rows, Cols uint16

	// suspend
	Signal string
}

// Decoder turns the raw bytes read off the wire (already length-delimited by
// frame.ReadFrame) into a Message. The real implementation is protocol-buffer
// based and lives outside this core (spec §6); tests and the replay CLI use a
// simple deterministic encoding (see JSONCodec in codec.go) instead.
type Decoder interface {
	Decode(raw []byte) (Message, error)
}

// Encoder is the write-side counterpart of Decoder, used only by callers that
// need to synthesize frames (tests, the replay CLI) rather than relay bytes
// they only ever received verbatim — the journal sink never re-encodes a
// message it is forwarding (spec §6: "does not re-encode them for the journal
// sink").
type Encoder interface {
	Encode(m Message) ([]byte, error)
}
