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

// Package eventlog builds the structured accept/reject/alert records a local
// connection writes alongside its I/O-log tree (spec §4.7), and derives the
// directory name that I/O-log tree lives under from the session's identity.
package eventlog

import (
	"github.com/sabouaram/logsrvd/elapsed"
)

// MetaKind mirrors message.MetaKind; kept distinct so this package's wire
// shape (what an operator reading a "log" file sees) doesn't couple to the
// client protocol's own enum ordering.
type MetaKind uint8

const (
	MetaInt MetaKind = iota
	MetaString
	MetaStringList
)

// MetaValue is one client-supplied metadata entry, validated and normalized
// for JSON rendering.
type MetaValue struct {
	Kind MetaKind
	Int  int64
	Str  string
	List []string
}

// Record is one accept/reject/alert entry written to a session's "log" file.
type Record struct {
	Kind           Kind `validate:"required"`
	SubmissionTime elapsed.Time
	User           string `validate:"required"`
	Host           string `validate:"required"`
	SessionID      string `validate:"required"`
	Reason         string
	Metadata       map[string]MetaValue
}

// Kind distinguishes which of the three event-log record shapes a Record is.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAccept
	KindReject
	KindAlert
)

func (k Kind) String() string {
	switch k {
	case KindAccept:
		return "accept"
	case KindReject:
		return "reject"
	case KindAlert:
		return "alert"
	default:
		return "unknown"
	}
}
