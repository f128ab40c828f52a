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

import "github.com/sabouaram/logsrvd/errors"

const (
	ErrorDirCreate errors.CodeError = iota + errors.MinPkgIOLog
	ErrorStreamOpen
	ErrorStreamWrite
	ErrorTimingOverflow
	ErrorTimingParse
	ErrorTimingWrite
	ErrorSeal
	ErrorRandomDrop
	ErrorSessionMissing
	ErrorAlreadyComplete
	ErrorSeekOvershoot
	ErrorSeekInvalid
	ErrorRewriteOpen
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorDirCreate)
	errors.RegisterIdFctMessage(ErrorDirCreate, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorDirCreate:
		return "unable to create I/O-log directory"
	case ErrorStreamOpen:
		return "unable to open I/O-log stream file"
	case ErrorStreamWrite:
		return "unable to write I/O-log stream payload"
	case ErrorTimingOverflow:
		return "timing record exceeds scratch buffer capacity"
	case ErrorTimingParse:
		return "malformed timing record"
	case ErrorTimingWrite:
		return "unable to write timing record"
	case ErrorSeal:
		return "unable to seal timing file"
	case ErrorRandomDrop:
		return "random-drop facility terminated the write"
	case ErrorSessionMissing:
		return "I/O-log session directory not found"
	case ErrorAlreadyComplete:
		return "log is already complete, cannot be restarted"
	case ErrorSeekOvershoot:
		return "invalid journal file, unable to restart"
	case ErrorSeekInvalid:
		return "invalid journal file, unable to restart"
	case ErrorRewriteOpen:
		return "unable to open replacement stream file for rewrite"
	}

	return ""
}
