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

import "github.com/sabouaram/logsrvd/errors"

const (
	ErrorDirCreate errors.CodeError = iota + errors.MinPkgJournal
	ErrorCreateIncoming
	ErrorLockContention
	ErrorCreateOutgoing
	ErrorRename
	ErrorFlush
	ErrorRewind
	ErrorSeekOvershoot
	ErrorSeekInvalid
	ErrorAlreadyClosed
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
		return "unable to create relay directory"
	case ErrorCreateIncoming:
		return "unable to create incoming journal file"
	case ErrorLockContention:
		return "unable to acquire advisory lock on journal file"
	case ErrorCreateOutgoing:
		return "unable to reserve outgoing journal file name"
	case ErrorRename:
		return "unable to rename journal file from incoming to outgoing"
	case ErrorFlush:
		return "unable to flush buffered journal writes"
	case ErrorRewind:
		return "unable to rewind journal file to offset zero"
	case ErrorSeekOvershoot:
		return "invalid journal file, unable to restart"
	case ErrorSeekInvalid:
		return "invalid journal file, unable to restart"
	case ErrorAlreadyClosed:
		return "journal is already closed"
	}

	return ""
}
