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

package frame

import "github.com/sabouaram/logsrvd/errors"

const (
	ErrorWriteIncomplete errors.CodeError = iota + errors.MinPkgFrame
	ErrorLengthWrite
	ErrorLengthRead
	ErrorSizeExceeded
	ErrorPrematureEOF
	ErrorPayloadRead
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorWriteIncomplete)
	errors.RegisterIdFctMessage(ErrorWriteIncomplete, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorWriteIncomplete:
		return "frame write did not complete fully"
	case ErrorLengthWrite:
		return "error occurred while writing frame length prefix"
	case ErrorLengthRead:
		return "error occurred while reading frame length prefix"
	case ErrorSizeExceeded:
		return "frame length exceeds configured maximum message size"
	case ErrorPrematureEOF:
		return "connection closed before frame payload was complete"
	case ErrorPayloadRead:
		return "error occurred while reading frame payload"
	}

	return ""
}
