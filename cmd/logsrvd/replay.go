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

package main

import (
	"fmt"

	spfcbr "github.com/spf13/cobra"

	"github.com/sabouaram/logsrvd/archive/compress"
	"github.com/sabouaram/logsrvd/duration"
	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/iolog"
	"github.com/sabouaram/logsrvd/journal"
	"github.com/sabouaram/logsrvd/message"
)

// newReplayCommand drives C4/C6 directly against a path on disk, without a
// live connection, so an operator can confirm a session resumes cleanly at a
// given point before a client ever attempts the same restart.
func newReplayCommand() *spfcbr.Command {
	var (
		mode        string
		relayDir    string
		journalName string
		ioLogRoot   string
		sessionPath string
		compression string
		resume      string
		maxMessage  int
	)

	cmd := &spfcbr.Command{
		Use:   "replay",
		Short: "Replay a journal or I/O-log up to a resume point for troubleshooting",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			parsed, err := duration.Parse(resume)
			if err != nil {
				return fmt.Errorf("invalid --resume duration: %w", err)
			}
			d := parsed.Time()
			target := elapsed.New(int64(d/1_000_000_000), int64(d%1_000_000_000))

			switch mode {
			case "journal":
				return replayJournal(relayDir, journalName, maxMessage, target)
			case "iolog":
				return replayIOLog(ioLogRoot, sessionPath, algorithmOf(compression), target)
			default:
				return fmt.Errorf("unknown --mode %q, expected journal or iolog", mode)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&mode, "mode", "iolog", "journal or iolog")
	flags.StringVar(&relayDir, "relay-dir", "", "journal tree root (journal mode)")
	flags.StringVar(&journalName, "journal", "", "journal file name under <relay-dir>/incoming (journal mode)")
	flags.StringVar(&ioLogRoot, "iolog-root", "", "I/O-log tree root (iolog mode)")
	flags.StringVar(&sessionPath, "session", "", "session directory relative to --iolog-root (iolog mode)")
	flags.StringVar(&compression, "compression", "none", "stream-file compression the session was recorded with")
	flags.StringVar(&resume, "resume", "0s", "resume point, e.g. 1h2m3s or 5d23h15m13s")
	flags.IntVar(&maxMessage, "max-message-size", 1<<20, "largest framed client message accepted")

	return cmd
}

func replayJournal(relayDir, name string, maxMessage int, target elapsed.Time) error {
	store, err := journal.OpenIncoming(relayDir, name)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	consumed, serr := journal.Seek(store.Reader(), message.JSONCodec{}, maxMessage, target)
	if serr != nil {
		return serr
	}

	fmt.Printf("journal %s: replayed %d bytes up to %s\n", name, consumed, target)
	return nil
}

func replayIOLog(root, relPath string, algo compress.Algorithm, target elapsed.Time) error {
	store, err := iolog.Restart(root, relPath, algo, target)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Printf("session %s: resumed at %s\n", relPath, store.Elapsed())
	return nil
}

func algorithmOf(name string) compress.Algorithm {
	for _, a := range compress.List() {
		if a.String() == name {
			return a
		}
	}
	return compress.None
}
