/*
MIT License

Copyright (c) 2026 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package dispatch_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/logsrvd/connection"
	"github.com/sabouaram/logsrvd/dispatch"
	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/message"
)

var _ = Describe("Journal table", func() {
	var (
		relayDir string
		env      dispatch.Env
		tbl      dispatch.Table
		c        *connection.Closure
		w        *fakeWriter
		codec    message.JSONCodec
	)

	BeforeEach(func() {
		var err error
		relayDir, err = os.MkdirTemp("", "logsrvd-journal-*")
		Expect(err).ToNot(HaveOccurred())

		env = dispatch.Env{RelayDir: relayDir, Decoder: codec, MaxMessageSize: 1 << 20}
		tbl = dispatch.NewJournalTable(env)
		w = &fakeWriter{}
		c = connection.New(context.Background(), connection.SinkJournal, w)
	})

	AfterEach(func() {
		_ = os.RemoveAll(relayDir)
	})

	It("should create a journal file and report its path when buffers are expected", func() {
		msg := message.Message{Variant: message.VariantAccept, ExpectIOBufs: true}
		raw, encErr := codec.Encode(msg)
		Expect(encErr).ToNot(HaveOccurred())

		Expect(tbl.Dispatch(c, raw, msg)).To(BeNil())
		Expect(c.Journal).ToNot(BeNil())
		Expect(filepath.Dir(c.JournalPath)).To(Equal(filepath.Join(relayDir, "incoming")))
		Expect(w.writes).To(HaveLen(1))
	})

	It("should only advance elapsed time on iobuf records, not suspend or winsize", func() {
		accept := message.Message{Variant: message.VariantAccept}
		raw, _ := codec.Encode(accept)
		Expect(tbl.Dispatch(c, raw, accept)).To(BeNil())

		winsize := message.Message{Variant: message.VariantWinsize, Rows: 24, Cols: 80, Delay: elapsed.New(1, 0)}
		raw, _ = codec.Encode(winsize)
		Expect(tbl.Dispatch(c, raw, winsize)).To(BeNil())
		Expect(c.Elapsed).To(Equal(elapsed.Zero))

		iobuf := message.Message{Variant: message.VariantIOBuf, Delay: elapsed.New(3, 0)}
		raw, _ = codec.Encode(iobuf)
		Expect(tbl.Dispatch(c, raw, iobuf)).To(BeNil())
		Expect(c.Elapsed).To(Equal(elapsed.New(3, 0)))
	})

	It("should finalize the journal into outgoing/ on exit", func() {
		accept := message.Message{Variant: message.VariantAccept}
		raw, _ := codec.Encode(accept)
		Expect(tbl.Dispatch(c, raw, accept)).To(BeNil())

		exit := message.Message{Variant: message.VariantExit}
		raw, _ = codec.Encode(exit)
		Expect(tbl.Dispatch(c, raw, exit)).To(BeNil())

		Expect(filepath.Dir(c.JournalPath)).To(Equal(filepath.Join(relayDir, "outgoing")))
		entries, _ := os.ReadDir(filepath.Join(relayDir, "outgoing"))
		Expect(entries).ToNot(BeEmpty())
	})

	It("should reject append records with no bound journal", func() {
		iobuf := message.Message{Variant: message.VariantIOBuf}
		raw, _ := codec.Encode(iobuf)
		Expect(tbl.Dispatch(c, raw, iobuf)).ToNot(BeNil())
	})

	It("should replay a journal up to the resume point on restart", func() {
		accept := message.Message{Variant: message.VariantAccept, ExpectIOBufs: true}
		raw, _ := codec.Encode(accept)
		Expect(tbl.Dispatch(c, raw, accept)).To(BeNil())
		name := filepath.Base(c.JournalPath)

		iobuf := message.Message{Variant: message.VariantIOBuf, Delay: elapsed.New(5, 0)}
		raw, _ = codec.Encode(iobuf)
		Expect(tbl.Dispatch(c, raw, iobuf)).To(BeNil())

		Expect(c.Close()).To(BeNil())

		w2 := &fakeWriter{}
		c2 := connection.New(context.Background(), connection.SinkJournal, w2)
		restart := message.Message{Variant: message.VariantRestart, LogID: "somehost/" + name, ResumePoint: elapsed.New(5, 0)}
		Expect(tbl.Dispatch(c2, nil, restart)).To(BeNil())
		Expect(c2.Elapsed).To(Equal(elapsed.New(5, 0)))
	})
})
