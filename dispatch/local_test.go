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

	"github.com/sabouaram/logsrvd/archive/compress"
	"github.com/sabouaram/logsrvd/connection"
	"github.com/sabouaram/logsrvd/dispatch"
	"github.com/sabouaram/logsrvd/elapsed"
	"github.com/sabouaram/logsrvd/eventlog"
	"github.com/sabouaram/logsrvd/message"
)

var _ = Describe("Local table", func() {
	var (
		root         string
		adminLogPath string
		env          dispatch.Env
		tbl          dispatch.Table
		c            *connection.Closure
		w            *fakeWriter
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "logsrvd-iolog-*")
		Expect(err).ToNot(HaveOccurred())
		adminLogPath = filepath.Join(root, "admin", "events.log")

		env = dispatch.Env{
			IOLogRoot:      root,
			Compression:    compress.None,
			Decoder:        message.JSONCodec{},
			MaxMessageSize: 1 << 20,
			EventLog:       eventlog.NewBackend(adminLogPath),
		}
		tbl = dispatch.NewLocalTable(env)
		w = &fakeWriter{}
		c = connection.New(context.Background(), connection.SinkLocal, w)
	})

	AfterEach(func() {
		_ = os.RemoveAll(root)
	})

	It("should record an accept event and create an I/O-log tree when buffers are expected", func() {
		msg := message.Message{
			Variant:      message.VariantAccept,
			ExpectIOBufs: true,
			Metadata: map[string]message.MetaValue{
				"user":       {Kind: message.MetaString, Str: "alice"},
				"submithost": {Kind: message.MetaString, Str: "workstation"},
			},
		}

		Expect(tbl.Dispatch(c, nil, msg)).To(BeNil())
		Expect(c.Failed()).To(BeFalse())
		Expect(c.EvLog).ToNot(BeNil())
		Expect(c.EvLog.Kind).To(Equal(eventlog.KindAccept))
		Expect(c.EvLog.User).To(Equal("alice"))
		Expect(c.IOLog).ToNot(BeNil())
		Expect(c.IOLogPath).ToNot(BeEmpty())
		Expect(w.writes).To(HaveLen(1))

		sessionLog, err := os.ReadFile(filepath.Join(c.IOLog.Dir(), eventlog.SessionLogFileName))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(sessionLog)).To(ContainSubstring(`"kind":"accept"`))
		Expect(string(sessionLog)).To(ContainSubstring(`"user":"alice"`))

		adminLog, err := os.ReadFile(adminLogPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(adminLog)).To(ContainSubstring(`"kind":"accept"`))
	})

	It("should record an accept event to the administrative event log even when no buffers are expected", func() {
		msg := message.Message{
			Variant: message.VariantAccept,
			Metadata: map[string]message.MetaValue{
				"user":       {Kind: message.MetaString, Str: "carol"},
				"submithost": {Kind: message.MetaString, Str: "workstation"},
			},
		}

		Expect(tbl.Dispatch(c, nil, msg)).To(BeNil())
		Expect(c.IOLog).To(BeNil())
		Expect(c.IOLogPath).To(BeEmpty())

		adminLog, err := os.ReadFile(adminLogPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(adminLog)).To(ContainSubstring(`"kind":"accept"`))
		Expect(string(adminLog)).To(ContainSubstring(`"user":"carol"`))

		exit := message.Message{Variant: message.VariantExit, ExitCode: 0}
		Expect(tbl.Dispatch(c, nil, exit)).To(BeNil())
	})

	It("should record a reject event without creating an I/O-log tree", func() {
		msg := message.Message{
			Variant: message.VariantReject,
			Reason:  "policy denied",
			Metadata: map[string]message.MetaValue{
				"user": {Kind: message.MetaString, Str: "bob"},
			},
		}

		Expect(tbl.Dispatch(c, nil, msg)).To(BeNil())
		Expect(c.EvLog.Kind).To(Equal(eventlog.KindReject))
		Expect(c.EvLog.Reason).To(Equal("policy denied"))
		Expect(c.IOLog).To(BeNil())

		adminLog, err := os.ReadFile(adminLogPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(adminLog)).To(ContainSubstring(`"kind":"reject"`))
		Expect(string(adminLog)).To(ContainSubstring(`"reason":"policy denied"`))
	})

	It("should fail exit without a prior accept", func() {
		Expect(tbl.Dispatch(c, nil, message.Message{Variant: message.VariantExit})).ToNot(BeNil())
		Expect(c.Failed()).To(BeTrue())
	})

	It("should seal the I/O-log and record the exit code on exit", func() {
		accept := message.Message{Variant: message.VariantAccept, ExpectIOBufs: true}
		Expect(tbl.Dispatch(c, nil, accept)).To(BeNil())

		exit := message.Message{Variant: message.VariantExit, ExitCode: 42}
		Expect(tbl.Dispatch(c, nil, exit)).To(BeNil())
		Expect(c.EvLog.Metadata["exit_code"].Int).To(Equal(int64(42)))

		sessionLog, err := os.ReadFile(filepath.Join(c.IOLog.Dir(), eventlog.SessionLogFileName))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(sessionLog)).To(ContainSubstring(`"exit_code":42`))

		adminLog, err := os.ReadFile(adminLogPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(adminLog)).To(ContainSubstring(`"exit_code":42`))
	})

	It("should advance elapsed time on an iobuf record", func() {
		accept := message.Message{Variant: message.VariantAccept, ExpectIOBufs: true}
		Expect(tbl.Dispatch(c, nil, accept)).To(BeNil())

		iobuf := message.Message{
			Variant: message.VariantIOBuf,
			Stream:  message.StreamStdout,
			Payload: []byte("hello"),
			Delay:   elapsed.New(1, 0),
		}
		Expect(tbl.Dispatch(c, nil, iobuf)).To(BeNil())
		Expect(c.Elapsed).To(Equal(elapsed.New(1, 0)))
	})

	It("should reject an iobuf record with no bound I/O-log", func() {
		iobuf := message.Message{Variant: message.VariantIOBuf, Stream: message.StreamStdout, Payload: []byte("x")}
		Expect(tbl.Dispatch(c, nil, iobuf)).ToNot(BeNil())
	})

	It("should restart an I/O-log and adopt its resume-point elapsed time", func() {
		accept := message.Message{Variant: message.VariantAccept, ExpectIOBufs: true}
		Expect(tbl.Dispatch(c, nil, accept)).To(BeNil())
		logID := c.IOLogPath

		iobuf := message.Message{Variant: message.VariantIOBuf, Stream: message.StreamStdout, Payload: []byte("hi"), Delay: elapsed.New(2, 0)}
		Expect(tbl.Dispatch(c, nil, iobuf)).To(BeNil())
		Expect(c.Close()).To(BeNil())

		w2 := &fakeWriter{}
		c2 := connection.New(context.Background(), connection.SinkLocal, w2)
		restart := message.Message{Variant: message.VariantRestart, LogID: logID, ResumePoint: elapsed.New(2, 0)}
		Expect(tbl.Dispatch(c2, nil, restart)).To(BeNil())
		Expect(c2.Elapsed).To(Equal(elapsed.New(2, 0)))
	})
})
