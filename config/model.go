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

// Package config models the receiver's own runtime configuration: where
// journals and I/O-logs live on disk, which sink a connection is bound to,
// and the knobs that govern compression and random I/O-buffer drops.
package config

import (
	"time"

	libval "github.com/go-playground/validator/v10"

	"github.com/sabouaram/logsrvd/archive/compress"
	liberr "github.com/sabouaram/logsrvd/errors"
)

// SinkMode selects, process-wide, which dispatch table every accepted
// connection is bound to (spec §4.8). A single process never mixes both —
// that would require per-connection routing the spec does not describe.
type SinkMode string

const (
	SinkModeLocal   SinkMode = "local"
	SinkModeRelay   SinkMode = "relay"
)

// Options is the full set of values a deployment supplies, normally read
// from a YAML/TOML/JSON file via Viper and overridable by CLI flags (see
// Load in viper.go).
type Options struct {
	// ListenAddr is the address the receiver accepts connections on.
	ListenAddr string `json:"listenAddr" yaml:"listenAddr" toml:"listenAddr" mapstructure:"listenAddr" validate:"required"`

	// Sink selects the local or relay dispatch table.
	Sink SinkMode `json:"sink" yaml:"sink" toml:"sink" mapstructure:"sink" validate:"required,oneof=local relay"`

	// RelayDir is the journal tree root (spec §4.3), required when Sink is relay.
	RelayDir string `json:"relayDir,omitempty" yaml:"relayDir,omitempty" toml:"relayDir,omitempty" mapstructure:"relayDir,omitempty"`

	// IOLogRoot is the I/O-log tree root (spec §4.5), required when Sink is local.
	IOLogRoot string `json:"ioLogRoot,omitempty" yaml:"ioLogRoot,omitempty" toml:"ioLogRoot,omitempty" mapstructure:"ioLogRoot,omitempty"`

	// Compression selects the stream-file codec new I/O-log sessions use.
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty" toml:"compression,omitempty" mapstructure:"compression,omitempty" validate:"omitempty,oneof=none bzip2 gzip lz4 xz"`

	// MaxMessageSize bounds a single framed client message (spec §4.2).
	MaxMessageSize int `json:"maxMessageSize,omitempty" yaml:"maxMessageSize,omitempty" toml:"maxMessageSize,omitempty" mapstructure:"maxMessageSize,omitempty" validate:"omitempty,gt=0"`

	// ServerTimeout bounds how long a connection may sit idle between frames.
	ServerTimeout time.Duration `json:"serverTimeout,omitempty" yaml:"serverTimeout,omitempty" toml:"serverTimeout,omitempty" mapstructure:"serverTimeout,omitempty"`

	// RandomDropProbability arms the testing-only I/O-buffer drop hook
	// (spec §4.5 Non-goals note); zero disables it.
	RandomDropProbability float64 `json:"randomDropProbability,omitempty" yaml:"randomDropProbability,omitempty" toml:"randomDropProbability,omitempty" mapstructure:"randomDropProbability,omitempty" validate:"omitempty,gte=0,lte=1"`
}

var validate = libval.New()

// Validate checks the struct constraints above and the sink-dependent
// directory requirements neither validator tag alone can express.
func (o *Options) Validate() liberr.Error {
	if err := validate.Struct(o); err != nil {
		if _, ok := err.(*libval.InvalidValidationError); ok {
			return ErrorValidate.Error(err)
		}
		e := ErrorValidate.Error()
		for _, fe := range err.(libval.ValidationErrors) {
			e.Add(fe)
		}
		return e
	}

	switch o.Sink {
	case SinkModeLocal:
		if o.IOLogRoot == "" {
			return ErrorValidate.Error(errRequired("ioLogRoot"))
		}
	case SinkModeRelay:
		if o.RelayDir == "" {
			return ErrorValidate.Error(errRequired("relayDir"))
		}
	}

	return nil
}

// Algorithm resolves the configured compression name to the archive/compress
// enum, defaulting to None when unset.
func (o *Options) Algorithm() compress.Algorithm {
	for _, a := range compress.List() {
		if a.String() == o.Compression {
			return a
		}
	}
	return compress.None
}
