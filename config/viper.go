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

package config

import (
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	liberr "github.com/sabouaram/logsrvd/errors"
)

// RegisterFlags binds the command-line flags a deployment may override,
// each bound through v so a value set on the command line always wins over
// the config file (the same BindPFlag-per-flag pattern the teacher's own
// config components use to wire cobra to viper).
func RegisterFlags(cmd *spfcbr.Command, v *spfvpr.Viper) error {
	flags := cmd.PersistentFlags()

	flags.String("listen", ":30344", "address the receiver accepts connections on")
	flags.String("sink", string(SinkModeLocal), "dispatch mode: local or relay")
	flags.String("relay-dir", "", "journal tree root, required when sink is relay")
	flags.String("iolog-root", "", "I/O-log tree root, required when sink is local")
	flags.String("compression", "none", "stream-file compression: none, bzip2, gzip, lz4, xz")
	flags.Int("max-message-size", 1<<20, "largest framed client message accepted")
	flags.Duration("server-timeout", 0, "idle timeout between frames, zero disables it")
	flags.Float64("random-drop", 0, "probability in [0,1] of dropping an I/O buffer, testing only")

	for _, name := range []string{
		"listen", "sink", "relay-dir", "iolog-root", "compression",
		"max-message-size", "server-timeout", "random-drop",
	} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}

	return nil
}

// Load reads v's bound sources (config file, environment, flags, in that
// increasing order of precedence) into an Options and validates it.
func Load(v *spfvpr.Viper) (*Options, liberr.Error) {
	opt := &Options{
		ListenAddr:            v.GetString("listen"),
		Sink:                  SinkMode(v.GetString("sink")),
		RelayDir:              v.GetString("relay-dir"),
		IOLogRoot:             v.GetString("iolog-root"),
		Compression:           v.GetString("compression"),
		MaxMessageSize:        v.GetInt("max-message-size"),
		ServerTimeout:         v.GetDuration("server-timeout"),
		RandomDropProbability: v.GetFloat64("random-drop"),
	}

	if err := opt.Validate(); err != nil {
		return nil, err
	}

	return opt, nil
}
