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

// Command logsrvd is the audit-log receiver's CLI entrypoint: it loads the
// process configuration (config package) via spf13/cobra + spf13/viper and
// reports the bound connection-handling mode, and carries the `replay`
// subcommand for driving the journal/I/O-log seekers outside of a live
// connection, for operator troubleshooting.
package main

import (
	"context"
	"fmt"
	"os"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	"github.com/sabouaram/logsrvd/config"
	"github.com/sabouaram/logsrvd/logger"
	loglvl "github.com/sabouaram/logsrvd/logger/level"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *spfcbr.Command {
	v := spfvpr.New()
	v.SetEnvPrefix("logsrvd")
	v.AutomaticEnv()

	log := logger.New(context.Background())
	log.SetStdLogger(loglvl.InfoLevel, 0)

	root := &spfcbr.Command{
		Use:   "logsrvd",
		Short: "Centralized audit-log receiver for privileged-command execution sessions",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			opt, err := config.Load(v)
			if err != nil {
				return err
			}

			log.Info("logsrvd: sink=%s listen=%s compression=%s", nil, opt.Sink, opt.ListenAddr, opt.Algorithm())
			log.Info("the connection-handling event loop is wired through the dispatch package's Table; this command only validates configuration", nil)
			return nil
		},
	}

	if cfgFile := os.Getenv("LOGSRVD_CONFIG"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		_ = v.ReadInConfig()
	}

	if err := config.RegisterFlags(root, v); err != nil {
		panic(err)
	}

	root.AddCommand(newReplayCommand())

	return root
}
