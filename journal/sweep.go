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

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/sabouaram/logsrvd/semaphore"
)

// Sweep lists every finalized journal under <relayDir>/outgoing/ and calls fn
// once per file, bounding the number of files processed concurrently by
// maxWorkers (maxWorkers <= 0 means unbounded). It is the forwarder's batch
// flush, never the per-connection handler — a connection only ever touches
// the one journal it created (spec §4.3).
func Sweep(ctx context.Context, relayDir string, maxWorkers int64, fn func(path string) error) error {
	entries, err := os.ReadDir(filepath.Join(relayDir, outgoingDirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ErrorDirCreate.Error(err)
	}

	sm := semaphore.NewSemaphoreWithContext(ctx, maxWorkers)

	var (
		mu      sync.Mutex
		firstErr error
	)

	var wg sync.WaitGroup
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(relayDir, outgoingDirName, entry.Name())

		if err = sm.NewWorker(); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			defer sm.DeferWorker()

			if e := fn(p); e != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = e
				}
				mu.Unlock()
			}
		}(path)
	}

	wg.Wait()
	return firstErr
}
