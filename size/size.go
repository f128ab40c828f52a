/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package size provides a human-readable byte-count type for configuration
// structs (such as the logger's file buffer size).
package size

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a byte count with parsing/formatting helpers for unit suffixes (B, K, M, G, T, P).
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo      = SizeUnit * 1024
	SizeMega      = SizeKilo * 1024
	SizeGiga      = SizeMega * 1024
	SizeTera      = SizeGiga * 1024
	SizePeta      = SizeTera * 1024
)

var suffixes = []struct {
	unit Size
	short string
	long  string
}{
	{SizePeta, "P", "PB"},
	{SizeTera, "T", "TB"},
	{SizeGiga, "G", "GB"},
	{SizeMega, "M", "MB"},
	{SizeKilo, "K", "KB"},
}

// Parse converts a human string such as "10MB", "512K" or "100" (bytes) into a Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return SizeNul, fmt.Errorf("empty size value")
	}

	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.long) {
			return parseNum(strings.TrimSuffix(s, sfx.long), sfx.unit)
		}
	}

	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.short) {
			return parseNum(strings.TrimSuffix(s, sfx.short), sfx.unit)
		}
	}

	if strings.HasSuffix(s, "B") {
		return parseNum(strings.TrimSuffix(s, "B"), SizeUnit)
	}

	return parseNum(s, SizeUnit)
}

func parseNum(s string, unit Size) (Size, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return SizeNul, fmt.Errorf("invalid size value %q: %w", s, err)
	}
	return Size(f * float64(unit)), nil
}

// String renders the size using the largest unit that keeps the mantissa >= 1.
func (s Size) String() string {
	v := float64(s)

	for _, sfx := range suffixes {
		if s >= sfx.unit {
			return fmt.Sprintf("%.2f%s", v/float64(sfx.unit), sfx.long)
		}
	}

	return fmt.Sprintf("%dB", uint64(s))
}

// Uint64 returns the raw byte count.
func (s Size) Uint64() uint64 {
	return uint64(s)
}

// Int64 returns the raw byte count as an int64.
func (s Size) Int64() int64 {
	return int64(s)
}
